// Package filter decides whether a module path or a source path is
// covered, given include/exclude glob pattern sets per dimension.
package filter

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// PatternSet is one dimension's include ("selected") and exclude
// ("excluded") glob patterns. A pattern set with no Selected patterns
// matches nothing — empty include means exclude everything. An empty
// Excluded set matches nothing to exclude. Matching is case-insensitive;
// patterns are flat-string globs (`*` any run of characters, `?` one
// character, no `**` semantics — paths are matched whole, not segmented).
type PatternSet struct {
	Selected []string
	Excluded []string
}

// Filter evaluates module-path and source-path membership against a pair
// of PatternSets, one per dimension.
type Filter struct {
	modules PatternSet
	sources PatternSet
}

// New builds a Filter from the module and source pattern sets. Patterns
// are lower-cased once up front so every match call folds case for free.
func New(modules, sources PatternSet) *Filter {
	return &Filter{modules: lowerSet(modules), sources: lowerSet(sources)}
}

func lowerSet(s PatternSet) PatternSet {
	return PatternSet{Selected: lowerAll(s.Selected), Excluded: lowerAll(s.Excluded)}
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, p := range in {
		out[i] = strings.ToLower(p)
	}
	return out
}

// IsModuleSelected reports whether path matches the module PatternSet.
func (f *Filter) IsModuleSelected(path string) bool {
	return matches(f.modules, path)
}

// IsSourceSelected reports whether path matches the source PatternSet.
func (f *Filter) IsSourceSelected(path string) bool {
	return matches(f.sources, path)
}

// matches implements "matches at least one Selected pattern and no
// Excluded pattern", case-folding the input the same way New folded the
// pattern sets.
func matches(set PatternSet, path string) bool {
	path = strings.ToLower(path)

	if !anyMatch(set.Selected, path) {
		return false
	}
	if anyMatch(set.Excluded, path) {
		return false
	}
	return true
}

// pathSepPlaceholder stands in for '/' before a pattern or path reaches
// doublestar.Match. doublestar treats '/' as a hard segment boundary
// that '*' and '?' can't cross without "**" — but covrun's globs are
// flat-string globs matched against whole paths (Windows paths use
// backslashes; '/' carries no structural meaning here), so both sides
// of the match are rewritten to an ordinary, non-separator rune first.
const pathSepPlaceholder = "\x00"

func flattenSeparators(s string) string {
	return strings.ReplaceAll(s, "/", pathSepPlaceholder)
}

// flattenPattern prepares a pattern for doublestar.Match: '/' is flattened
// like the path, and '\' (an escape character to doublestar) is doubled so
// a Windows path separator in a pattern matches a literal backslash.
func flattenPattern(p string) string {
	return flattenSeparators(strings.ReplaceAll(p, `\`, `\\`))
}

func anyMatch(patterns []string, path string) bool {
	flatPath := flattenSeparators(path)
	for _, p := range patterns {
		ok, err := doublestar.Match(flattenPattern(p), flatPath)
		if err != nil {
			// A malformed glob can never match; treat as a miss rather than
			// propagating a matching error into the hot path.
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

// ValidatePatterns reports the first malformed glob found in a
// PatternSet, if any — intended for config-load-time validation rather
// than the per-path matching hot path.
func ValidatePatterns(set PatternSet) error {
	for _, p := range append(append([]string{}, set.Selected...), set.Excluded...) {
		if _, err := doublestar.Match(flattenPattern(p), ""); err != nil {
			return errors.Wrapf(err, "invalid pattern %q", p)
		}
	}
	return nil
}
