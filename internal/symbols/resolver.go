// Package symbols implements the Symbol Resolver (C3): for a loaded
// module, enumerate (source file, line number, virtual address) triples
// from debug information, excluding compiler-generated lines and
// coalescing duplicate (file, line) pairs to their first-seen address.
package symbols

import (
	"sort"

	"github.com/go-delve/delve/service/api"

	"github.com/glthr/covrun/internal/coveragerr"
)

// Triple is one (source file, line number, virtual address) entry the
// resolver produces for a module.
type Triple struct {
	SourcePath string
	Line       uint32
	Addr       uint64
}

// LineResolver is the capability the runner consumes, expressed as a
// behavioral boundary per spec §9's polymorphism note so tests can
// substitute a stub producing synthetic line tables without a live
// debuggee.
type LineResolver interface {
	// ResolveModule returns the finite, non-restartable sequence of line
	// triples a loaded module contributes. It returns
	// coveragerr.SymbolInfoUnavailable when the module has no debug info.
	ResolveModule(modulePath string) ([]Triple, error)
}

// delveClient is the subset of *dlvhost.Client the resolver needs,
// expressed as an interface so unit tests can substitute a fake RPC
// client instead of dialing a real dlv session.
type delveClient interface {
	ListFunctions(filter string) ([]string, error)
	FindLocation(scope api.EvalScope, locspec string, findInstructions bool, rules [][2]string) ([]api.Location, string, error)
}

// DelveResolver resolves lines against a headless Delve RPC client,
// reusing the teacher's FindLocation(..., findInstructions=true) call to
// enumerate every instruction boundary of a function — each boundary
// carries the File/Line/PC triple the coverage model needs.
type DelveResolver struct {
	client delveClient
}

// NewDelveResolver wraps client as a LineResolver.
func NewDelveResolver(client delveClient) *DelveResolver {
	return &DelveResolver{client: client}
}

var anyGoroutineScope = api.EvalScope{GoroutineID: -1}

// ResolveModule enumerates every function defined in modulePath (Delve's
// ListFunctions filter is a regexp matched against fully-qualified
// function names, so modulePath is expected to be the module's import
// path or binary name prefix) and, for each, every instruction-boundary
// Location FindLocation reports. Locations with no source position
// (compiler-generated: runtime trampolines, generated equals/hash
// methods, etc.) are excluded. Duplicate (file, line) pairs within the
// module are coalesced, keeping the first address encountered as the
// breakpoint site — a deterministic tie-break, since FindLocation reports
// instruction boundaries in ascending address order within a function.
func (r *DelveResolver) ResolveModule(modulePath string) ([]Triple, error) {
	fns, err := r.client.ListFunctions(modulePath)
	if err != nil {
		return nil, coveragerr.New(coveragerr.SymbolInfoUnavailable, "list functions for "+modulePath, err)
	}
	if len(fns) == 0 {
		return nil, coveragerr.New(coveragerr.SymbolInfoUnavailable, "no debug info for "+modulePath, nil)
	}

	seen := make(map[fileLine]bool)
	var out []Triple
	for _, fn := range fns {
		locs, _, err := r.client.FindLocation(anyGoroutineScope, fn, true, nil)
		if err != nil {
			// A single unresolvable function (e.g. a fully inlined stub)
			// does not invalidate the rest of the module's line table.
			continue
		}
		for _, loc := range locs {
			if loc.File == "" || loc.Line <= 0 {
				continue // compiler-generated, no source position
			}
			key := fileLine{loc.File, uint32(loc.Line)}
			if seen[key] {
				continue
			}
			seen[key] = true
			addr := loc.PC
			if addr == 0 && len(loc.PCs) > 0 {
				addr = loc.PCs[0]
			}
			out = append(out, Triple{SourcePath: loc.File, Line: uint32(loc.Line), Addr: addr})
		}
	}

	// Stable, deterministic ordering independent of map iteration and of
	// the order ListFunctions happened to return names in.
	sort.Slice(out, func(i, j int) bool {
		if out[i].SourcePath != out[j].SourcePath {
			return out[i].SourcePath < out[j].SourcePath
		}
		return out[i].Line < out[j].Line
	})
	return out, nil
}

type fileLine struct {
	file string
	line uint32
}
