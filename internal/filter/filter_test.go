package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptySelectedMatchesNothing(t *testing.T) {
	f := New(PatternSet{}, PatternSet{})
	assert.False(t, f.IsModuleSelected(`C:\app\target.exe`))
}

func TestStarWithNoExcludedMatchesEverything(t *testing.T) {
	f := New(PatternSet{Selected: []string{"*"}}, PatternSet{})
	assert.True(t, f.IsModuleSelected(`C:\app\target.exe`))
	assert.True(t, f.IsModuleSelected(`anything at all`))
}

func TestExcludedOverridesSelected(t *testing.T) {
	f := New(PatternSet{Selected: []string{"*"}, Excluded: []string{"*test*"}}, PatternSet{})
	assert.True(t, f.IsModuleSelected(`C:\app\target.exe`))
	assert.False(t, f.IsModuleSelected(`C:\app\target_test.exe`))
}

func TestMatchingIsCaseInsensitive(t *testing.T) {
	f := New(PatternSet{Selected: []string{`c:\app\target.exe`}}, PatternSet{})
	assert.True(t, f.IsModuleSelected(`C:\APP\TARGET.EXE`))
}

func TestQuestionMarkMatchesSingleCharacter(t *testing.T) {
	f := New(PatternSet{Selected: []string{`*main.?pp`}}, PatternSet{})
	assert.True(t, f.IsSourceSelected(`src/main.cpp`))
	assert.False(t, f.IsSourceSelected(`src/main.cppp`))
}

func TestStarMatchesAcrossPathSeparators(t *testing.T) {
	f := New(PatternSet{Selected: []string{"*"}}, PatternSet{})
	assert.True(t, f.IsModuleSelected("/tmp/xxxx/basiccoverage"))
	assert.True(t, f.IsSourceSelected("src/main.cpp"))
}

func TestRoundTripLowercasedPatternSetEqualsCaseFoldedInput(t *testing.T) {
	lower := New(PatternSet{Selected: []string{`c:\app\*.exe`}}, PatternSet{})
	mixed := New(PatternSet{Selected: []string{`C:\App\*.Exe`}}, PatternSet{})

	path := `c:\App\Target.exe`
	assert.Equal(t, lower.IsModuleSelected(path), mixed.IsModuleSelected(path))
}

func TestSourceAndModuleDimensionsAreIndependent(t *testing.T) {
	f := New(
		PatternSet{Selected: []string{`*.dll`}},
		PatternSet{Selected: []string{`*.cpp`}},
	)
	assert.True(t, f.IsModuleSelected(`lib.dll`))
	assert.False(t, f.IsModuleSelected(`lib.cpp`))
	assert.True(t, f.IsSourceSelected(`main.cpp`))
	assert.False(t, f.IsSourceSelected(`main.dll`))
}

func TestValidatePatternsRejectsMalformedGlob(t *testing.T) {
	err := ValidatePatterns(PatternSet{Selected: []string{"[unterminated"}})
	assert.Error(t, err)
}

func TestValidatePatternsAcceptsWellFormedGlobs(t *testing.T) {
	err := ValidatePatterns(PatternSet{Selected: []string{"*.exe"}, Excluded: []string{"*test*"}})
	assert.NoError(t, err)
}
