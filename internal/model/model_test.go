package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddModuleAddFileAreIdempotentByPath(t *testing.T) {
	run := New("demo", time.Now())

	m1 := run.AddModule("/bin/demo")
	m2 := run.AddModule("/bin/demo")
	require.Same(t, m1, m2)
	assert.Len(t, run.Modules(), 1)

	f1 := m1.AddFile("main.go")
	f2 := m1.AddFile("main.go")
	require.Same(t, f1, f2)
	assert.Len(t, m1.Files(), 1)
}

func TestAddLineOrCombinesExecuted(t *testing.T) {
	f := newFile("main.go")

	f.AddLine(10, false)
	line := f.Lookup(10)
	require.NotNil(t, line)
	assert.False(t, line.Executed)

	f.AddLine(10, true)
	assert.True(t, f.Lookup(10).Executed)

	// Once executed, re-adding with executed=false must not revert it.
	f.AddLine(10, false)
	assert.True(t, f.Lookup(10).Executed, "a line must never transition executed->not executed")
}

func TestLookupMissingReturnsNil(t *testing.T) {
	f := newFile("main.go")
	assert.Nil(t, f.Lookup(999))
}

func TestLinesIterateInAscendingOrder(t *testing.T) {
	f := newFile("main.go")
	for _, n := range []uint32{44, 12, 30, 1} {
		f.AddLine(n, false)
	}
	var got []uint32
	for _, l := range f.Lines() {
		got = append(got, l.Number)
	}
	assert.Equal(t, []uint32{1, 12, 30, 44}, got)
}

func TestComputeRatesSumsBottomUp(t *testing.T) {
	run := New("demo", time.Now())

	mod := run.AddModule("/bin/demo")
	file := mod.AddFile("main.go")
	file.AddLine(1, true)
	file.AddLine(2, false)
	file.AddLine(3, true)

	otherFile := mod.AddFile("other.go")
	otherFile.AddLine(10, true)

	run.ComputeRates(time.Now())

	assert.Equal(t, Rate{Covered: 2, Total: 3}, file.Rate)
	assert.Equal(t, Rate{Covered: 1, Total: 1}, otherFile.Rate)
	assert.Equal(t, Rate{Covered: 3, Total: 4}, mod.Rate)
	assert.Equal(t, Rate{Covered: 3, Total: 4}, run.Rate)
	assert.LessOrEqual(t, run.Rate.Covered, run.Rate.Total)
}

func TestRateRatioEmptyScopeIsFullyCovered(t *testing.T) {
	var r Rate
	assert.Equal(t, 1.0, r.Ratio())
}

func TestRateRatio(t *testing.T) {
	r := Rate{Covered: 1, Total: 4}
	assert.Equal(t, 0.25, r.Ratio())
}

func TestMarkExecutedNeverReverts(t *testing.T) {
	l := &Line{Number: 5}
	l.MarkExecuted()
	assert.True(t, l.Executed)
	l.MarkExecuted()
	assert.True(t, l.Executed)
}

func TestModulesAndFilesPreserveInsertionOrder(t *testing.T) {
	run := New("demo", time.Now())
	run.AddModule("/bin/b")
	run.AddModule("/bin/a")
	run.AddModule("/bin/c")

	var paths []string
	for _, m := range run.Modules() {
		paths = append(paths, m.Path)
	}
	assert.Equal(t, []string{"/bin/b", "/bin/a", "/bin/c"}, paths)
}
