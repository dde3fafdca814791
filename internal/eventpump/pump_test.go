package eventpump

import (
	"context"
	"testing"

	"github.com/go-delve/delve/service/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glthr/covrun/internal/coveragerr"
	"github.com/glthr/covrun/internal/exception"
	"github.com/glthr/covrun/internal/logging"
)

// scriptedClient replays a fixed sequence of DebuggerStates, one per
// Continue() call, and a fixed sequence of dynamic-library snapshots.
// Real Delve never reports the main executable image through
// ListDynamicLibraries — only genuinely dynamically-loaded shared
// libraries — so the snapshots here deliberately never include it.
type scriptedClient struct {
	states  []*api.DebuggerState
	images  [][]api.Image
	listErr error
	callIdx int
}

func (s *scriptedClient) Continue() *api.DebuggerState {
	st := s.states[s.callIdx]
	s.callIdx++
	return st
}

func (s *scriptedClient) ListDynamicLibraries() ([]api.Image, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	idx := s.callIdx
	if idx >= len(s.images) {
		idx = len(s.images) - 1
	}
	return s.images[idx], nil
}

type fakeServicer struct{ owned map[uint64]bool }

func (f *fakeServicer) Service(addr uint64) bool { return f.owned[addr] }

func TestRunTransitionsToExitedAndCapturesExitCode(t *testing.T) {
	client := &scriptedClient{
		states: []*api.DebuggerState{{Exited: true, ExitStatus: 7}},
		images: [][]api.Image{{}},
	}
	handler := exception.New(&fakeServicer{}, logging.Discard())
	pump := New(client, handler, Hooks{}, logging.Discard(), "main")

	err := pump.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Exited, pump.Status())
	assert.Equal(t, int32(7), pump.ExitCode())
}

func TestRunLoadsMainModuleFromStartInfoPathWithoutDynamicLibraryList(t *testing.T) {
	client := &scriptedClient{
		states: []*api.DebuggerState{{Exited: true}},
		images: [][]api.Image{{}},
	}
	handler := exception.New(&fakeServicer{}, logging.Discard())
	var loaded []string
	pump := New(client, handler, Hooks{ModuleLoaded: func(p string) { loaded = append(loaded, p) }}, logging.Discard(), "/bin/target")

	require.NoError(t, pump.Run(context.Background()))
	assert.Equal(t, []string{"/bin/target"}, loaded)
}

func TestRunFiresModuleLoadedOncePerNewPath(t *testing.T) {
	client := &scriptedClient{
		states: []*api.DebuggerState{
			{Running: false},
			{Exited: true},
		},
		images: [][]api.Image{
			{},
			{{Path: "libfoo.so"}},
		},
	}
	handler := exception.New(&fakeServicer{}, logging.Discard())
	var loaded []string
	pump := New(client, handler, Hooks{ModuleLoaded: func(p string) { loaded = append(loaded, p) }}, logging.Discard(), "main")

	require.NoError(t, pump.Run(context.Background()))
	assert.Equal(t, []string{"main", "libfoo.so"}, loaded)
}

func TestRunDispatchesBreakpointHitsThroughHandler(t *testing.T) {
	bp := &api.Breakpoint{Addr: 0x1000}
	client := &scriptedClient{
		states: []*api.DebuggerState{
			{CurrentThread: &api.Thread{Breakpoint: bp}},
			{Exited: true},
		},
		images: [][]api.Image{{}},
	}
	handler := exception.New(&fakeServicer{owned: map[uint64]bool{0x1000: true}}, logging.Discard())
	var got exception.Classification
	var hitCount int
	pump := New(client, handler, Hooks{ExceptionHit: func(c exception.Classification, _ *api.Breakpoint) {
		got = c
		hitCount++
	}}, logging.Discard(), "main")

	require.NoError(t, pump.Run(context.Background()))
	assert.Equal(t, 1, hitCount)
	assert.Equal(t, exception.Ours, got)
}

func TestRunReturnsDebugEventProtocolFailureOnStateError(t *testing.T) {
	client := &scriptedClient{
		states: []*api.DebuggerState{{Err: assertErr{}}},
		images: [][]api.Image{{}},
	}
	handler := exception.New(&fakeServicer{}, logging.Discard())
	pump := New(client, handler, Hooks{}, logging.Discard(), "main")

	err := pump.Run(context.Background())
	require.Error(t, err)
	assert.True(t, coveragerr.Is(err, coveragerr.DebugEventProtocolFailure))
}

func TestRunRespectsContextCancellation(t *testing.T) {
	client := &scriptedClient{
		states: []*api.DebuggerState{{Running: true}, {Exited: true}},
		images: [][]api.Image{{}},
	}
	handler := exception.New(&fakeServicer{}, logging.Discard())
	pump := New(client, handler, Hooks{}, logging.Discard(), "main")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := pump.Run(ctx)
	require.Error(t, err)
}

func TestRunSurvivesListDynamicLibrariesError(t *testing.T) {
	client := &scriptedClient{
		states:  []*api.DebuggerState{{Exited: true}},
		listErr: assertErr{},
	}
	handler := exception.New(&fakeServicer{}, logging.Discard())
	var loaded []string
	pump := New(client, handler, Hooks{ModuleLoaded: func(p string) { loaded = append(loaded, p) }}, logging.Discard(), "main")

	require.NoError(t, pump.Run(context.Background()))
	assert.Equal(t, []string{"main"}, loaded)
}

type assertErr struct{}

func (assertErr) Error() string { return "rpc failure" }
