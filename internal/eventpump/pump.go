// Package eventpump implements the Debug Event Pump (C5): drives the
// Starting/Attached/Running/Exited state machine spec §4.5 describes by
// repeatedly calling Continue and inspecting the DebuggerState it
// returns.
//
// Delve's RPC is request/response, not a push event stream, so there is
// no direct analog of a blocking WaitForDebugEvent call. The pump
// synthesizes the spec's DllLoaded/DllUnloaded events itself: it snapshots
// ListDynamicLibraries() before and after every Continue() and diffs the
// two sets, in exactly the shape the teacher's own polling loop in
// internal/delvehelper/run.go uses to notice when the target has stopped.
// ListDynamicLibraries never reports the main executable image (Delve
// slices it out — see loadMainModule), so the main module is loaded
// separately, once, on reaching Attached.
package eventpump

import (
	"context"

	"github.com/go-delve/delve/service/api"

	"github.com/glthr/covrun/internal/coveragerr"
	"github.com/glthr/covrun/internal/exception"
	"github.com/glthr/covrun/internal/logging"
)

// Status mirrors spec §4.5's Starting/Attached/Running/Exited states.
type Status int

const (
	Starting Status = iota
	Attached
	Running
	Exited
)

func (s Status) String() string {
	switch s {
	case Starting:
		return "Starting"
	case Attached:
		return "Attached"
	case Running:
		return "Running"
	case Exited:
		return "Exited"
	default:
		return "Unknown"
	}
}

// Client is the subset of *dlvhost.Client the pump needs to drive the
// target and observe module load/unload.
type Client interface {
	Continue() *api.DebuggerState
	ListDynamicLibraries() ([]api.Image, error)
}

// Hooks are the callbacks the Runner Façade supplies for the events the
// pump synthesizes. Any nil hook is simply skipped.
type Hooks struct {
	ModuleLoaded   func(path string)
	ModuleUnloaded func(path string)
	// ExceptionHit is called once per distinct breakpoint address observed
	// on the stopped threads at a stop, after classification.
	ExceptionHit func(classification exception.Classification, bp *api.Breakpoint)
}

// Pump drives one target process through its whole lifetime.
type Pump struct {
	client         Client
	handler        *exception.Handler
	hooks          Hooks
	log            logging.Sink
	mainModulePath string

	status   Status
	exitCode int32
	known    map[string]bool
}

// New constructs a Pump. handler classifies breakpoint hits observed at
// each stop; hooks receives the synthesized module and exception events.
// mainModulePath is the launched executable's own path (StartInfo.Path):
// Delve's ListDynamicLibraries never reports the main executable image
// (it only enumerates dynamically-loaded shared libraries), so Run fires
// ModuleLoaded for it directly on reaching Attached rather than waiting
// for a diff that will never include it.
func New(client Client, handler *exception.Handler, hooks Hooks, log logging.Sink, mainModulePath string) *Pump {
	return &Pump{client: client, handler: handler, hooks: hooks, log: log, mainModulePath: mainModulePath, known: make(map[string]bool)}
}

// Status reports the pump's current lifecycle state.
func (p *Pump) Status() Status { return p.status }

// ExitCode reports the target's exit status. Valid only after Run
// returns with Status()==Exited.
func (p *Pump) ExitCode() int32 { return p.exitCode }

// Run drives the target to completion, calling hooks as module and
// exception events are synthesized, and returns nil once the target has
// exited. It returns coveragerr.DebugEventProtocolFailure if Delve itself
// reports a protocol-level error on a stop, and respects ctx
// cancellation between Continue calls.
func (p *Pump) Run(ctx context.Context) error {
	p.status = Attached
	p.loadMainModule()
	p.diffModules()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		p.status = Running
		state := p.client.Continue()
		if state == nil {
			return coveragerr.New(coveragerr.DebugEventProtocolFailure, "continue target", nil)
		}
		if state.Err != nil {
			return coveragerr.New(coveragerr.DebugEventProtocolFailure, "continue target", state.Err)
		}

		p.diffModules()
		p.dispatchBreakpoints(state)

		if state.Exited {
			p.exitCode = int32(state.ExitStatus)
			p.status = Exited
			p.log.Info("target exited", "code", p.exitCode)
			return nil
		}
	}
}

// loadMainModule fires ModuleLoaded once for the launched executable
// itself, keyed through the same known set diffModules uses so a later
// dynamic-library snapshot that happened to include the same path (it
// shouldn't, per Delve's own Images[1:] slicing, but nothing guarantees
// that forever) can't fire it twice.
func (p *Pump) loadMainModule() {
	if p.mainModulePath == "" || p.known[p.mainModulePath] {
		return
	}
	p.known[p.mainModulePath] = true
	p.log.Info("module loaded", "path", p.mainModulePath, "main", true)
	if p.hooks.ModuleLoaded != nil {
		p.hooks.ModuleLoaded(p.mainModulePath)
	}
}

// diffModules snapshots the currently loaded images and fires
// ModuleLoaded for any path not seen before. Delve's RPC exposes no
// unload notification distinct from process exit, so ModuleUnloaded is
// never called: paths that disappear from a later snapshot are not
// detected and nothing is logged for them.
func (p *Pump) diffModules() {
	images, err := p.client.ListDynamicLibraries()
	if err != nil {
		p.log.Warn("ListDynamicLibraries failed", "err", err)
		return
	}
	for _, img := range images {
		if p.known[img.Path] {
			continue
		}
		p.known[img.Path] = true
		p.log.Info("module loaded", "path", img.Path)
		if p.hooks.ModuleLoaded != nil {
			p.hooks.ModuleLoaded(img.Path)
		}
	}
}

func (p *Pump) dispatchBreakpoints(state *api.DebuggerState) {
	threads := state.Threads
	if len(threads) == 0 && state.CurrentThread != nil {
		threads = []*api.Thread{state.CurrentThread}
	}
	seen := make(map[uint64]bool)
	for _, thread := range threads {
		if thread == nil || thread.Breakpoint == nil {
			continue
		}
		if seen[thread.Breakpoint.Addr] {
			continue
		}
		seen[thread.Breakpoint.Addr] = true
		classification := p.handler.Classify(thread.Breakpoint)
		if p.hooks.ExceptionHit != nil {
			p.hooks.ExceptionHit(classification, thread.Breakpoint)
		}
	}
}
