// Package runner implements the Runner Façade (C7): the single
// run_coverage entrypoint spec §4.7 describes, composing the Filter (C2),
// Symbol Resolver (C3), Breakpoint Manager (C4), Exception Handler (C6)
// and Debug Event Pump (C5) collaborators around one Delve RPC client.
package runner

import (
	"context"
	"time"

	"github.com/go-delve/delve/service/api"

	"github.com/glthr/covrun/internal/breakpoint"
	"github.com/glthr/covrun/internal/coveragerr"
	"github.com/glthr/covrun/internal/eventpump"
	"github.com/glthr/covrun/internal/exception"
	"github.com/glthr/covrun/internal/filter"
	"github.com/glthr/covrun/internal/logging"
	"github.com/glthr/covrun/internal/model"
	"github.com/glthr/covrun/internal/symbols"
	"github.com/glthr/covrun/internal/target"
)

// Client is every Delve RPC capability the façade's collaborators need,
// collected into one interface so tests can substitute a single stub
// that plays back a scripted scenario (spec §9's "capability sets" note)
// instead of driving a live debuggee.
type Client interface {
	ListFunctions(filter string) ([]string, error)
	FindLocation(scope api.EvalScope, locspec string, findInstructions bool, rules [][2]string) ([]api.Location, string, error)
	CreateBreakpoint(bp *api.Breakpoint) (*api.Breakpoint, error)
	ClearBreakpoint(id int) (*api.Breakpoint, error)
	Continue() *api.DebuggerState
	ListDynamicLibraries() ([]api.Image, error)
}

// Settings configures which modules and source files are in scope for a
// coverage run.
type Settings struct {
	Modules filter.PatternSet
	Sources filter.PatternSet
}

// Clock abstracts time.Now so tests can supply deterministic timestamps;
// production callers pass time.Now.
type Clock func() time.Time

// Runner composes the coverage pipeline around one already-connected
// Client. Starting and stopping the headless Delve subprocess is the
// caller's responsibility (A2/A6) — the façade only drives the session
// once attached, matching spec §9's layering of "process lifecycle"
// beneath "coverage collection".
type Runner struct {
	client Client
	log    logging.Sink
	clock  Clock
}

// New constructs a Runner. clock may be nil, defaulting to time.Now.
func New(client Client, log logging.Sink, clock Clock) *Runner {
	if clock == nil {
		clock = time.Now
	}
	return &Runner{client: client, log: log, clock: clock}
}

// RunCoverage drives the target named by start to completion under
// settings' filters, returning a fully populated, rate-computed Run.
//
// The returned Run is never nil, even on error: a run that ends in a
// protocol failure or an unhandled target exception still reports
// whatever coverage was collected up to that point, per spec §4.1's "a
// crashed run is still a run".
func (r *Runner) RunCoverage(ctx context.Context, start *target.StartInfo, settings Settings) (*model.Run, error) {
	run := model.New(start.DisplayName, r.clock())

	f := filter.New(settings.Modules, settings.Sources)
	resolver := symbols.NewDelveResolver(r.client)
	bpMgr := breakpoint.New(r.client)
	handler := exception.New(bpMgr, r.log)

	hooks := eventpump.Hooks{
		ModuleLoaded: func(path string) {
			r.instrumentModule(run, f, resolver, bpMgr, path)
		},
		ExceptionHit: func(c exception.Classification, bp *api.Breakpoint) {
			if c == exception.Unhandled {
				r.log.Error("run observed an unhandled exception", "module", start.DisplayName, "breakpoint", bp.Name)
			}
		},
	}

	pump := eventpump.New(r.client, handler, hooks, r.log, start.Path)
	runErr := pump.Run(ctx)

	run.ExitCode = pump.ExitCode()
	run.ComputeRates(r.clock())

	if runErr != nil {
		return run, runErr
	}
	if handler.UnhandledObserved() {
		return run, coveragerr.New(coveragerr.UnhandledTargetException, "target raised an unhandled exception", nil)
	}
	return run, nil
}

// instrumentModule resolves a newly loaded module's line table, filters
// it through f, records the surviving lines in the model, and installs a
// breakpoint at each one. A selected module is added to the Run before its
// symbols are resolved, so a module with no debug info still appears with
// zero lines. Symbol resolution failures and breakpoint install failures
// are logged and skipped rather than aborting the run —
// spec §4.3/§4.4 both treat partial instrumentation as degraded, not
// fatal.
func (r *Runner) instrumentModule(run *model.Run, f *filter.Filter, resolver symbols.LineResolver, bpMgr *breakpoint.Manager, path string) {
	if !f.IsModuleSelected(path) {
		r.log.Info("module excluded by filter", "module", path)
		return
	}

	mod := run.AddModule(path)
	triples, err := resolver.ResolveModule(path)
	if err != nil {
		r.log.Warn("symbol resolution failed for module", "module", path, "err", err)
		return
	}

	for _, t := range triples {
		if !f.IsSourceSelected(t.SourcePath) {
			continue
		}
		file := mod.AddFile(t.SourcePath)
		line := file.AddLine(t.Line, false)
		if err := bpMgr.Install(t.SourcePath, t.Line, t.Addr, line); err != nil {
			r.log.Warn("breakpoint install failed", "file", t.SourcePath, "line", t.Line, "err", err)
		}
	}
}
