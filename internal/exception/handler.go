// Package exception implements the Exception Handler (C6): classifies
// the breakpoint a stopped thread reports as ours (serviced by C4),
// Delve's own unrecovered-panic/fatal-throw breakpoint (the
// second-chance-exception analog), or unknown (not ours).
//
// Delve installs internal breakpoints named "unrecovered-panic" and
// "runtime-fatal-throw" at the runtime's panic and fatal-error entry
// points; a thread stopping there is exactly spec §4.6's "second-chance
// exception in the debuggee" — the first chance (the defer/recover chain)
// already ran and nothing consumed it.
package exception

import (
	"github.com/go-delve/delve/service/api"

	"github.com/glthr/covrun/internal/logging"
)

const unhandledMessage = "Unhandled exception occurred"

const (
	unrecoveredPanicBreakpoint = "unrecovered-panic"
	fatalThrowBreakpoint       = "runtime-fatal-throw"
)

// Servicer is the breakpoint.Manager capability the handler needs: "is
// this address one of ours, and if so mark its Line executed".
type Servicer interface {
	Service(addr uint64) bool
}

// Classification is the outcome of classifying one stopped thread.
type Classification int

const (
	// NotOurs: an exception/breakpoint not owned by the coverage runner —
	// acked not-handled so the debuggee's own handler (or the OS) runs.
	NotOurs Classification = iota
	// Ours: a coverage breakpoint; delegate to C4's service routine.
	Ours
	// Unhandled: a second-chance exception reached the debuggee.
	Unhandled
)

// Handler classifies stopped threads and tracks whether an unhandled
// exception was ever observed during the run.
type Handler struct {
	breakpoints Servicer
	log         logging.Sink

	unhandledObserved bool
}

// New constructs a Handler delegating breakpoint-owned hits to
// breakpoints and logging through log.
func New(breakpoints Servicer, log logging.Sink) *Handler {
	return &Handler{breakpoints: breakpoints, log: log}
}

// Classify inspects one stopped thread's breakpoint (nil if the thread
// stopped for a reason other than a breakpoint) and returns its
// Classification, recording the unhandled_exception_observed flag and
// logging the fixed user-visible string when Unhandled.
func (h *Handler) Classify(bp *api.Breakpoint) Classification {
	if bp == nil {
		return NotOurs
	}
	switch bp.Name {
	case unrecoveredPanicBreakpoint, fatalThrowBreakpoint:
		h.unhandledObserved = true
		h.log.Error(unhandledMessage, "breakpoint", bp.Name)
		return Unhandled
	}
	if h.breakpoints.Service(bp.Addr) {
		return Ours
	}
	h.log.Warn("exception at unknown breakpoint address", "addr", bp.Addr, "name", bp.Name)
	return NotOurs
}

// UnhandledObserved reports whether Classify ever returned Unhandled
// during this Handler's lifetime. This flag is process-scoped and is not
// stored in the coverage model — spec §4.6 surfaces it only through
// logging and, via the Runner Façade, the process exit code.
func (h *Handler) UnhandledObserved() bool {
	return h.unhandledObserved
}
