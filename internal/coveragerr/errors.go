// Package coveragerr defines the typed error kinds of the coverage
// runner's error handling design: InvalidStartInfo, SymbolInfoUnavailable,
// BreakpointInstallFailed, DebugEventProtocolFailure, and
// UnhandledTargetException. Each wraps its cause with
// github.com/pkg/errors; *Error implements Unwrap (not Cause), so a caller
// walks the chain with errors.Unwrap, errors.Is or errors.As.
package coveragerr

import "github.com/pkg/errors"

// Kind identifies one of the error categories in the error handling design.
type Kind int

const (
	// InvalidStartInfo: the target path is empty/missing, or a working
	// directory was set and does not exist. Fails the call before any
	// process is spawned.
	InvalidStartInfo Kind = iota
	// SymbolInfoUnavailable: no debug info was found for a loaded module.
	// Logged at warning; the module still appears in the Run with zero
	// lines.
	SymbolInfoUnavailable
	// BreakpointInstallFailed: writing the trap byte at a single address
	// failed. Logged at warning; that line is omitted; the run continues.
	BreakpointInstallFailed
	// DebugEventProtocolFailure: the debugger's wait or continue call
	// failed. Fatal; the run aborts.
	DebugEventProtocolFailure
	// UnhandledTargetException: a second-chance exception reached the
	// debuggee. Recorded; the run completes normally.
	UnhandledTargetException
)

func (k Kind) String() string {
	switch k {
	case InvalidStartInfo:
		return "InvalidStartInfo"
	case SymbolInfoUnavailable:
		return "SymbolInfoUnavailable"
	case BreakpointInstallFailed:
		return "BreakpointInstallFailed"
	case DebugEventProtocolFailure:
		return "DebugEventProtocolFailure"
	case UnhandledTargetException:
		return "UnhandledTargetException"
	default:
		return "UnknownError"
	}
}

// Error pairs a Kind with the underlying cause.
type Error struct {
	Kind Kind
	Op   string
	err  error
}

func (e *Error) Error() string {
	if e.err == nil {
		return e.Kind.String() + ": " + e.Op
	}
	return e.Kind.String() + ": " + e.Op + ": " + e.err.Error()
}

func (e *Error) Unwrap() error { return e.err }

// New constructs an Error of the given Kind, wrapping cause (which may be
// nil) with a stack trace via github.com/pkg/errors.
func New(kind Kind, op string, cause error) *Error {
	var wrapped error
	if cause != nil {
		wrapped = errors.Wrap(cause, op)
	}
	return &Error{Kind: kind, Op: op, err: wrapped}
}

// Is reports whether err is a *Error of the given Kind, unwrapping
// github.com/pkg/errors causes along the way.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind == kind
		}
		cause := errors.Unwrap(err)
		if cause == nil {
			return false
		}
		err = cause
	}
	return false
}
