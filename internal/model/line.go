package model

// Line is one source line known to have code, keyed by its 1-based line
// number within its File. Executed transitions false→true at most once.
type Line struct {
	Number   uint32
	Executed bool
}

// MarkExecuted records an execution of the line. It never un-executes a
// line that was already marked, and is safe to call more than once (the
// breakpoint manager may reinstall and re-hit a multi-hit breakpoint).
func (l *Line) MarkExecuted() {
	l.Executed = true
}
