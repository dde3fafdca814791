package model

import (
	"time"

	"github.com/google/uuid"
)

// Run is the top-level result of a single coverage invocation. It is
// created when a run starts and finalized (rates computed) when the
// target process exits; it is immutable thereafter.
type Run struct {
	// ID correlates a Run with its on-disk report artifacts; it plays no
	// part in any coverage invariant.
	ID          uuid.UUID
	DisplayName string
	ExitCode    int32
	Rate        Rate
	StartedAt   time.Time
	FinishedAt  time.Time

	modules []*Module
	byKey   map[string]*Module
}

// New creates a fresh Run named displayName, with a freshly generated ID
// and StartedAt stamped to the caller-supplied time (callers pass the
// clock in rather than the model calling time.Now() itself, keeping the
// model free of hidden side effects).
func New(displayName string, startedAt time.Time) *Run {
	return &Run{
		ID:          uuid.New(),
		DisplayName: displayName,
		StartedAt:   startedAt,
		byKey:       make(map[string]*Module),
	}
}

// AddModule returns the Module for path, creating it (in first-seen
// order) if this is the Run's first observation of that image.
func (r *Run) AddModule(path string) *Module {
	if m, ok := r.byKey[path]; ok {
		return m
	}
	m := newModule(path)
	r.byKey[path] = m
	r.modules = append(r.modules, m)
	return m
}

// Modules returns the Run's Modules in the order they were first added.
func (r *Run) Modules() []*Module {
	return r.modules
}

// ComputeRates walks the tree bottom-up exactly once, setting Rate on
// every File, Module, and the Run itself. Call after the target process
// has exited and no more AddModule/AddFile/AddLine calls will occur.
func (r *Run) ComputeRates(finishedAt time.Time) {
	var total Rate
	for _, m := range r.modules {
		total = total.add(m.computeRate())
	}
	r.Rate = total
	r.FinishedAt = finishedAt
}
