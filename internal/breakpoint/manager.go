// Package breakpoint implements the Breakpoint Manager (C4): installs a
// software breakpoint per surviving line, remembers the back-reference to
// its model.Line, and marks that Line executed when the breakpoint is
// serviced.
//
// The one-byte trap-opcode install, original-byte restore, instruction
// pointer rewind, and single-step reinstall spec §4.4 describes (steps
// 1–6) are performed inside Delve's own ptrace backend when
// CreateBreakpoint/ClearBreakpoint are called — that is exactly the
// "install/remove software breakpoints in the debuggee" mechanism the
// spec asks for, just executed by the debugger subprocess rather than by
// covrun reading and writing the debuggee's memory directly. This
// package's job is the layer above that: which addresses get a
// breakpoint, and what happens in the coverage model when one fires.
package breakpoint

import (
	"sync"

	"github.com/go-delve/delve/service/api"

	"github.com/glthr/covrun/internal/coveragerr"
	"github.com/glthr/covrun/internal/model"
)

// Client is the subset of the Delve RPC client the manager needs.
type Client interface {
	CreateBreakpoint(bp *api.Breakpoint) (*api.Breakpoint, error)
	ClearBreakpoint(id int) (*api.Breakpoint, error)
}

// record is one installed breakpoint. It references the target Line but
// does not own it — Lines are owned by Files owned by Modules owned by
// the Run (spec §9, "back-references vs. ownership").
type record struct {
	id   int
	addr uint64
	line *model.Line
}

// Manager installs/services/removes breakpoints for a single target
// process. Every method holds mu, so calls are serialized; the runner
// still makes them only from the goroutine that owns the event pump.
type Manager struct {
	mu      sync.Mutex
	client  Client
	byAddr  map[uint64]*record
}

// New constructs a Manager bound to client.
func New(client Client) *Manager {
	return &Manager{client: client, byAddr: make(map[uint64]*record)}
}

// Install installs a breakpoint at addr for line, which must already be
// in the coverage model (the caller resolves and filters lines via C2/C3
// before calling Install). On failure it returns
// coveragerr.BreakpointInstallFailed; the caller logs at warning and
// omits the line rather than aborting the run.
func (m *Manager) Install(file string, lineNumber uint32, addr uint64, line *model.Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byAddr[addr]; exists {
		return nil
	}
	bp, err := m.client.CreateBreakpoint(&api.Breakpoint{Addr: addr, File: file, Line: int(lineNumber)})
	if err != nil {
		return coveragerr.New(coveragerr.BreakpointInstallFailed, "install breakpoint at "+file, err)
	}
	m.byAddr[addr] = &record{id: bp.ID, addr: addr, line: line}
	return nil
}

// Service looks up the breakpoint record for addr. If found, it marks the
// associated Line executed and returns true ("ours"). If no record
// exists for addr, the hit belongs to some other mechanism (an
// unrecovered-panic/fatal-throw breakpoint Delve installed itself, for
// instance) and Service returns false so the caller routes it to the
// exception handler instead.
func (m *Manager) Service(addr uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.byAddr[addr]
	if !ok {
		return false
	}
	rec.line.MarkExecuted()
	return true
}

// Installed reports how many breakpoints are currently tracked.
func (m *Manager) Installed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byAddr)
}

// RemoveAll clears every tracked breakpoint. On target exit the
// breakpoints are implicitly invalid and no page restore is attempted;
// RemoveAll is for the (optional) case of tearing down a still-live
// target, e.g. after external cancellation.
func (m *Manager) RemoveAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for addr, rec := range m.byAddr {
		_, _ = m.client.ClearBreakpoint(rec.id) // best effort; target may already be gone
		delete(m.byAddr, addr)
	}
}
