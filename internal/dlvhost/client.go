// RPC client for headless Delve, adapted from the teacher's
// internal/delvehelper/client.go: the same per-call debug logging wrapper
// around rpc2.RPCClient, but logging through an injected logging.Sink
// instead of a package-level file handle keyed off an environment
// variable — spec §9 asks for the logging collaborator to be passed in
// explicitly, not a hidden singleton.
package dlvhost

import (
	"fmt"

	"github.com/go-delve/delve/service/api"
	"github.com/go-delve/delve/service/rpc2"

	"github.com/glthr/covrun/internal/logging"
)

// Client wraps rpc2.RPCClient with debug logging of every call relevant
// to the coverage runner.
type Client struct {
	*rpc2.RPCClient
	log logging.Sink
}

// NewClient dials addr (as returned by a dlvhost.Session) and wraps the
// resulting RPC client with logging.
func NewClient(addr string, log logging.Sink) *Client {
	return &Client{RPCClient: rpc2.NewClient(addr), log: log}
}

func summarizeState(state *api.DebuggerState) string {
	if state == nil {
		return "nil"
	}
	if state.Exited {
		return fmt.Sprintf("exited status=%d", state.ExitStatus)
	}
	if state.Running {
		return "running"
	}
	return "stopped"
}

func (c *Client) GetState() (*api.DebuggerState, error) {
	state, err := c.RPCClient.GetState()
	c.log.Info("GetState", "state", summarizeState(state), "err", err)
	return state, err
}

// FindLocation resolves locspec to zero or more Locations. With
// findInstructions=true it returns one Location per instruction boundary
// within the matched function(s) — the mechanism internal/symbols uses to
// enumerate every (file, line, pc) triple a function contributes.
func (c *Client) FindLocation(scope api.EvalScope, locspec string, findInstructions bool, rules [][2]string) ([]api.Location, string, error) {
	locs, s, err := c.RPCClient.FindLocation(scope, locspec, findInstructions, rules)
	c.log.Info("FindLocation", "locspec", locspec, "findInstructions", findInstructions, "count", len(locs), "err", err)
	return locs, s, err
}

func (c *Client) ListFunctions(filter string) ([]string, error) {
	fns, err := c.RPCClient.ListFunctions(filter)
	c.log.Info("ListFunctions", "filter", filter, "count", len(fns), "err", err)
	return fns, err
}

// ListDynamicLibraries reports the dynamically-loaded shared libraries
// visible to the target right now. It never includes the main
// executable image: rpc2.RPCClient.ListDynamicLibraries() (and the
// debugger.Images it wraps) skips Images[0], the binary itself — the
// main module has to be resolved from the launch's StartInfo.Path
// instead, not from this list.
func (c *Client) ListDynamicLibraries() ([]api.Image, error) {
	images, err := c.RPCClient.ListDynamicLibraries()
	c.log.Info("ListDynamicLibraries", "count", len(images), "err", err)
	return images, err
}

func (c *Client) CreateBreakpoint(bp *api.Breakpoint) (*api.Breakpoint, error) {
	created, err := c.RPCClient.CreateBreakpoint(bp)
	if created != nil {
		c.log.Info("CreateBreakpoint", "id", created.ID, "file", created.File, "line", created.Line, "addr", created.Addr, "err", err)
	} else {
		c.log.Warn("CreateBreakpoint failed", "file", bp.File, "line", bp.Line, "addr", bp.Addr, "err", err)
	}
	return created, err
}

func (c *Client) ClearBreakpoint(id int) (*api.Breakpoint, error) {
	bp, err := c.RPCClient.ClearBreakpoint(id)
	c.log.Info("ClearBreakpoint", "id", id, "err", err)
	return bp, err
}

// Continue resumes the target and returns the resulting state, unwrapping
// the channel the underlying RPC client returns (as the teacher's
// Continue() adapter does), plus a debug log of the outcome.
func (c *Client) Continue() *api.DebuggerState {
	ch := c.RPCClient.Continue()
	state := <-ch
	c.log.Info("Continue", "state", summarizeState(state))
	return state
}

func (c *Client) Disconnect(cont bool) error {
	err := c.RPCClient.Disconnect(cont)
	c.log.Info("Disconnect", "cont", cont, "err", err)
	return err
}
