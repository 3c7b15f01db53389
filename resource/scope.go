package resource

import (
	"go.uber.org/multierr"

	"github.com/wippyai/canon-abi/errors"
)

type pendingBorrow struct {
	table  *Table
	handle Handle
}

// CallContext tracks nested call scopes and the borrows lent in each.
type CallContext struct {
	frames [][]pendingBorrow
	scope  uint32
}

// NewCallContext creates a call context with no open scope.
func NewCallContext() *CallContext {
	return &CallContext{}
}

// Scope returns the id of the innermost open scope, 0 when none is open.
func (c *CallContext) Scope() uint32 {
	return c.scope
}

// Depth returns the number of open scopes.
func (c *CallContext) Depth() int {
	return len(c.frames)
}

// Enter opens a new scope and returns its id.
func (c *CallContext) Enter() uint32 {
	c.scope++
	c.frames = append(c.frames, nil)
	return c.scope
}

// Exit closes the innermost scope. Every borrow created in it must already
// be dropped; each one still present is reported.
func (c *CallContext) Exit() error {
	if len(c.frames) == 0 {
		return errors.InvalidInput(errors.PhaseResource, "exit without a matching enter")
	}
	top := len(c.frames) - 1
	pending := c.frames[top]
	c.frames = c.frames[:top]
	scope := c.scope
	c.scope--

	var err error
	for _, p := range pending {
		err = multierr.Append(err, p.table.EnsureBorrowDropped(p.handle, scope))
	}
	return err
}

// Unwind closes scopes until Depth equals depth. Borrows still present in
// the closed scopes are removed without being reported.
func (c *CallContext) Unwind(depth int) {
	if depth < 0 {
		depth = 0
	}
	for len(c.frames) > depth {
		top := len(c.frames) - 1
		for _, p := range c.frames[top] {
			if p.table.EnsureBorrowDropped(p.handle, c.scope) != nil {
				_, _ = p.table.Remove(p.handle)
			}
		}
		c.frames = c.frames[:top]
		c.scope--
	}
}

func (c *CallContext) track(t *Table, h Handle) {
	if len(c.frames) == 0 {
		return
	}
	top := len(c.frames) - 1
	c.frames[top] = append(c.frames[top], pendingBorrow{table: t, handle: h})
}
