package rt

import (
	"github.com/wippyai/canon-abi/errors"
	"github.com/wippyai/canon-abi/resource"
)

// CallWasm invokes the guest core function registered under name.
func CallWasm(cx *Context, name string, args ...any) ([]any, error) {
	fn, ok := cx.Guest[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseCall, "guest function", name)
	}
	return fn(cx.Ctx, args)
}

// CallHost invokes the host implementation registered under name.
func CallHost(cx *Context, name string, args ...any) ([]any, error) {
	fn, ok := cx.Host[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseCall, "host function", name)
	}
	return fn(cx.Ctx, args)
}

// EnterCall opens the call scope borrows lowered into the callee belong to.
func EnterCall(cx *Context) error {
	if cx.Calls == nil {
		cx.Calls = resource.NewCallContext()
	}
	cx.Calls.Enter()
	return nil
}

// ExitCall closes the call scope. Borrows the callee did not drop are
// reported as handle violations.
func ExitCall(cx *Context) error {
	if cx.Calls == nil {
		return errors.InvalidInput(errors.PhaseCall, "exit without a matching enter")
	}
	return cx.Calls.Exit()
}

// CallDepth returns the number of open call scopes.
func CallDepth(cx *Context) int {
	if cx.Calls == nil {
		return 0
	}
	return cx.Calls.Depth()
}

// Frame marks the state a binding invocation starts from.
type Frame struct {
	depth  int
	allocs int
}

// Begin opens a frame. Guest allocations made until the matching End are
// recorded.
func Begin(cx *Context) Frame {
	cx.frames++
	return Frame{depth: CallDepth(cx), allocs: len(cx.allocs)}
}

// End closes f. When *err is set, call scopes opened since Begin are
// unwound and the recorded allocations are released through
// Allocator.Free, newest first. On success they belong to the guest and
// are forgotten.
func End(cx *Context, f Frame, err *error) {
	if *err != nil {
		if cx.Calls != nil {
			cx.Calls.Unwind(f.depth)
		}
		for i := len(cx.allocs) - 1; i >= f.allocs; i-- {
			a := cx.allocs[i]
			cx.Allocator.Free(a.ptr, a.size, a.align)
		}
	}
	if f.allocs < len(cx.allocs) {
		cx.allocs = cx.allocs[:f.allocs]
	}
	if cx.frames > 0 {
		cx.frames--
	}
}
