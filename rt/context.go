package rt

import (
	"context"

	canonabi "github.com/wippyai/canon-abi"
	"github.com/wippyai/canon-abi/errors"
	"github.com/wippyai/canon-abi/numeric"
	"github.com/wippyai/canon-abi/resource"
)

// CoreFunc is a core wasm function reached through CallWasm. Arguments and
// results are core values.
type CoreFunc func(ctx context.Context, args []any) ([]any, error)

// HostFunc implements a component function reached through CallHost.
// Arguments and results are host values.
type HostFunc func(ctx context.Context, args []any) ([]any, error)

// Context carries everything marshalling code touches at runtime.
type Context struct {
	Ctx       context.Context
	Memory    canonabi.Memory
	Allocator canonabi.Allocator
	Resources *resource.Store
	Calls     *resource.CallContext
	Guest     map[string]CoreFunc
	Host      map[string]HostFunc

	frames int
	allocs []allocation
}

type allocation struct {
	ptr, size, align uint32
}

// NewContext creates a context with an empty resource store, a fresh call
// context and empty function maps.
func NewContext(ctx context.Context, mem canonabi.Memory, alloc canonabi.Allocator) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{
		Ctx:       ctx,
		Memory:    mem,
		Allocator: alloc,
		Resources: resource.NewStore(),
		Calls:     resource.NewCallContext(),
		Guest:     make(map[string]CoreFunc),
		Host:      make(map[string]HostFunc),
	}
}

func (cx *Context) memory(phase errors.Phase) (canonabi.Memory, error) {
	if cx.Memory == nil {
		return nil, errors.InvalidInput(phase, "no linear memory configured")
	}
	return cx.Memory, nil
}

func (cx *Context) alloc(phase errors.Phase, size, align uint32) (uint32, error) {
	if cx.Allocator == nil {
		return 0, errors.InvalidInput(phase, "no allocator configured")
	}
	if size > numeric.MaxAlloc {
		return 0, errors.AllocationFailed(phase, size, align)
	}
	// allocator errors pass through unchanged
	ptr, err := cx.Allocator.Alloc(size, align)
	if err != nil {
		return 0, err
	}
	if cx.frames > 0 {
		cx.allocs = append(cx.allocs, allocation{ptr: ptr, size: size, align: align})
	}
	return ptr, nil
}
