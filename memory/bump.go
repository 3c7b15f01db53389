package memory

import (
	canonabi "github.com/wippyai/canon-abi"
	"github.com/wippyai/canon-abi/errors"
	"github.com/wippyai/canon-abi/layout"
	"github.com/wippyai/canon-abi/numeric"
)

// Grower is memory that can be extended.
type Grower interface {
	Grow(delta uint32) bool
}

// BumpAllocator hands out aligned, never-reused regions of a memory. Free
// is a no-op.
type BumpAllocator struct {
	mem  canonabi.MemorySizer
	next uint32
}

// NewBumpAllocator allocates from mem starting at start. If mem implements
// Grower it is extended on demand.
func NewBumpAllocator(mem canonabi.MemorySizer, start uint32) *BumpAllocator {
	return &BumpAllocator{mem: mem, next: start}
}

// Next returns the address the next allocation of alignment 1 would get.
func (a *BumpAllocator) Next() uint32 {
	return a.next
}

func (a *BumpAllocator) Alloc(size, align uint32) (uint32, error) {
	if align == 0 || align&(align-1) != 0 {
		return 0, errors.New(errors.PhaseLower, errors.KindAllocation).
			Detail("alignment %d is not a power of two", align).
			Build()
	}
	ptr := layout.Align(a.next, align)
	if ptr < a.next {
		return 0, errors.AllocationFailed(errors.PhaseLower, size, align)
	}
	end, err := numeric.Offset(errors.PhaseLower, ptr, size)
	if err != nil {
		return 0, errors.AllocationFailed(errors.PhaseLower, size, align)
	}
	if have := a.mem.Size(); end > have {
		g, ok := a.mem.(Grower)
		if !ok || !g.Grow(end-have) {
			return 0, errors.AllocationFailed(errors.PhaseLower, size, align)
		}
	}
	a.next = end
	return ptr, nil
}

func (a *BumpAllocator) Free(ptr, size, align uint32) {}
