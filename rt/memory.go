package rt

import (
	"math"

	canonabi "github.com/wippyai/canon-abi"
	"github.com/wippyai/canon-abi/errors"
	"github.com/wippyai/canon-abi/numeric"
)

func I32Load(cx *Context, base any, off uint32) (any, error) {
	mem, a, err := cx.loadAt(base, off)
	if err != nil {
		return nil, err
	}
	v, err := mem.ReadU32(a)
	return int32(v), err
}

func I32Load8U(cx *Context, base any, off uint32) (any, error) {
	mem, a, err := cx.loadAt(base, off)
	if err != nil {
		return nil, err
	}
	v, err := mem.ReadU8(a)
	return int32(v), err
}

func I32Load8S(cx *Context, base any, off uint32) (any, error) {
	mem, a, err := cx.loadAt(base, off)
	if err != nil {
		return nil, err
	}
	v, err := mem.ReadU8(a)
	return int32(int8(v)), err
}

func I32Load16U(cx *Context, base any, off uint32) (any, error) {
	mem, a, err := cx.loadAt(base, off)
	if err != nil {
		return nil, err
	}
	v, err := mem.ReadU16(a)
	return int32(v), err
}

func I32Load16S(cx *Context, base any, off uint32) (any, error) {
	mem, a, err := cx.loadAt(base, off)
	if err != nil {
		return nil, err
	}
	v, err := mem.ReadU16(a)
	return int32(int16(v)), err
}

func I64Load(cx *Context, base any, off uint32) (any, error) {
	mem, a, err := cx.loadAt(base, off)
	if err != nil {
		return nil, err
	}
	v, err := mem.ReadU64(a)
	return int64(v), err
}

func F32Load(cx *Context, base any, off uint32) (any, error) {
	mem, a, err := cx.loadAt(base, off)
	if err != nil {
		return nil, err
	}
	v, err := mem.ReadU32(a)
	return math.Float32frombits(v), err
}

func F64Load(cx *Context, base any, off uint32) (any, error) {
	mem, a, err := cx.loadAt(base, off)
	if err != nil {
		return nil, err
	}
	v, err := mem.ReadU64(a)
	return math.Float64frombits(v), err
}

// I32Store writes the low 32 bits of v at base+off.
func I32Store(cx *Context, base, v any, off uint32) error {
	n, err := i32(errors.PhaseLower, v)
	if err != nil {
		return err
	}
	return cx.storeAt(base, off, func(a uint32) error {
		return cx.Memory.WriteU32(a, uint32(n))
	})
}

func I32Store8(cx *Context, base, v any, off uint32) error {
	n, err := i32(errors.PhaseLower, v)
	if err != nil {
		return err
	}
	return cx.storeAt(base, off, func(a uint32) error {
		return cx.Memory.WriteU8(a, uint8(n))
	})
}

func I32Store16(cx *Context, base, v any, off uint32) error {
	n, err := i32(errors.PhaseLower, v)
	if err != nil {
		return err
	}
	return cx.storeAt(base, off, func(a uint32) error {
		return cx.Memory.WriteU16(a, uint16(n))
	})
}

func I64Store(cx *Context, base, v any, off uint32) error {
	n, err := i64(errors.PhaseLower, v)
	if err != nil {
		return err
	}
	return cx.storeAt(base, off, func(a uint32) error {
		return cx.Memory.WriteU64(a, uint64(n))
	})
}

func F32Store(cx *Context, base, v any, off uint32) error {
	f, err := f32(errors.PhaseLower, v)
	if err != nil {
		return err
	}
	return cx.storeAt(base, off, func(a uint32) error {
		return cx.Memory.WriteU32(a, math.Float32bits(f))
	})
}

func F64Store(cx *Context, base, v any, off uint32) error {
	f, err := f64(errors.PhaseLower, v)
	if err != nil {
		return err
	}
	return cx.storeAt(base, off, func(a uint32) error {
		return cx.Memory.WriteU64(a, math.Float64bits(f))
	})
}

// Alloc reserves n elements of size bytes at align through the guest
// allocator and returns the address as an i32. Zero elements are not
// allocated and yield address 0.
func Alloc(cx *Context, n any, size, align uint32) (any, error) {
	count, err := u32(errors.PhaseLower, n)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return int32(0), nil
	}
	total, err := numeric.AllocSize(errors.PhaseLower, count, size)
	if err != nil {
		return nil, err
	}
	ptr, err := cx.alloc(errors.PhaseLower, total, align)
	if err != nil {
		return nil, err
	}
	return int32(ptr), nil
}

// ElemAddr returns base + i*size.
func ElemAddr(cx *Context, base, i any, size uint32) (any, error) {
	idx, err := u32(errors.PhaseGenerate, i)
	if err != nil {
		return nil, err
	}
	off, err := numeric.Stride(errors.PhaseGenerate, idx, size)
	if err != nil {
		return nil, err
	}
	a, err := addr(errors.PhaseGenerate, base, off)
	if err != nil {
		return nil, err
	}
	return int32(a), nil
}

func (cx *Context) loadAt(base any, off uint32) (canonabi.Memory, uint32, error) {
	mem, err := cx.memory(errors.PhaseLift)
	if err != nil {
		return nil, 0, err
	}
	a, err := addr(errors.PhaseLift, base, off)
	if err != nil {
		return nil, 0, err
	}
	return mem, a, nil
}

func (cx *Context) storeAt(base any, off uint32, write func(uint32) error) error {
	if _, err := cx.memory(errors.PhaseLower); err != nil {
		return err
	}
	a, err := addr(errors.PhaseLower, base, off)
	if err != nil {
		return err
	}
	return write(a)
}
