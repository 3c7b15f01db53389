package numeric

import (
	"math"

	"github.com/wippyai/canon-abi/errors"
)

// Limits on guest data, checked before anything is allocated or copied.
const (
	MaxListLength = 1 << 27
	MaxAlloc      = 1 << 30
)

// AllocSize returns the byte size of count elements of size bytes. Sizes
// that wrap or pass MaxAlloc fail with KindAllocation.
func AllocSize(phase errors.Phase, count, size uint32) (uint32, error) {
	n, ok := span(count, size)
	if !ok {
		return 0, errors.New(phase, errors.KindAllocation).
			Detail("allocation of %d x %d bytes exceeds %d", count, size, MaxAlloc).
			Build()
	}
	return n, nil
}

// ByteLen is AllocSize for data already in guest memory. It fails with
// KindOverflow.
func ByteLen(phase errors.Phase, count, size uint32) (uint32, error) {
	n, ok := span(count, size)
	if !ok {
		return 0, errors.New(phase, errors.KindOverflow).
			Detail("data size %d x %d exceeds %d", count, size, MaxAlloc).
			Build()
	}
	return n, nil
}

// Offset returns base+off as a guest address.
func Offset(phase errors.Phase, base, off uint32) (uint32, error) {
	a := uint64(base) + uint64(off)
	if a > math.MaxUint32 {
		return 0, errors.New(phase, errors.KindOutOfBounds).
			Detail("address %d+%d overflows", base, off).
			Build()
	}
	return uint32(a), nil
}

// Stride returns the offset of element i in an array of size-byte elements.
func Stride(phase errors.Phase, i, size uint32) (uint32, error) {
	off := uint64(i) * uint64(size)
	if off > math.MaxUint32 {
		return 0, errors.New(phase, errors.KindOutOfBounds).
			Detail("element %d of size %d overflows", i, size).
			Build()
	}
	return uint32(off), nil
}

func span(count, size uint32) (uint32, bool) {
	n := uint64(count) * uint64(size)
	return uint32(n), n <= MaxAlloc
}
