package numeric

import "math"

// F32FromBits reinterprets the bits of a core i32 as f32.
func F32FromBits(v int32) float32 {
	return math.Float32frombits(uint32(v))
}

// F32Bits reinterprets an f32 as a core i32.
func F32Bits(f float32) int32 {
	return int32(math.Float32bits(f))
}

// F64FromBits reinterprets the bits of a core i64 as f64.
func F64FromBits(v int64) float64 {
	return math.Float64frombits(uint64(v))
}

// F64Bits reinterprets an f64 as a core i64.
func F64Bits(f float64) int64 {
	return int64(math.Float64bits(f))
}

// I64FromI32 zero-extends.
func I64FromI32(v int32) int64 {
	return int64(uint32(v))
}

// I32FromI64 keeps the low 32 bits.
func I32FromI64(v int64) int32 {
	return int32(v)
}

// Canonical NaN bit patterns. Floats crossing the boundary carry no NaN
// payload.
const (
	CanonicalNaN32 = 0x7fc00000
	CanonicalNaN64 = 0x7ff8000000000000
)

// CanonicalizeF32 maps every f32 NaN encoding to CanonicalNaN32.
func CanonicalizeF32(b uint32) uint32 {
	if b&0x7f800000 == 0x7f800000 && b&0x007fffff != 0 {
		return CanonicalNaN32
	}
	return b
}

// CanonicalizeF64 maps every f64 NaN encoding to CanonicalNaN64.
func CanonicalizeF64(b uint64) uint64 {
	if b&0x7ff0000000000000 == 0x7ff0000000000000 && b&0x000fffffffffffff != 0 {
		return CanonicalNaN64
	}
	return b
}

// CanonF32 returns f with any NaN replaced by the canonical NaN.
func CanonF32(f float32) float32 {
	return math.Float32frombits(CanonicalizeF32(math.Float32bits(f)))
}

// CanonF64 returns f with any NaN replaced by the canonical NaN.
func CanonF64(f float64) float64 {
	return math.Float64frombits(CanonicalizeF64(math.Float64bits(f)))
}
