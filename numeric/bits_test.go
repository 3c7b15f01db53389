package numeric

import (
	"math"
	"testing"
)

func TestBitReinterpretation(t *testing.T) {
	tests := []float32{0, 1.5, -2.25, float32(math.Inf(-1)), math.MaxFloat32}
	for _, f := range tests {
		if got := F32FromBits(F32Bits(f)); got != f {
			t.Errorf("f32 round trip %v = %v", f, got)
		}
	}
	doubles := []float64{0, 1e300, -3.5, math.SmallestNonzeroFloat64}
	for _, d := range doubles {
		if got := F64FromBits(F64Bits(d)); got != d {
			t.Errorf("f64 round trip %v = %v", d, got)
		}
	}
	if F32Bits(1.0) != 0x3f800000 {
		t.Errorf("F32Bits(1.0) = %#x", F32Bits(1.0))
	}
}

func TestWidthChanges(t *testing.T) {
	if got := I64FromI32(-1); got != 0xFFFFFFFF {
		t.Errorf("I64FromI32(-1) = %#x, want zero extension", got)
	}
	if got := I32FromI64(0x1_0000_0005); got != 5 {
		t.Errorf("I32FromI64 = %d, want 5", got)
	}
	if got := I32FromI64(I64FromI32(-7)); got != -7 {
		t.Errorf("i32 -> i64 -> i32 = %d, want -7", got)
	}
}

func TestCanonicalNaN(t *testing.T) {
	odd := math.Float32frombits(0x7fc00001)
	if math.Float32bits(CanonF32(odd)) != CanonicalNaN32 {
		t.Error("CanonF32 did not canonicalize NaN")
	}
	oddD := math.Float64frombits(0x7ff8000000000001)
	if math.Float64bits(CanonF64(oddD)) != CanonicalNaN64 {
		t.Error("CanonF64 did not canonicalize NaN")
	}
	if CanonF64(2.5) != 2.5 {
		t.Error("CanonF64 changed a number")
	}
}

func TestCanonicalizeBits(t *testing.T) {
	tests32 := []struct{ in, want uint32 }{
		{0x7f800000, 0x7f800000}, // +Inf
		{0xff800000, 0xff800000}, // -Inf
		{0x7f800001, CanonicalNaN32},
		{0xffc00000, CanonicalNaN32},
		{0x3f800000, 0x3f800000},
	}
	for _, tt := range tests32 {
		if got := CanonicalizeF32(tt.in); got != tt.want {
			t.Errorf("CanonicalizeF32(%#x) = %#x, want %#x", tt.in, got, tt.want)
		}
	}

	tests64 := []struct{ in, want uint64 }{
		{0x7ff0000000000000, 0x7ff0000000000000},
		{0x7ff0000000000001, CanonicalNaN64},
		{0xfff8000000000000, CanonicalNaN64},
		{0x4004000000000000, 0x4004000000000000},
	}
	for _, tt := range tests64 {
		if got := CanonicalizeF64(tt.in); got != tt.want {
			t.Errorf("CanonicalizeF64(%#x) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}
