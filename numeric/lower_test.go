package numeric

import (
	"math"
	"testing"

	"github.com/wippyai/canon-abi/errors"
)

func TestToU8(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  uint8
	}{
		{"uint8", uint8(200), 200},
		{"int wraps", 256, 0},
		{"int 257", 257, 1},
		{"negative", -1, 255},
		{"int8 min", int8(-128), 128},
		{"float truncates", 3.9, 3},
		{"negative float", -1.5, 255},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
		{"uint64 max", uint64(math.MaxUint64), 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToU8(tt.input)
			if err != nil {
				t.Fatalf("ToU8(%v) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ToU8(%v) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestToSigned(t *testing.T) {
	tests := []struct {
		name  string
		input any
		s8    int8
		s16   int16
		s32   int32
		s64   int64
	}{
		{"zero", 0, 0, 0, 0, 0},
		{"128", 128, -128, 128, 128, 128},
		{"65535", 65535, -1, -1, 65535, 65535},
		{"uint32 max", uint32(math.MaxUint32), -1, -1, -1, math.MaxUint32},
		{"uint64 max", uint64(math.MaxUint64), -1, -1, -1, -1},
		{"minus one", -1, -1, -1, -1, -1},
		{"int64 min", int64(math.MinInt64), 0, 0, 0, math.MinInt64},
		{"float 2^63", 9223372036854775808.0, 0, 0, 0, math.MinInt64},
		{"float -2^64", -18446744073709551616.0, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s8, _ := ToS8(tt.input)
			s16, _ := ToS16(tt.input)
			s32, _ := ToS32(tt.input)
			s64, _ := ToS64(tt.input)
			if s8 != tt.s8 {
				t.Errorf("ToS8 = %d, want %d", s8, tt.s8)
			}
			if s16 != tt.s16 {
				t.Errorf("ToS16 = %d, want %d", s16, tt.s16)
			}
			if s32 != tt.s32 {
				t.Errorf("ToS32 = %d, want %d", s32, tt.s32)
			}
			if s64 != tt.s64 {
				t.Errorf("ToS64 = %d, want %d", s64, tt.s64)
			}
		})
	}
}

func TestToUnsignedWide(t *testing.T) {
	u16, _ := ToU16(-2)
	if u16 != 0xFFFE {
		t.Errorf("ToU16(-2) = %#x, want 0xfffe", u16)
	}
	u32, _ := ToU32(int64(1) << 32)
	if u32 != 0 {
		t.Errorf("ToU32(1<<32) = %d, want 0", u32)
	}
	u64, _ := ToU64(-1)
	if u64 != math.MaxUint64 {
		t.Errorf("ToU64(-1) = %d, want max", u64)
	}
	u64, _ = ToU64(1e19)
	if u64 != 10000000000000000000 {
		t.Errorf("ToU64(1e19) = %d", u64)
	}
}

func TestToInteger_TypeMismatch(t *testing.T) {
	inputs := []any{"12", nil, true, []byte{1}}
	for _, in := range inputs {
		if _, err := ToU32(in); !errors.IsKind(err, errors.KindTypeMismatch) {
			t.Errorf("ToU32(%v) error = %v, want type mismatch", in, err)
		}
	}
}

func TestToChar(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    rune
		wantErr bool
	}{
		{"ascii", 'a', 'a', false},
		{"emoji", rune(0x1F600), 0x1F600, false},
		{"string of one", "é", 'é', false},
		{"surrogate", 0xD800, 0, true},
		{"too large", 0x110000, 0, true},
		{"negative", -1, 0, true},
		{"two runes", "ab", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToChar(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ToChar(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ToChar(%v) = %U, want %U", tt.input, got, tt.want)
			}
		})
	}
}

func TestToFloat(t *testing.T) {
	f, err := ToF32(3)
	if err != nil || f != 3 {
		t.Errorf("ToF32(3) = %v, %v", f, err)
	}
	d, err := ToF64(int8(-4))
	if err != nil || d != -4 {
		t.Errorf("ToF64(-4) = %v, %v", d, err)
	}
	if _, err := ToF64("x"); err == nil {
		t.Error("ToF64(string) should fail")
	}
}
