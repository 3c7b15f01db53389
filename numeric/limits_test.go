package numeric

import (
	"math"
	"testing"

	"github.com/wippyai/canon-abi/errors"
)

func TestAllocSize(t *testing.T) {
	tests := []struct {
		name        string
		count, size uint32
		want        uint32
		wantErr     bool
	}{
		{"empty", 0, math.MaxUint32, 0, false},
		{"small", 100, 200, 20000, false},
		{"at limit", MaxAlloc / 8, 8, MaxAlloc, false},
		{"past limit", MaxAlloc/8 + 1, 8, 0, true},
		{"wraps", 65536, 65537, 0, true},
		{"max times two", math.MaxUint32, 2, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AllocSize(errors.PhaseLower, tt.count, tt.size)
			if tt.wantErr {
				if !errors.IsKind(err, errors.KindAllocation) {
					t.Fatalf("AllocSize(%d, %d) err = %v, want allocation failure", tt.count, tt.size, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("AllocSize(%d, %d) = %d, %v, want %d", tt.count, tt.size, got, err, tt.want)
			}
		})
	}

	if _, err := ByteLen(errors.PhaseLift, math.MaxUint32, 4); !errors.IsKind(err, errors.KindOverflow) {
		t.Errorf("ByteLen err = %v, want overflow", err)
	}
}

func TestOffsetAndStride(t *testing.T) {
	if a, err := Offset(errors.PhaseLift, 3, 4); err != nil || a != 7 {
		t.Errorf("Offset(3, 4) = %d, %v", a, err)
	}
	if _, err := Offset(errors.PhaseLift, math.MaxUint32, 1); !errors.IsKind(err, errors.KindOutOfBounds) {
		t.Errorf("Offset overflow err = %v", err)
	}
	if off, err := Stride(errors.PhaseLower, 65536, 65535); err != nil || off != 65536*65535 {
		t.Errorf("Stride = %d, %v", off, err)
	}
	if _, err := Stride(errors.PhaseLower, 65536, 65536); !errors.IsKind(err, errors.KindOutOfBounds) {
		t.Errorf("Stride overflow err = %v", err)
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "nil"},
		{uint32(1), "uint32"},
		{[]string{}, "[]string"},
	}
	for _, tt := range tests {
		if got := TypeName(tt.in); got != tt.want {
			t.Errorf("TypeName(%#v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
