package numeric

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/wippyai/canon-abi/errors"
)

const two64 = 18446744073709551616.0

// Bits64 reduces any Go integer or float to its low 64 bits in two's
// complement. Floats truncate toward zero. NaN and infinities become 0.
func Bits64(value any) (uint64, bool) {
	switch v := value.(type) {
	case int:
		return uint64(v), true
	case int8:
		return uint64(v), true
	case int16:
		return uint64(v), true
	case int32:
		return uint64(v), true
	case int64:
		return uint64(v), true
	case uint:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint64:
		return v, true
	case uintptr:
		return uint64(v), true
	case float32:
		return floatBits(float64(v)), true
	case float64:
		return floatBits(v), true
	}
	return 0, false
}

func floatBits(f float64) uint64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	t := math.Trunc(f)
	if t >= -two64/2 && t < two64/2 {
		return uint64(int64(t))
	}
	t = math.Mod(t, two64)
	if t < 0 {
		t += two64
	}
	if t >= two64/2 {
		return uint64(t-two64/2) | 1<<63
	}
	return uint64(t)
}

func bits(value any, wit string) (uint64, error) {
	b, ok := Bits64(value)
	if !ok {
		return 0, errors.TypeMismatch(errors.PhaseLower, nil, TypeName(value), wit)
	}
	return b, nil
}

// ToU8 lowers value to u8 with wraparound.
func ToU8(value any) (uint8, error) {
	b, err := bits(value, "u8")
	return uint8(b), err
}

// ToS8 lowers value to s8 with wraparound.
func ToS8(value any) (int8, error) {
	b, err := bits(value, "s8")
	return int8(b), err
}

// ToU16 lowers value to u16 with wraparound.
func ToU16(value any) (uint16, error) {
	b, err := bits(value, "u16")
	return uint16(b), err
}

// ToS16 lowers value to s16 with wraparound.
func ToS16(value any) (int16, error) {
	b, err := bits(value, "s16")
	return int16(b), err
}

// ToU32 lowers value to u32 with wraparound.
func ToU32(value any) (uint32, error) {
	b, err := bits(value, "u32")
	return uint32(b), err
}

// ToS32 lowers value to s32 with wraparound.
func ToS32(value any) (int32, error) {
	b, err := bits(value, "s32")
	return int32(b), err
}

// ToU64 lowers value to u64 with wraparound.
func ToU64(value any) (uint64, error) {
	return bits(value, "u64")
}

// ToS64 lowers value to s64 with wraparound.
func ToS64(value any) (int64, error) {
	b, err := bits(value, "s64")
	return int64(b), err
}

// ToF32 accepts any Go number and converts it to float32.
func ToF32(value any) (float32, error) {
	switch v := value.(type) {
	case float32:
		return v, nil
	case float64:
		return float32(v), nil
	}
	if b, ok := Bits64(value); ok {
		if isSigned(value) {
			return float32(int64(b)), nil
		}
		return float32(b), nil
	}
	return 0, errors.TypeMismatch(errors.PhaseLower, nil, TypeName(value), "f32")
}

// ToF64 accepts any Go number and converts it to float64.
func ToF64(value any) (float64, error) {
	switch v := value.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	}
	if b, ok := Bits64(value); ok {
		if isSigned(value) {
			return float64(int64(b)), nil
		}
		return float64(b), nil
	}
	return 0, errors.TypeMismatch(errors.PhaseLower, nil, TypeName(value), "f64")
}

func isSigned(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64:
		return true
	}
	return false
}

// ToBool lowers a Go bool.
func ToBool(value any) (bool, error) {
	b, ok := value.(bool)
	if !ok {
		return false, errors.TypeMismatch(errors.PhaseLower, nil, TypeName(value), "bool")
	}
	return b, nil
}

// ToChar lowers a rune (or any integer holding a code point) and validates it.
func ToChar(value any) (rune, error) {
	b, ok := Bits64(value)
	if !ok {
		if s, isStr := value.(string); isStr {
			r := []rune(s)
			if len(r) == 1 {
				b, ok = uint64(r[0]), true
			}
		}
	}
	if !ok {
		return 0, errors.TypeMismatch(errors.PhaseLower, nil, TypeName(value), "char")
	}
	if b > math.MaxInt32 || !utf8.ValidRune(rune(b)) {
		return 0, errors.InvalidChar(errors.PhaseLower, uint32(b))
	}
	return rune(b), nil
}

// TypeName names the Go type of a host value in type mismatch errors.
func TypeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
