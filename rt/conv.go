package rt

import (
	"github.com/wippyai/canon-abi/errors"
	"github.com/wippyai/canon-abi/numeric"
)

// i32 reads a core i32 operand.
func i32(phase errors.Phase, v any) (int32, error) {
	switch v := v.(type) {
	case int32:
		return v, nil
	case uint32:
		return int32(v), nil
	case int:
		return int32(v), nil
	}
	return 0, errors.TypeMismatch(phase, nil, numeric.TypeName(v), "i32")
}

func i64(phase errors.Phase, v any) (int64, error) {
	switch v := v.(type) {
	case int64:
		return v, nil
	case uint64:
		return int64(v), nil
	}
	return 0, errors.TypeMismatch(phase, nil, numeric.TypeName(v), "i64")
}

func f32(phase errors.Phase, v any) (float32, error) {
	if f, ok := v.(float32); ok {
		return f, nil
	}
	return 0, errors.TypeMismatch(phase, nil, numeric.TypeName(v), "f32")
}

func f64(phase errors.Phase, v any) (float64, error) {
	if f, ok := v.(float64); ok {
		return f, nil
	}
	return 0, errors.TypeMismatch(phase, nil, numeric.TypeName(v), "f64")
}

// u32 reads an i32 operand holding an address or length.
func u32(phase errors.Phase, v any) (uint32, error) {
	n, err := i32(phase, v)
	return uint32(n), err
}

// addr computes base+off, failing on 32-bit overflow.
func addr(phase errors.Phase, base any, off uint32) (uint32, error) {
	b, err := u32(phase, base)
	if err != nil {
		return 0, err
	}
	return numeric.Offset(phase, b, off)
}
