package rt

import (
	"github.com/wippyai/canon-abi/errors"
	"github.com/wippyai/canon-abi/numeric"
)

// Host to core

func I32FromBool(cx *Context, v any) (any, error) {
	b, err := numeric.ToBool(v)
	if err != nil || !b {
		return int32(0), err
	}
	return int32(1), nil
}

func I32FromU8(cx *Context, v any) (any, error) {
	n, err := numeric.ToU8(v)
	return int32(n), err
}

func I32FromS8(cx *Context, v any) (any, error) {
	n, err := numeric.ToS8(v)
	return int32(n), err
}

func I32FromU16(cx *Context, v any) (any, error) {
	n, err := numeric.ToU16(v)
	return int32(n), err
}

func I32FromS16(cx *Context, v any) (any, error) {
	n, err := numeric.ToS16(v)
	return int32(n), err
}

func I32FromU32(cx *Context, v any) (any, error) {
	n, err := numeric.ToU32(v)
	return int32(n), err
}

func I32FromS32(cx *Context, v any) (any, error) {
	n, err := numeric.ToS32(v)
	return n, err
}

func I32FromChar(cx *Context, v any) (any, error) {
	r, err := numeric.ToChar(v)
	return int32(r), err
}

// I32FromCharTrusted lowers a rune without validating the code point.
func I32FromCharTrusted(cx *Context, v any) (any, error) {
	if r, ok := v.(rune); ok {
		return r, nil
	}
	return I32FromChar(cx, v)
}

func I64FromU64(cx *Context, v any) (any, error) {
	n, err := numeric.ToU64(v)
	return int64(n), err
}

func I64FromS64(cx *Context, v any) (any, error) {
	n, err := numeric.ToS64(v)
	return n, err
}

// CoreF32FromF32 lowers an f32, canonicalizing NaN.
func CoreF32FromF32(cx *Context, v any) (any, error) {
	f, err := numeric.ToF32(v)
	return numeric.CanonF32(f), err
}

func CoreF64FromF64(cx *Context, v any) (any, error) {
	f, err := numeric.ToF64(v)
	return numeric.CanonF64(f), err
}

// Core to host

func BoolFromI32(cx *Context, v any) (any, error) {
	n, err := i32(errors.PhaseLift, v)
	if err != nil {
		return nil, err
	}
	return numeric.LiftBool(n)
}

func BoolFromI32Trusted(cx *Context, v any) (any, error) {
	n, err := i32(errors.PhaseLift, v)
	return n != 0, err
}

func U8FromI32(cx *Context, v any) (any, error) {
	n, err := i32(errors.PhaseLift, v)
	if err != nil {
		return nil, err
	}
	return numeric.LiftU8(n)
}

func U8FromI32Trusted(cx *Context, v any) (any, error) {
	n, err := i32(errors.PhaseLift, v)
	return uint8(n), err
}

func S8FromI32(cx *Context, v any) (any, error) {
	n, err := i32(errors.PhaseLift, v)
	if err != nil {
		return nil, err
	}
	return numeric.LiftS8(n)
}

func S8FromI32Trusted(cx *Context, v any) (any, error) {
	n, err := i32(errors.PhaseLift, v)
	return int8(n), err
}

func U16FromI32(cx *Context, v any) (any, error) {
	n, err := i32(errors.PhaseLift, v)
	if err != nil {
		return nil, err
	}
	return numeric.LiftU16(n)
}

func U16FromI32Trusted(cx *Context, v any) (any, error) {
	n, err := i32(errors.PhaseLift, v)
	return uint16(n), err
}

func S16FromI32(cx *Context, v any) (any, error) {
	n, err := i32(errors.PhaseLift, v)
	if err != nil {
		return nil, err
	}
	return numeric.LiftS16(n)
}

func S16FromI32Trusted(cx *Context, v any) (any, error) {
	n, err := i32(errors.PhaseLift, v)
	return int16(n), err
}

func U32FromI32(cx *Context, v any) (any, error) {
	n, err := i32(errors.PhaseLift, v)
	return uint32(n), err
}

func S32FromI32(cx *Context, v any) (any, error) {
	n, err := i32(errors.PhaseLift, v)
	return n, err
}

func CharFromI32(cx *Context, v any) (any, error) {
	n, err := i32(errors.PhaseLift, v)
	if err != nil {
		return nil, err
	}
	return numeric.LiftChar(n)
}

func CharFromI32Trusted(cx *Context, v any) (any, error) {
	n, err := i32(errors.PhaseLift, v)
	return rune(n), err
}

func U64FromI64(cx *Context, v any) (any, error) {
	n, err := i64(errors.PhaseLift, v)
	return uint64(n), err
}

func S64FromI64(cx *Context, v any) (any, error) {
	n, err := i64(errors.PhaseLift, v)
	return n, err
}

func F32FromCoreF32(cx *Context, v any) (any, error) {
	f, err := f32(errors.PhaseLift, v)
	return numeric.CanonF32(f), err
}

func F64FromCoreF64(cx *Context, v any) (any, error) {
	f, err := f64(errors.PhaseLift, v)
	return numeric.CanonF64(f), err
}

// Bitcasts

func I32ToF32(cx *Context, v any) (any, error) {
	n, err := i32(errors.PhaseGenerate, v)
	return numeric.F32FromBits(n), err
}

func F32ToI32(cx *Context, v any) (any, error) {
	f, err := f32(errors.PhaseGenerate, v)
	return numeric.F32Bits(f), err
}

func I64ToF64(cx *Context, v any) (any, error) {
	n, err := i64(errors.PhaseGenerate, v)
	return numeric.F64FromBits(n), err
}

func F64ToI64(cx *Context, v any) (any, error) {
	f, err := f64(errors.PhaseGenerate, v)
	return numeric.F64Bits(f), err
}

func I32ToI64(cx *Context, v any) (any, error) {
	n, err := i32(errors.PhaseGenerate, v)
	return numeric.I64FromI32(n), err
}

func I64ToI32(cx *Context, v any) (any, error) {
	n, err := i64(errors.PhaseGenerate, v)
	return numeric.I32FromI64(n), err
}
