package numeric

import (
	"math"
	"unicode/utf8"

	"github.com/wippyai/canon-abi/errors"
)

func rangeErr(v int32, wit string) error {
	return errors.New(errors.PhaseLift, errors.KindWireFormat).
		WitType(wit).
		Value(v).
		Detail("value %d out of range", v).
		Build()
}

// LiftU8 checks that a core i32 holds a u8.
func LiftU8(v int32) (uint8, error) {
	if v < 0 || v > math.MaxUint8 {
		return 0, rangeErr(v, "u8")
	}
	return uint8(v), nil
}

// LiftS8 checks that a core i32 holds an s8.
func LiftS8(v int32) (int8, error) {
	if v < math.MinInt8 || v > math.MaxInt8 {
		return 0, rangeErr(v, "s8")
	}
	return int8(v), nil
}

// LiftU16 checks that a core i32 holds a u16.
func LiftU16(v int32) (uint16, error) {
	if v < 0 || v > math.MaxUint16 {
		return 0, rangeErr(v, "u16")
	}
	return uint16(v), nil
}

// LiftS16 checks that a core i32 holds an s16.
func LiftS16(v int32) (int16, error) {
	if v < math.MinInt16 || v > math.MaxInt16 {
		return 0, rangeErr(v, "s16")
	}
	return int16(v), nil
}

// LiftBool accepts only 0 and 1.
func LiftBool(v int32) (bool, error) {
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errors.InvalidBool(errors.PhaseLift, v)
}

// LiftChar checks that a core i32 is a Unicode scalar value.
func LiftChar(v int32) (rune, error) {
	if !utf8.ValidRune(v) {
		return 0, errors.InvalidChar(errors.PhaseLift, uint32(v))
	}
	return v, nil
}
