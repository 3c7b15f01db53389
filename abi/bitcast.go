package abi

import "github.com/tetratelabs/wazero/api"

// Bitcast reinterprets one core value as another core type. It is either a
// Cast or a Sequence of two.
type Bitcast interface {
	String() string
	isBitcast()
}

// Cast is a single reinterpretation step.
type Cast uint8

const (
	None Cast = iota
	I32ToF32
	F32ToI32
	I64ToF64
	F64ToI64
	I32ToI64
	I64ToI32
)

var castNames = [...]string{
	None:     "none",
	I32ToF32: "i32->f32",
	F32ToI32: "f32->i32",
	I64ToF64: "i64->f64",
	F64ToI64: "f64->i64",
	I32ToI64: "i32->i64",
	I64ToI32: "i64->i32",
}

func (c Cast) String() string {
	if int(c) < len(castNames) {
		return castNames[c]
	}
	return "invalid"
}

func (Cast) isBitcast() {}

// Sequence applies its first cast, then its second.
type Sequence [2]Bitcast

func (s Sequence) String() string {
	return s[0].String() + ";" + s[1].String()
}

func (Sequence) isBitcast() {}

// CastBetween returns the bitcast turning a core value of type from into
// type to. Lowering casts from a payload's own type to the joined slot type;
// lifting casts back.
func CastBetween(from, to api.ValueType) Bitcast {
	if from == to {
		return None
	}
	switch {
	case from == api.ValueTypeI32 && to == api.ValueTypeF32:
		return I32ToF32
	case from == api.ValueTypeF32 && to == api.ValueTypeI32:
		return F32ToI32
	case from == api.ValueTypeI64 && to == api.ValueTypeF64:
		return I64ToF64
	case from == api.ValueTypeF64 && to == api.ValueTypeI64:
		return F64ToI64
	case from == api.ValueTypeI32 && to == api.ValueTypeI64:
		return I32ToI64
	case from == api.ValueTypeI64 && to == api.ValueTypeI32:
		return I64ToI32
	case from == api.ValueTypeF32 && to == api.ValueTypeI64:
		return Sequence{F32ToI32, I32ToI64}
	case from == api.ValueTypeI64 && to == api.ValueTypeF32:
		return Sequence{I64ToI32, I32ToF32}
	}
	// f64 never shares a slot with a 32-bit type without widening to i64
	return None
}

// CastsBetween pairs from[i] with to[i].
func CastsBetween(from, to []api.ValueType) []Bitcast {
	casts := make([]Bitcast, len(from))
	for i := range from {
		casts[i] = CastBetween(from[i], to[i])
	}
	return casts
}

// IsNone reports whether every cast is None.
func IsNone(casts []Bitcast) bool {
	for _, c := range casts {
		if c != None {
			return false
		}
	}
	return true
}
