package layout

import (
	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"
)

// Canonical ABI flattening limits
const (
	MaxFlatParams  = 16
	MaxFlatResults = 1
)

// Flatten returns the core value types a WIT type occupies when passed in
// wasm locals.
func Flatten(t wit.Type) []api.ValueType {
	if t == nil {
		return nil
	}

	switch v := t.(type) {
	case wit.Bool, wit.U8, wit.U16, wit.U32, wit.S8, wit.S16, wit.S32, wit.Char:
		return []api.ValueType{api.ValueTypeI32}
	case wit.U64, wit.S64:
		return []api.ValueType{api.ValueTypeI64}
	case wit.F32:
		return []api.ValueType{api.ValueTypeF32}
	case wit.F64:
		return []api.ValueType{api.ValueTypeF64}
	case wit.String:
		return []api.ValueType{api.ValueTypeI32, api.ValueTypeI32} // ptr, len
	case *wit.TypeDef:
		return flattenTypeDef(v)
	}
	return []api.ValueType{api.ValueTypeI32}
}

// FlattenAll concatenates the flat types of every element.
func FlattenAll(types []wit.Type) []api.ValueType {
	var flat []api.ValueType
	for _, t := range types {
		flat = append(flat, Flatten(t)...)
	}
	return flat
}

func flattenTypeDef(td *wit.TypeDef) []api.ValueType {
	if td == nil || td.Kind == nil {
		return []api.ValueType{api.ValueTypeI32}
	}

	switch kind := td.Kind.(type) {
	case *wit.Record:
		var flat []api.ValueType
		for _, f := range kind.Fields {
			flat = append(flat, Flatten(f.Type)...)
		}
		return flat
	case *wit.Tuple:
		return FlattenAll(kind.Types)
	case *wit.List:
		return []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}
	case *wit.Variant:
		payloads := make([]wit.Type, len(kind.Cases))
		for i, c := range kind.Cases {
			payloads[i] = c.Type
		}
		return FlattenUnion(payloads)
	case *wit.Enum:
		return []api.ValueType{api.ValueTypeI32}
	case *wit.Option:
		return FlattenUnion([]wit.Type{nil, kind.Type})
	case *wit.Result:
		return FlattenUnion([]wit.Type{kind.OK, kind.Err})
	case *wit.Flags:
		flat := make([]api.ValueType, FlagsWords(len(kind.Flags)))
		for i := range flat {
			flat[i] = api.ValueTypeI32
		}
		return flat
	case *wit.Own, *wit.Borrow:
		return []api.ValueType{api.ValueTypeI32}
	case wit.Type:
		return Flatten(kind)
	}
	return []api.ValueType{api.ValueTypeI32}
}

// FlattenUnion flattens a discriminant followed by the joined payload types
// of every case. A nil entry is an empty case.
func FlattenUnion(payloads []wit.Type) []api.ValueType {
	return append([]api.ValueType{api.ValueTypeI32}, JoinedPayload(payloads)...)
}

// JoinedPayload returns the position-wise join of all case payloads.
func JoinedPayload(payloads []wit.Type) []api.ValueType {
	var joined []api.ValueType
	for _, p := range payloads {
		for i, ft := range Flatten(p) {
			if i < len(joined) {
				joined[i] = Join(joined[i], ft)
			} else {
				joined = append(joined, ft)
			}
		}
	}
	return joined
}

// Join unions two core types sharing a payload slot.
func Join(a, b api.ValueType) api.ValueType {
	if a == b {
		return a
	}
	// 32-bit types can share storage
	if (a == api.ValueTypeI32 && b == api.ValueTypeF32) ||
		(a == api.ValueTypeF32 && b == api.ValueTypeI32) {
		return api.ValueTypeI32
	}
	return api.ValueTypeI64
}
