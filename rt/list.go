package rt

import (
	"encoding/binary"
	"math"
	"reflect"
	"unicode/utf8"

	"github.com/wippyai/canon-abi/errors"
	"github.com/wippyai/canon-abi/numeric"
)

// MaxStringSize bounds strings copied across the boundary.
const MaxStringSize = numeric.MaxAlloc

// StringLower copies a UTF-8 string into guest memory and returns its
// pointer and byte length. The empty string lowers to (0, 0) without
// allocating.
func StringLower(cx *Context, v any) (any, any, error) {
	var s string
	switch v := v.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return nil, nil, errors.TypeMismatch(errors.PhaseLower, nil, numeric.TypeName(v), "string")
	}
	if !utf8.ValidString(s) {
		return nil, nil, errors.InvalidUTF8(errors.PhaseLower, []byte(s))
	}
	if len(s) == 0 {
		return int32(0), int32(0), nil
	}
	if len(s) > MaxStringSize {
		return nil, nil, errors.New(errors.PhaseLower, errors.KindOverflow).
			Detail("string size %d exceeds maximum %d", len(s), MaxStringSize).
			Build()
	}
	mem, err := cx.memory(errors.PhaseLower)
	if err != nil {
		return nil, nil, err
	}
	ptr, err := cx.alloc(errors.PhaseLower, uint32(len(s)), 1)
	if err != nil {
		return nil, nil, err
	}
	if err := mem.Write(ptr, []byte(s)); err != nil {
		return nil, nil, err
	}
	return int32(ptr), int32(len(s)), nil
}

// StringLift reads a UTF-8 string from guest memory.
func StringLift(cx *Context, ptr, n any) (any, error) {
	data, err := cx.readBytes(ptr, n, 1)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, errors.InvalidUTF8(errors.PhaseLift, data)
	}
	return string(data), nil
}

// StringLiftTrusted reads a string without validating its encoding.
func StringLiftTrusted(cx *Context, ptr, n any) (any, error) {
	data, err := cx.readBytes(ptr, n, 1)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// LowerCanonList copies a list of numeric elements into guest memory. v is
// a typed slice matching elem, or a []any whose items are lowered one by
// one with wraparound.
func LowerCanonList(cx *Context, v any, elem string) (any, any, error) {
	size := elemSize(elem)
	if size == 0 {
		return nil, nil, errors.Unsupported(errors.PhaseLower, "canonical list of "+elem)
	}
	data, n, err := encodeElems(v, elem, size)
	if err != nil {
		return nil, nil, err
	}
	if n > numeric.MaxListLength {
		return nil, nil, errors.New(errors.PhaseLower, errors.KindOverflow).
			Detail("list length %d exceeds maximum %d", n, numeric.MaxListLength).
			Build()
	}
	ptr, err := Alloc(cx, int32(n), size, size)
	if err != nil {
		return nil, nil, err
	}
	if len(data) > 0 {
		mem, err := cx.memory(errors.PhaseLower)
		if err != nil {
			return nil, nil, err
		}
		if err := mem.Write(uint32(ptr.(int32)), data); err != nil {
			return nil, nil, err
		}
	}
	return ptr, int32(n), nil
}

// LiftCanonList reads n numeric elements into a typed slice.
func LiftCanonList(cx *Context, ptr, n any, elem string) (any, error) {
	size := elemSize(elem)
	if size == 0 {
		return nil, errors.Unsupported(errors.PhaseLift, "canonical list of "+elem)
	}
	count, err := u32(errors.PhaseLift, n)
	if err != nil {
		return nil, err
	}
	if count > numeric.MaxListLength {
		return nil, errors.New(errors.PhaseLift, errors.KindOverflow).
			Detail("list length %d exceeds maximum %d", count, numeric.MaxListLength).
			Build()
	}
	data, err := cx.readBytes(ptr, n, size)
	if err != nil {
		return nil, err
	}
	return decodeElems(data, elem, int(count)), nil
}

// ListLen returns the length of a host list as an i32.
func ListLen(cx *Context, v any) (any, error) {
	if l, ok := v.([]any); ok {
		return int32(len(l)), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, errors.TypeMismatch(errors.PhaseLower, nil, numeric.TypeName(v), "list")
	}
	if rv.Len() > numeric.MaxListLength {
		return nil, errors.New(errors.PhaseLower, errors.KindOverflow).
			Detail("list length %d exceeds maximum %d", rv.Len(), numeric.MaxListLength).
			Build()
	}
	return int32(rv.Len()), nil
}

// ListElem returns element i of a host list.
func ListElem(cx *Context, v, i any) (any, error) {
	idx, err := i32(errors.PhaseLower, i)
	if err != nil {
		return nil, err
	}
	if l, ok := v.([]any); ok {
		if idx < 0 || int(idx) >= len(l) {
			return nil, errors.OutOfBounds(errors.PhaseLower, nil, int(idx), len(l))
		}
		return l[idx], nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, errors.TypeMismatch(errors.PhaseLower, nil, numeric.TypeName(v), "list")
	}
	if idx < 0 || int(idx) >= rv.Len() {
		return nil, errors.OutOfBounds(errors.PhaseLower, nil, int(idx), rv.Len())
	}
	return rv.Index(int(idx)).Interface(), nil
}

// MakeList creates a host list of n elements.
func MakeList(cx *Context, n any) (any, error) {
	count, err := u32(errors.PhaseLift, n)
	if err != nil {
		return nil, err
	}
	if count > numeric.MaxListLength {
		return nil, errors.New(errors.PhaseLift, errors.KindOverflow).
			Detail("list length %d exceeds maximum %d", count, numeric.MaxListLength).
			Build()
	}
	return make([]any, count), nil
}

// ListSet stores v at index i of a list made by MakeList.
func ListSet(cx *Context, list, i, v any) error {
	l, ok := list.([]any)
	if !ok {
		return errors.TypeMismatch(errors.PhaseLift, nil, numeric.TypeName(list), "list")
	}
	idx, err := i32(errors.PhaseLift, i)
	if err != nil {
		return err
	}
	if idx < 0 || int(idx) >= len(l) {
		return errors.OutOfBounds(errors.PhaseLift, nil, int(idx), len(l))
	}
	l[idx] = v
	return nil
}

func (cx *Context) readBytes(ptr, n any, size uint32) ([]byte, error) {
	p, err := u32(errors.PhaseLift, ptr)
	if err != nil {
		return nil, err
	}
	count, err := u32(errors.PhaseLift, n)
	if err != nil {
		return nil, err
	}
	total, err := numeric.ByteLen(errors.PhaseLift, count, size)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, nil
	}
	mem, err := cx.memory(errors.PhaseLift)
	if err != nil {
		return nil, err
	}
	return mem.Read(p, total)
}

func elemSize(elem string) uint32 {
	switch elem {
	case "u8", "s8":
		return 1
	case "u16", "s16":
		return 2
	case "u32", "s32", "f32":
		return 4
	case "u64", "s64", "f64":
		return 8
	}
	return 0
}

func encodeElems(v any, elem string, size uint32) ([]byte, int, error) {
	switch s := v.(type) {
	case []uint8:
		if elem == "u8" {
			return append([]byte(nil), s...), len(s), nil
		}
	case string:
		if elem == "u8" {
			return []byte(s), len(s), nil
		}
	case nil:
		return nil, 0, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, 0, errors.TypeMismatch(errors.PhaseLower, nil, numeric.TypeName(v), "list<"+elem+">")
	}
	n := rv.Len()
	buf := make([]byte, n*int(size))
	for i := range n {
		if err := putElem(buf[i*int(size):], elem, rv.Index(i).Interface()); err != nil {
			return nil, 0, err
		}
	}
	return buf, n, nil
}

func putElem(b []byte, elem string, v any) error {
	switch elem {
	case "u8":
		n, err := numeric.ToU8(v)
		b[0] = n
		return err
	case "s8":
		n, err := numeric.ToS8(v)
		b[0] = uint8(n)
		return err
	case "u16":
		n, err := numeric.ToU16(v)
		binary.LittleEndian.PutUint16(b, n)
		return err
	case "s16":
		n, err := numeric.ToS16(v)
		binary.LittleEndian.PutUint16(b, uint16(n))
		return err
	case "u32":
		n, err := numeric.ToU32(v)
		binary.LittleEndian.PutUint32(b, n)
		return err
	case "s32":
		n, err := numeric.ToS32(v)
		binary.LittleEndian.PutUint32(b, uint32(n))
		return err
	case "u64":
		n, err := numeric.ToU64(v)
		binary.LittleEndian.PutUint64(b, n)
		return err
	case "s64":
		n, err := numeric.ToS64(v)
		binary.LittleEndian.PutUint64(b, uint64(n))
		return err
	case "f32":
		f, err := numeric.ToF32(v)
		binary.LittleEndian.PutUint32(b, numeric.CanonicalizeF32(math.Float32bits(f)))
		return err
	case "f64":
		f, err := numeric.ToF64(v)
		binary.LittleEndian.PutUint64(b, numeric.CanonicalizeF64(math.Float64bits(f)))
		return err
	}
	return errors.Unsupported(errors.PhaseLower, "canonical list of "+elem)
}

func decodeElems(data []byte, elem string, n int) any {
	le := binary.LittleEndian
	switch elem {
	case "u8":
		out := make([]uint8, n)
		copy(out, data)
		return out
	case "s8":
		out := make([]int8, n)
		for i := range out {
			out[i] = int8(data[i])
		}
		return out
	case "u16":
		out := make([]uint16, n)
		for i := range out {
			out[i] = le.Uint16(data[2*i:])
		}
		return out
	case "s16":
		out := make([]int16, n)
		for i := range out {
			out[i] = int16(le.Uint16(data[2*i:]))
		}
		return out
	case "u32":
		out := make([]uint32, n)
		for i := range out {
			out[i] = le.Uint32(data[4*i:])
		}
		return out
	case "s32":
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(le.Uint32(data[4*i:]))
		}
		return out
	case "f32":
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(numeric.CanonicalizeF32(le.Uint32(data[4*i:])))
		}
		return out
	case "u64":
		out := make([]uint64, n)
		for i := range out {
			out[i] = le.Uint64(data[8*i:])
		}
		return out
	case "s64":
		out := make([]int64, n)
		for i := range out {
			out[i] = int64(le.Uint64(data[8*i:]))
		}
		return out
	case "f64":
		out := make([]float64, n)
		for i := range out {
			out[i] = math.Float64frombits(numeric.CanonicalizeF64(le.Uint64(data[8*i:])))
		}
		return out
	}
	return nil
}
