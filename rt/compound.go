package rt

import (
	"math/bits"
	"reflect"
	"strings"
	"unicode"

	"github.com/wippyai/canon-abi/errors"
	"github.com/wippyai/canon-abi/numeric"
	"github.com/wippyai/canon-abi/value"
)

// Field extracts a record field from a value.Record, a map[string]any, or
// an exported struct field matched by wit tag, name, or kebab-case name.
func Field(cx *Context, v any, name string) (any, error) {
	var m map[string]any
	switch r := v.(type) {
	case value.Record:
		m = r
	case map[string]any:
		m = r
	default:
		return structField(v, name)
	}
	f, ok := m[name]
	if !ok {
		return nil, errors.FieldMissing(errors.PhaseLower, []string{name}, name)
	}
	return f, nil
}

func structField(v any, name string) (any, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, errors.TypeMismatch(errors.PhaseLower, nil, numeric.TypeName(v), "record")
	}
	typ := rv.Type()
	for i := range typ.NumField() {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		if tag := f.Tag.Get("wit"); tag != "" {
			if tag == name {
				return rv.Field(i).Interface(), nil
			}
			continue
		}
		if strings.EqualFold(f.Name, name) || toKebabCase(f.Name) == name {
			return rv.Field(i).Interface(), nil
		}
	}
	return nil, errors.FieldMissing(errors.PhaseLower, []string{name}, name)
}

func toKebabCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MakeRecord builds a record from field names and values in order.
func MakeRecord(cx *Context, names []string, vals ...any) (any, error) {
	if len(names) != len(vals) {
		return nil, errors.InvalidInput(errors.PhaseLift, "record field count mismatch")
	}
	r := make(value.Record, len(names))
	for i, name := range names {
		r[name] = vals[i]
	}
	return r, nil
}

// TupleElem extracts element i of an n-tuple.
func TupleElem(cx *Context, v any, i, n int) (any, error) {
	t, ok := v.([]any)
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseLower, nil, numeric.TypeName(v), "tuple")
	}
	if len(t) != n {
		return nil, errors.New(errors.PhaseLower, errors.KindTypeMismatch).
			GoType(numeric.TypeName(v)).
			Detail("tuple has %d elements, want %d", len(t), n).
			Build()
	}
	return t[i], nil
}

func MakeTuple(cx *Context, vals ...any) (any, error) {
	return append([]any{}, vals...), nil
}

// LowerFlags packs flag word j. Names missing from the host value are
// false; names not declared by the type are rejected.
func LowerFlags(cx *Context, v any, names []string, word int) (any, error) {
	var set map[string]bool
	switch f := v.(type) {
	case nil:
	case value.Flags:
		set = f
	case map[string]bool:
		set = f
	default:
		return nil, errors.TypeMismatch(errors.PhaseLower, nil, numeric.TypeName(v), "flags")
	}
	for name := range set {
		if indexOf(names, name) < 0 {
			return nil, errors.New(errors.PhaseLower, errors.KindInvalidInput).
				Value(name).
				Detail("unknown flag %q", name).
				Build()
		}
	}
	var w uint32
	for i := word * 32; i < len(names) && i < (word+1)*32; i++ {
		if set[names[i]] {
			w |= 1 << (i - word*32)
		}
	}
	return int32(w), nil
}

// LiftFlags unpacks flag words. Bits beyond the declared flags must be zero.
func LiftFlags(cx *Context, names []string, words ...any) (any, error) {
	return liftFlags(names, words, true)
}

// LiftFlagsTrusted unpacks flag words, ignoring undeclared bits.
func LiftFlagsTrusted(cx *Context, names []string, words ...any) (any, error) {
	return liftFlags(names, words, false)
}

func liftFlags(names []string, words []any, strict bool) (any, error) {
	flags := make(value.Flags, len(names))
	for j, wv := range words {
		n, err := i32(errors.PhaseLift, wv)
		if err != nil {
			return nil, err
		}
		w := uint32(n)
		declared := min(len(names)-j*32, 32)
		if strict && declared < 32 {
			if extra := w &^ (1<<declared - 1); extra != 0 {
				return nil, errors.InvalidFlags(errors.PhaseLift, j, extra, len(names))
			}
		}
		for w != 0 {
			bit := bits.TrailingZeros32(w)
			w &^= 1 << bit
			if bit < declared {
				flags[names[j*32+bit]] = true
			}
		}
	}
	return flags, nil
}

// EnumOrdinal returns the ordinal of the case named by v.
func EnumOrdinal(cx *Context, v any, names []string) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseLower, nil, numeric.TypeName(v), "enum")
	}
	i := indexOf(names, s)
	if i < 0 {
		return nil, errors.InvalidEnum(errors.PhaseLower, s)
	}
	return int32(i), nil
}

// EnumName returns the case name for an ordinal.
func EnumName(cx *Context, ord any, names []string) (any, error) {
	n, err := u32(errors.PhaseLift, ord)
	if err != nil {
		return nil, err
	}
	if int64(n) >= int64(len(names)) {
		return nil, errors.InvalidDiscriminant(errors.PhaseLift, nil, n, len(names))
	}
	return names[n], nil
}

// EnumNameTrusted returns the case name for an ordinal, or "" when the
// ordinal is out of range.
func EnumNameTrusted(cx *Context, ord any, names []string) (any, error) {
	n, err := u32(errors.PhaseLift, ord)
	if err != nil {
		return nil, err
	}
	if int64(n) >= int64(len(names)) {
		return "", nil
	}
	return names[n], nil
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
