package value

import (
	"math"
	"reflect"
)

// Equal reports whether two host values are the same component value.
// Flags compare by set members, so a missing name equals false. Floats
// compare bitwise, so NaN equals an identical NaN.
func Equal(a, b any) bool {
	switch av := a.(type) {
	case Flags:
		bv, ok := b.(Flags)
		if !ok {
			return false
		}
		for k, v := range av {
			if v != bv[k] {
				return false
			}
		}
		for k, v := range bv {
			if v != av[k] {
				return false
			}
		}
		return true
	case Record:
		bv, ok := b.(Record)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, ok := bv[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Variant:
		bv, ok := b.(Variant)
		return ok && av.Case == bv.Case && Equal(av.Value, bv.Value)
	case Option:
		bv, ok := b.(Option)
		return ok && av.Some == bv.Some && Equal(av.Value, bv.Value)
	case Result:
		bv, ok := b.(Result)
		return ok && av.IsErr == bv.IsErr && Equal(av.Value, bv.Value)
	case float32:
		bv, ok := b.(float32)
		return ok && math.Float32bits(av) == math.Float32bits(bv)
	case float64:
		bv, ok := b.(float64)
		return ok && math.Float64bits(av) == math.Float64bits(bv)
	}
	return reflect.DeepEqual(a, b)
}
