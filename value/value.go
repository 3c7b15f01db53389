// Package value defines the host-side representation of component model
// values: what lifting produces and what lowering accepts.
//
// Scalars map to the matching Go types (bool, uint8..int64, float32,
// float64, rune for char, string). Lists of numeric elements are typed
// slices; other lists and tuples are []any. Enums are their case name.
package value

// Record is a record value keyed by field name.
type Record map[string]any

// Variant is a variant value: the selected case and its payload, nil for
// cases without one.
type Variant struct {
	Value any
	Case  string
}

// Option is the tagged form of option<T>. It is used when the payload type
// is itself an option, so that some(none) stays distinct from none. For all
// other payloads an option is nil or its payload.
type Option struct {
	Value any
	Some  bool
}

// Some returns a present tagged option.
func Some(v any) Option {
	return Option{Some: true, Value: v}
}

// None is the absent tagged option.
var None = Option{}

// Result is a result value. Value is nil for a case without a payload.
type Result struct {
	Value any
	IsErr bool
}

// Ok returns a successful result.
func Ok(v any) Result {
	return Result{Value: v}
}

// Err returns a failed result.
func Err(v any) Result {
	return Result{IsErr: true, Value: v}
}

// Flags is a flags value. Missing names are false.
type Flags map[string]bool

// Resource is the representation behind an own or borrow handle.
type Resource struct {
	Rep uint32
}
