package rt

import (
	"github.com/wippyai/canon-abi/errors"
	"github.com/wippyai/canon-abi/numeric"
	"github.com/wippyai/canon-abi/value"
)

// VariantCase returns the index of the case selected by a value.Variant.
func VariantCase(cx *Context, v any, names []string) (any, error) {
	vv, err := asVariant(v)
	if err != nil {
		return nil, err
	}
	i := indexOf(names, vv.Case)
	if i < 0 {
		return nil, errors.InvalidVariant(errors.PhaseLower, vv.Case)
	}
	return int32(i), nil
}

func VariantPayload(cx *Context, v any) (any, error) {
	vv, err := asVariant(v)
	if err != nil {
		return nil, err
	}
	return vv.Value, nil
}

func MakeVariant(cx *Context, name string, payload any) (any, error) {
	return value.Variant{Case: name, Value: payload}, nil
}

func asVariant(v any) (value.Variant, error) {
	switch vv := v.(type) {
	case value.Variant:
		return vv, nil
	case *value.Variant:
		if vv != nil {
			return *vv, nil
		}
	}
	return value.Variant{}, errors.TypeMismatch(errors.PhaseLower, nil, numeric.TypeName(v), "variant")
}

// OptionCase returns 0 for none and 1 for some. A value.Option is read by
// its tag; otherwise nil is none and anything else is some. The tagged
// form is required when elide is false, except that nil still means none.
func OptionCase(cx *Context, v any, elide bool) (any, error) {
	switch o := v.(type) {
	case nil:
		return int32(0), nil
	case value.Option:
		if o.Some {
			return int32(1), nil
		}
		return int32(0), nil
	}
	if !elide {
		return nil, errors.TypeMismatch(errors.PhaseLower, nil, numeric.TypeName(v), "option")
	}
	return int32(1), nil
}

// OptionPayload returns the payload of a present option.
func OptionPayload(cx *Context, v any, elide bool) (any, error) {
	if o, ok := v.(value.Option); ok {
		return o.Value, nil
	}
	return v, nil
}

// MakeOption builds an option. With elide the result is nil or the bare
// payload; otherwise it is a value.Option.
func MakeOption(cx *Context, some bool, payload any, elide bool) (any, error) {
	if elide {
		if !some {
			return nil, nil
		}
		return payload, nil
	}
	return value.Option{Some: some, Value: payload}, nil
}

// ResultCase returns 0 for ok and 1 for err.
func ResultCase(cx *Context, v any) (any, error) {
	r, err := asResult(v)
	if err != nil {
		return nil, err
	}
	if r.IsErr {
		return int32(1), nil
	}
	return int32(0), nil
}

func ResultPayload(cx *Context, v any) (any, error) {
	r, err := asResult(v)
	if err != nil {
		return nil, err
	}
	return r.Value, nil
}

func MakeResult(cx *Context, isErr bool, payload any) (any, error) {
	return value.Result{IsErr: isErr, Value: payload}, nil
}

func asResult(v any) (value.Result, error) {
	switch r := v.(type) {
	case value.Result:
		return r, nil
	case *value.Result:
		if r != nil {
			return *r, nil
		}
	}
	return value.Result{}, errors.TypeMismatch(errors.PhaseLower, nil, numeric.TypeName(v), "result")
}

// InvalidDiscriminant reports a variant discriminant outside [0, cases).
func InvalidDiscriminant(cx *Context, disc any, cases int) error {
	n, _ := u32(errors.PhaseLift, disc)
	return errors.InvalidDiscriminant(errors.PhaseLift, nil, n, cases)
}
