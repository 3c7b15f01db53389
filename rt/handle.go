package rt

import (
	"github.com/wippyai/canon-abi/errors"
	"github.com/wippyai/canon-abi/numeric"
	"github.com/wippyai/canon-abi/resource"
	"github.com/wippyai/canon-abi/value"
)

// LowerOwn moves a host resource into the table for name and returns the
// new own handle.
func LowerOwn(cx *Context, v any, name string) (any, error) {
	rep, err := repOf(v)
	if err != nil {
		return nil, err
	}
	h, err := cx.table(name).CreateOwn(rep)
	if err != nil {
		return nil, err
	}
	return int32(h), nil
}

// LowerBorrow lends a host resource for the active call scope.
func LowerBorrow(cx *Context, v any, name string) (any, error) {
	rep, err := repOf(v)
	if err != nil {
		return nil, err
	}
	h, err := cx.table(name).CreateBorrow(rep, cx.Calls)
	if err != nil {
		return nil, err
	}
	return int32(h), nil
}

// LiftOwn takes an own handle out of the table for name. The slot is freed.
func LiftOwn(cx *Context, h any, name string) (any, error) {
	n, err := u32(errors.PhaseLift, h)
	if err != nil {
		return nil, err
	}
	t := cx.table(name)
	e, err := t.Get(resource.Handle(n))
	if err != nil {
		return nil, err
	}
	if !e.Own {
		return nil, errors.Handle(n, "expected an own handle, found a borrow")
	}
	if _, err := t.Remove(resource.Handle(n)); err != nil {
		return nil, err
	}
	return value.Resource{Rep: e.Rep}, nil
}

// LiftBorrow reads the resource behind a handle without consuming it.
func LiftBorrow(cx *Context, h any, name string) (any, error) {
	n, err := u32(errors.PhaseLift, h)
	if err != nil {
		return nil, err
	}
	e, err := cx.table(name).Get(resource.Handle(n))
	if err != nil {
		return nil, err
	}
	return value.Resource{Rep: e.Rep}, nil
}

func (cx *Context) table(name string) *resource.Table {
	if cx.Resources == nil {
		cx.Resources = resource.NewStore()
	}
	return cx.Resources.Table(name)
}

func repOf(v any) (uint32, error) {
	switch r := v.(type) {
	case value.Resource:
		return r.Rep, nil
	case *value.Resource:
		if r != nil {
			return r.Rep, nil
		}
	case uint32:
		return r, nil
	}
	return 0, errors.TypeMismatch(errors.PhaseLower, nil, numeric.TypeName(v), "resource")
}
