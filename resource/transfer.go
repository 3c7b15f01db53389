package resource

import (
	"github.com/wippyai/canon-abi/errors"
)

// TransferOwn moves an own handle from src to dst. The source slot is
// freed and the rep is re-created as an own handle in dst.
func TransferOwn(src, dst *Table, h Handle) (Handle, error) {
	e, err := src.Get(h)
	if err != nil {
		return 0, err
	}
	if !e.Own {
		return 0, errors.Handle(uint32(h), "expected an own handle, found a borrow")
	}
	if _, err := src.Remove(h); err != nil {
		return 0, err
	}
	return dst.CreateOwn(e.Rep)
}

// TransferBorrow lends the resource behind h to dst for the active scope
// of cc. The source handle stays valid.
func TransferBorrow(src, dst *Table, h Handle, cc *CallContext) (Handle, error) {
	e, err := src.Get(h)
	if err != nil {
		return 0, err
	}
	return dst.CreateBorrow(e.Rep, cc)
}
