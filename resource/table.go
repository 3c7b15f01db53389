package resource

import (
	"github.com/wippyai/canon-abi/errors"
)

// T marks free-list links in the scope word and own handles in the rep word.
const T = 1 << 30

// MaxRep is the largest representation a table can hold.
const MaxRep = T - 1

// Table manages handles of a single resource type.
type Table struct {
	dtor   func(rep uint32)
	notify func(Event)
	name   string
	slab   []uint32
	live   int
}

// NewTable creates an empty table with an optional destructor, run when an
// own handle is dropped or the table is closed.
func NewTable(dtor func(rep uint32)) *Table {
	return &Table{
		dtor: dtor,
		slab: []uint32{T, 0},
	}
}

// Name returns the resource name the table was created for by a Store.
func (t *Table) Name() string {
	return t.name
}

// CreateOwn stores rep as a new own handle.
func (t *Table) CreateOwn(rep uint32) (Handle, error) {
	if err := checkRep(rep); err != nil {
		return 0, err
	}
	h := t.insert(0, rep|T)
	t.emit(EventCreatedOwn, h, rep, 0)
	return h, nil
}

// CreateBorrow stores rep as a new borrow handle in the active scope of cc.
// The borrow is registered with cc so that Exit can verify it was dropped.
// A nil cc creates an untracked borrow in scope 0.
func (t *Table) CreateBorrow(rep uint32, cc *CallContext) (Handle, error) {
	if err := checkRep(rep); err != nil {
		return 0, err
	}
	var scope uint32
	if cc != nil {
		scope = cc.Scope()
	}
	h := t.insert(scope, rep)
	if cc != nil {
		cc.track(t, h)
	}
	t.emit(EventCreatedBorrow, h, rep, scope)
	return h, nil
}

func (t *Table) insert(scope, val uint32) Handle {
	t.live++
	free := t.slab[0] &^ T
	if free == 0 {
		t.slab = append(t.slab, scope, val)
		return Handle(len(t.slab)>>1 - 1)
	}
	t.slab[0] = t.slab[free<<1]
	t.slab[free<<1] = scope
	t.slab[free<<1+1] = val
	return Handle(free)
}

// Get decodes the slot behind h.
func (t *Table) Get(h Handle) (Entry, error) {
	return t.decode(h)
}

// Remove decodes the slot behind h and pushes it onto the free list.
func (t *Table) Remove(h Handle) (Entry, error) {
	e, err := t.decode(h)
	if err != nil {
		return Entry{}, err
	}
	t.slab[h<<1] = t.slab[0] | T
	t.slab[0] = uint32(h) | T
	t.live--
	t.emit(EventRemoved, h, e.Rep, e.Scope)
	return e, nil
}

// Drop removes h and runs the destructor for own handles.
func (t *Table) Drop(h Handle) error {
	e, err := t.Remove(h)
	if err != nil {
		return err
	}
	if e.Own && t.dtor != nil {
		t.dtor(e.Rep)
		t.emit(EventDropped, h, e.Rep, 0)
	}
	return nil
}

// EnsureBorrowDropped fails if the slot behind h still carries scope.
func (t *Table) EnsureBorrowDropped(h Handle, scope uint32) error {
	i := uint64(h) << 1
	if i < uint64(len(t.slab)) && t.slab[i] == scope {
		return errors.Handle(uint32(h), "borrow was not dropped before its call returned")
	}
	return nil
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	return t.live
}

// Close runs the destructor for every remaining own handle and empties the
// table.
func (t *Table) Close() {
	for h := 1; h < len(t.slab)>>1; h++ {
		scope, val := t.slab[h<<1], t.slab[h<<1+1]
		if scope&T != 0 || val == 0 {
			continue
		}
		if val&T != 0 && t.dtor != nil {
			t.dtor(val &^ T)
			t.emit(EventDropped, Handle(h), val&^T, 0)
		}
	}
	t.slab = []uint32{T, 0}
	t.live = 0
}

func (t *Table) decode(h Handle) (Entry, error) {
	i := uint64(h) << 1
	if h == 0 || i+1 >= uint64(len(t.slab)) {
		return Entry{}, errors.Handle(uint32(h), "out of range")
	}
	scope, val := t.slab[i], t.slab[i+1]
	if scope&T != 0 {
		return Entry{}, errors.Handle(uint32(h), "slot is free")
	}
	if val == 0 {
		return Entry{}, errors.Handle(uint32(h), "zero representation")
	}
	return Entry{
		Rep:   val &^ T,
		Scope: scope,
		Own:   val&T != 0,
	}, nil
}

func (t *Table) emit(typ EventType, h Handle, rep, scope uint32) {
	if t.notify != nil {
		t.notify(Event{Type: typ, Resource: t.name, Handle: h, Rep: rep, Scope: scope})
	}
}

func checkRep(rep uint32) error {
	if rep == 0 || rep > MaxRep {
		return errors.New(errors.PhaseResource, errors.KindHandle).
			Value(rep).
			Detail("representation %d outside 1..%d", rep, MaxRep).
			Build()
	}
	return nil
}
