package resource

import (
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/canon-abi/errors"
)

func TestStore_LazyTables(t *testing.T) {
	store := NewStore()

	a := store.Table("file")
	if store.Table("file") != a {
		t.Fatal("expected the same table on second lookup")
	}
	if store.Table("socket") == a {
		t.Fatal("expected distinct tables per resource name")
	}
	names := store.Names()
	if len(names) != 2 || names[0] != "file" || names[1] != "socket" {
		t.Fatalf("unexpected names %v", names)
	}
	if a.Name() != "file" {
		t.Fatalf("unexpected table name %q", a.Name())
	}
}

func TestStore_ConcurrentLookup(t *testing.T) {
	store := NewStore()
	tables := make([]*Table, 16)

	var wg sync.WaitGroup
	for i := range tables {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tables[i] = store.Table("shared")
		}(i)
	}
	wg.Wait()

	for i := range tables {
		if tables[i] != tables[0] {
			t.Fatalf("lookup %d returned a different table", i)
		}
	}
}

func TestStore_Destructors(t *testing.T) {
	store := NewStore()
	early := store.Table("early")

	var dropped []string
	store.SetDestructor("early", func(rep uint32) { dropped = append(dropped, "early") })
	store.SetDestructor("late", func(rep uint32) { dropped = append(dropped, "late") })

	h, _ := early.CreateOwn(1)
	if err := early.Drop(h); err != nil {
		t.Fatal(err)
	}
	_, _ = store.Table("late").CreateOwn(2)
	store.Close()

	if len(dropped) != 2 || dropped[0] != "early" || dropped[1] != "late" {
		t.Fatalf("unexpected destructor calls %v", dropped)
	}
}

func TestStore_Observer(t *testing.T) {
	store := NewStore()
	obs := &testObserver{}
	unsubscribe := store.Subscribe(obs)

	table := store.Table("file")
	cc := NewCallContext()
	cc.Enter()
	own, _ := table.CreateOwn(1)
	borrow, _ := table.CreateBorrow(2, cc)
	_, _ = table.Remove(borrow)
	_, _ = table.Remove(own)

	want := []Event{
		{Type: EventCreatedOwn, Resource: "file", Handle: own, Rep: 1},
		{Type: EventCreatedBorrow, Resource: "file", Handle: borrow, Rep: 2, Scope: 1},
		{Type: EventRemoved, Resource: "file", Handle: borrow, Rep: 2, Scope: 1},
		{Type: EventRemoved, Resource: "file", Handle: own, Rep: 1},
	}
	if len(obs.events) != len(want) {
		t.Fatalf("expected %d events, got %d: %+v", len(want), len(obs.events), obs.events)
	}
	for i := range want {
		if obs.events[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, obs.events[i], want[i])
		}
	}

	unsubscribe()
	_, _ = table.CreateOwn(3)
	if len(obs.events) != len(want) {
		t.Fatal("observer notified after unsubscribe")
	}
}

func TestLogObserver(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	store := NewStore()
	store.Subscribe(NewLogObserver(zap.New(core)))

	h, _ := store.Table("file").CreateOwn(9)
	_, _ = store.Table("file").Remove(h)

	entries := logs.FilterMessage("resource event").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["event"] != "created-own" || fields["resource"] != "file" || fields["rep"] != uint32(9) {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestTransferOwn(t *testing.T) {
	src := NewTable(nil)
	dst := NewTable(nil)

	h, _ := src.CreateOwn(11)
	moved, err := TransferOwn(src, dst, h)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := src.Get(h); err == nil {
		t.Fatal("source handle still valid after transfer")
	}
	e, err := dst.Get(moved)
	if err != nil || e.Rep != 11 || !e.Own {
		t.Fatalf("unexpected destination entry %+v, %v", e, err)
	}

	b, _ := src.CreateBorrow(12, nil)
	if _, err := TransferOwn(src, dst, b); !errors.IsKind(err, errors.KindHandle) {
		t.Fatalf("expected handle violation moving a borrow, got %v", err)
	}
	if _, err := src.Get(b); err != nil {
		t.Fatal("failed transfer must leave the source intact")
	}
}

func TestTransferBorrow(t *testing.T) {
	src := NewTable(nil)
	dst := NewTable(nil)
	cc := NewCallContext()

	h, _ := src.CreateOwn(21)
	cc.Enter()
	lent, err := TransferBorrow(src, dst, h, cc)
	if err != nil {
		t.Fatal(err)
	}
	e, _ := dst.Get(lent)
	if e.Own || e.Rep != 21 || e.Scope != 1 {
		t.Fatalf("unexpected borrow entry %+v", e)
	}
	if _, err := src.Get(h); err != nil {
		t.Fatalf("source handle must stay valid: %v", err)
	}
	if err := cc.Exit(); !errors.IsKind(err, errors.KindHandle) {
		t.Fatalf("expected leak on exit, got %v", err)
	}
}
