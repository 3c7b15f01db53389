// Package resource provides Component Model resource handle tables.
//
// Resources are opaque, ownership-tracked references that cross the
// component boundary as small integer handles. Each resource type gets its
// own Table, created lazily by a Store and kept for the lifetime of the
// component instance.
//
// # Table Layout
//
// A Table is a slab of paired 32-bit words:
//
//	slot 0:  [free-list head | T, 0]
//	slot h:  [scope, rep | T]      own handle (scope is always 0)
//	slot h:  [scope, rep]          borrow handle created in call scope "scope"
//	slot h:  [next | T, ...]       free slot linked to the next free slot
//
// T is bit 30. A set T bit in the first word marks a free-list link, so any
// handle whose first word carries it is invalid. A rep must be non-zero and
// below 1<<30.
//
// # Resource Lifecycle
//
//	own<T>    - exclusive custody; moves between tables exactly once
//	borrow<T> - temporary access for the duration of one call scope
//	drop      - explicit destruction of an owned resource
//
// # Call Scopes
//
// CallContext carries the active call-scope id and the borrows created in
// each open scope. Exit fails when a borrow created in the closing scope is
// still present:
//
//	cc := resource.NewCallContext()
//	cc.Enter()
//	h, _ := table.CreateBorrow(rep, cc)
//	// ... callee uses h and must drop it ...
//	_ = table.Drop(h)
//	err := cc.Exit() // nil: the borrow was dropped
//
// # Observers
//
// Register observers on a Store to track lifecycle events:
//
//	store := resource.NewStore()
//	store.Subscribe(resource.NewLogObserver(logger))
//
// # Concurrency
//
// Tables and CallContexts are not safe for concurrent mutation; a component
// instance owns them exclusively. Store.Table may be called concurrently.
package resource
