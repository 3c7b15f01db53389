package resource

// Handle is an index into a Table. Handle 0 is reserved and always invalid.
type Handle uint32

// Entry is a decoded table slot.
type Entry struct {
	Rep   uint32
	Scope uint32
	Own   bool
}

// Event types for resource lifecycle notifications.
type EventType uint8

const (
	EventCreatedOwn EventType = iota
	EventCreatedBorrow
	EventRemoved
	EventDropped
)

func (t EventType) String() string {
	switch t {
	case EventCreatedOwn:
		return "created-own"
	case EventCreatedBorrow:
		return "created-borrow"
	case EventRemoved:
		return "removed"
	case EventDropped:
		return "dropped"
	}
	return "unknown"
}

// Event represents a resource lifecycle event.
type Event struct {
	Resource string
	Handle   Handle
	Rep      uint32
	Scope    uint32
	Type     EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnResourceEvent(e Event) { f(e) }
