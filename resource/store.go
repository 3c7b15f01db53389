package resource

import (
	"slices"
	"sync"
)

// Store holds one table per resource name for a component instance.
type Store struct {
	tables    map[string]*Table
	dtors     map[string]func(rep uint32)
	observers []subscription
	nextID    int
	mu        sync.RWMutex
}

type subscription struct {
	observer Observer
	id       int
}

// NewStore creates an empty resource store.
func NewStore() *Store {
	return &Store{
		tables: make(map[string]*Table),
		dtors:  make(map[string]func(rep uint32)),
	}
}

// Table returns the table for name, creating it on first use.
func (s *Store) Table(name string) *Table {
	s.mu.RLock()
	t, ok := s.tables[name]
	s.mu.RUnlock()
	if ok {
		return t
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tables[name]; ok {
		return t
	}
	t = NewTable(s.dtors[name])
	t.name = name
	t.notify = s.notify
	s.tables[name] = t
	return t
}

// SetDestructor registers the destructor for name. It applies to a table
// that already exists as well as to one created later.
func (s *Store) SetDestructor(name string, dtor func(rep uint32)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dtors[name] = dtor
	if t, ok := s.tables[name]; ok {
		t.dtor = dtor
	}
}

// Names returns the names of the tables created so far, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Subscribe registers an observer for lifecycle events from every table.
// The returned function removes it again.
func (s *Store) Subscribe(o Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, subscription{id: id, observer: o})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.observers = slices.DeleteFunc(slices.Clone(s.observers), func(sub subscription) bool {
			return sub.id == id
		})
	}
}

// Close finalizes every table, running destructors for remaining own
// handles.
func (s *Store) Close() {
	for _, name := range s.Names() {
		s.Table(name).Close()
	}
}

func (s *Store) notify(e Event) {
	s.mu.RLock()
	observers := s.observers
	s.mu.RUnlock()
	for _, sub := range observers {
		sub.observer.OnResourceEvent(e)
	}
}
