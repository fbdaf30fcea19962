package memory

import (
	"fmt"
	"slices"
	"sync"

	"contas/internal/core"
	"contas/internal/observe"
	"contas/internal/store"
)

var _ store.EntryStore = (*Store)(nil)

// Store keeps entries in memory in insertion order.
//
// writeMu makes a mutation and the notification that follows it a single
// unit, so ids stay unique and observers see changes in mutation order.
// Observers may read from the store but must not write to it.
type Store struct {
	writeMu   sync.Mutex
	mu        sync.RWMutex
	items     []core.Entry
	observers observe.Registry[[]core.Entry]
}

func New() *Store {
	return &Store{}
}

// Save implements store.Writer. Saving an id that is not in the store
// returns core.ErrNotFound and leaves everything untouched.
func (s *Store) Save(e core.Entry) (core.Entry, error) {
	if err := e.Validate(); err != nil {
		return core.Entry{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if e.ID > 0 {
		i := slices.IndexFunc(s.items, func(it core.Entry) bool { return it.ID == e.ID })
		if i < 0 {
			s.mu.Unlock()
			return core.Entry{}, fmt.Errorf("save entry %d: %w", e.ID, core.ErrNotFound)
		}
		s.items[i] = e
	} else {
		e.ID = s.maxID() + 1
		s.items = append(s.items, e)
	}
	s.mu.Unlock()

	s.notify()
	return e, nil
}

// Remove implements store.Writer. Entries without an id are ignored.
func (s *Store) Remove(e core.Entry) {
	if e.ID <= 0 {
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.items = slices.DeleteFunc(s.items, func(it core.Entry) bool { return it.ID == e.ID })
	s.mu.Unlock()

	s.notify()
}

// FindAll returns a snapshot the caller is free to modify.
func (s *Store) FindAll() []core.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Entry, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) FindOne(id int64) (core.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return core.Entry{}, false
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) RegisterObserver(o store.Observer) {
	s.observers.Register(o, o.OnUpdate)
}

func (s *Store) RemoveObserver(o store.Observer) {
	s.observers.Unregister(o)
}

func (s *Store) Subscribe(fn func([]core.Entry)) func() {
	return s.observers.Subscribe(fn)
}

// ObserverCount returns the number of live registrations.
func (s *Store) ObserverCount() int {
	return s.observers.Len()
}

// notify must be called with writeMu held and mu released.
func (s *Store) notify() {
	s.observers.PublishEach(s.FindAll)
}

// maxID must be called with mu held.
func (s *Store) maxID() int64 {
	var highest int64
	for _, it := range s.items {
		if it.ID > highest {
			highest = it.ID
		}
	}
	return highest
}
