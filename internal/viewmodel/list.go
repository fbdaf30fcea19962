package viewmodel

import (
	"sync"

	"github.com/shopspring/decimal"

	"contas/internal/core"
	applog "contas/internal/log"
	"contas/internal/observe"
	"contas/internal/store"
)

// ListState is what the list screen renders.
//
// LoadError is never set today: an in-memory FindAll cannot fail. It stays
// so that a fallible source can report through the same state.
type ListState struct {
	Loading   bool
	LoadError bool
	Entries   []core.Entry
}

func (s ListState) Balance() decimal.Decimal {
	return core.Balance(s.Entries)
}

func (s ListState) Projection() decimal.Decimal {
	return core.Projection(s.Entries)
}

func (s ListState) Summary() core.Summary {
	return core.Totals(s.Entries)
}

func (s ListState) clone() ListState {
	entries := make([]core.Entry, len(s.Entries))
	copy(entries, s.Entries)
	s.Entries = entries
	return s
}

// List mirrors the store's entries. It observes the store from creation
// until Close.
type List struct {
	mu        sync.Mutex
	src       store.Source
	log       *applog.Logger
	state     ListState
	pushes    uint64
	changes   observe.Registry[ListState]
	closeOnce sync.Once
}

var _ store.Observer = (*List)(nil)

// NewList registers the list with src and performs the initial load.
// Callers must Close it when the view goes away.
func NewList(src store.Source, opts ...Option) *List {
	o := buildOptions(opts)
	l := &List{
		src: src,
		log: o.logger,
	}
	src.RegisterObserver(l)
	l.Reload()
	return l
}

// State returns a copy of the current state.
func (l *List) State() ListState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.clone()
}

// Subscribe registers fn to receive every new state.
func (l *List) Subscribe(fn func(ListState)) (unsubscribe func()) {
	return l.changes.Subscribe(fn)
}

// Reload fetches all entries, flagging Loading while it does. If the store
// pushes a snapshot while the read is in flight, that snapshot wins.
func (l *List) Reload() {
	var seen uint64
	l.update(func(s ListState) ListState {
		seen = l.pushes
		s.Loading = true
		s.LoadError = false
		return s
	})
	entries := l.src.FindAll()
	l.update(func(s ListState) ListState {
		s.Loading = false
		if l.pushes == seen {
			s.Entries = entries
		}
		return s
	})
	l.log.Debug("Entries loaded", applog.FieldOperation, applog.OpList, applog.FieldCount, len(entries))
}

// OnUpdate takes the snapshot pushed by the store. Unlike Reload it leaves
// Loading alone.
func (l *List) OnUpdate(entries []core.Entry) {
	l.update(func(s ListState) ListState {
		l.pushes++
		s.Entries = entries
		return s
	})
}

// Close stops observing the store. It is safe to call more than once.
func (l *List) Close() {
	l.closeOnce.Do(func() {
		l.src.RemoveObserver(l)
	})
}

// update runs reduce with mu held.
func (l *List) update(reduce func(ListState) ListState) {
	l.mu.Lock()
	next := reduce(l.state)
	l.state = next
	l.mu.Unlock()

	l.changes.PublishEach(next.clone)
}
