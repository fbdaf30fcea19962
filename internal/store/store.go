package store

import "contas/internal/core"

// Ports consumed by the view models.
type (
	// Observer is told about every change of the store with the full,
	// post-change list of entries. Implementations are used as registration
	// keys and must be comparable with ==, typically pointers.
	Observer interface {
		OnUpdate(entries []core.Entry)
	}

	// Reader exposes read access to entries.
	Reader interface {
		// FindAll returns a copy of all entries in insertion order.
		FindAll() []core.Entry
		// FindOne returns the first entry with the given id.
		FindOne(id int64) (core.Entry, bool)
	}

	// Writer mutates the entry collection.
	Writer interface {
		// Save inserts e when it has no id yet, otherwise replaces the
		// entry with the same id. It returns the persisted entry.
		Save(e core.Entry) (core.Entry, error)
		// Remove deletes every entry with e's id.
		Remove(e core.Entry)
	}

	// Notifier manages change subscriptions.
	Notifier interface {
		RegisterObserver(o Observer)
		RemoveObserver(o Observer)
		Subscribe(fn func([]core.Entry)) (unsubscribe func())
	}

	// Source is what a list view needs: reads plus change notifications.
	Source interface {
		Reader
		Notifier
	}

	// Repository is what a form needs: single-entry reads and writes.
	Repository interface {
		Reader
		Writer
	}

	// EntryStore is the full store contract.
	EntryStore interface {
		Reader
		Writer
		Notifier
	}
)
