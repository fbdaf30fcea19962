// Package observe provides the publish/subscribe registry shared by the
// entry store and the view models.
package observe

import (
	"fmt"
	"reflect"
	"sync"
)

type subscription[T any] struct {
	id  uint64
	key any
	fn  func(T)
}

// Registry keeps an ordered list of subscribers. The zero value is ready to
// use. Registering the same key twice yields two subscriptions.
type Registry[T any] struct {
	mu   sync.Mutex
	next uint64
	subs []subscription[T]
}

// Subscribe registers fn and returns a handle that removes exactly this
// registration. Calling the handle more than once is harmless.
func (r *Registry[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	id := r.add(nil, fn)
	var once sync.Once
	return func() {
		once.Do(func() { r.removeID(id) })
	}
}

// Register adds fn under key so it can later be removed with Unregister.
// key must be comparable, typically a pointer; Register panics otherwise.
func (r *Registry[T]) Register(key any, fn func(T)) {
	if !isComparable(key) {
		panic(fmt.Sprintf("observe: key of type %T is not comparable", key))
	}
	r.add(key, fn)
}

// Unregister drops the oldest registration made under key. It reports
// whether one was found.
func (r *Registry[T]) Unregister(key any) bool {
	if !isComparable(key) {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.subs {
		if s.key != nil && s.key == key {
			r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Publish calls every subscriber with v, synchronously, in registration
// order. The registry lock is not held while subscribers run.
func (r *Registry[T]) Publish(v T) {
	r.mu.Lock()
	subs := make([]subscription[T], len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// PublishEach is like Publish but builds a fresh value per subscriber, so
// no two subscribers share mutable data.
func (r *Registry[T]) PublishEach(build func() T) {
	r.mu.Lock()
	subs := make([]subscription[T], len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	for _, s := range subs {
		s.fn(build())
	}
}

// Len returns the number of live subscriptions.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

func (r *Registry[T]) add(key any, fn func(T)) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.subs = append(r.subs, subscription[T]{id: r.next, key: key, fn: fn})
	return r.next
}

func (r *Registry[T]) removeID(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.subs {
		if s.id == id {
			r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
			return
		}
	}
}

func isComparable(key any) bool {
	return key != nil && reflect.TypeOf(key).Comparable()
}
