package events

import "sync"

// registry is the listener bookkeeping shared by ChannelEvent and
// CallbackEvent. L is the listener type, T the value type.
type registry[L any, T any] struct {
	mu        sync.RWMutex
	listeners map[uint64]L
	nextID    uint64

	replay  bool // hand the last value to new listeners
	last    T
	hasLast bool
}

func newRegistry[L any, T any](replay bool) registry[L, T] {
	return registry[L, T]{listeners: make(map[uint64]L), replay: replay}
}

// add registers l and returns its id plus the value to replay, if any
func (r *registry[L, T]) add(l L) (uint64, T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.listeners[id] = l
	return id, r.last, r.replay && r.hasLast
}

func (r *registry[L, T]) remove(id uint64) {
	r.mu.Lock()
	delete(r.listeners, id)
	r.mu.Unlock()
}

// record stores value as the last one and returns a snapshot of the
// listeners so delivery can happen outside the lock
func (r *registry[L, T]) record(value T) []L {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.replay {
		r.last = value
		r.hasLast = true
	}
	out := make([]L, 0, len(r.listeners))
	for _, l := range r.listeners {
		out = append(out, l)
	}
	return out
}

func (r *registry[L, T]) lastValue() (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.replay || !r.hasLast {
		var zero T
		return zero, false
	}
	return r.last, true
}

func (r *registry[L, T]) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners)
}
