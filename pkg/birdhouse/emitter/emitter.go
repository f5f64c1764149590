// Package emitter is a lightweight typed callback registry.
package emitter

import "sync"

// Subscription identifies a registered callback.
type Subscription uint64

// Emitter delivers values to every attached callback in registration order.
// It is safe for concurrent use; callbacks run on the emitting goroutine.
type Emitter[T any] struct {
	mu        sync.RWMutex
	next      Subscription
	order     []Subscription
	callbacks map[Subscription]func(T)
}

// New returns an empty Emitter.
func New[T any]() *Emitter[T] {
	return &Emitter[T]{callbacks: make(map[Subscription]func(T))}
}

// On attaches cb and returns the subscription used to detach it.
func (e *Emitter[T]) On(cb func(T)) Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.callbacks == nil {
		e.callbacks = make(map[Subscription]func(T))
	}
	e.next++
	id := e.next
	e.callbacks[id] = cb
	e.order = append(e.order, id)
	return id
}

// Detach removes a subscription. It reports whether the subscription was
// attached.
func (e *Emitter[T]) Detach(id Subscription) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.callbacks[id]; !ok {
		return false
	}
	delete(e.callbacks, id)
	for i, sub := range e.order {
		if sub == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return true
}

// Emit calls every attached callback with data.
func (e *Emitter[T]) Emit(data T) {
	e.mu.RLock()
	cbs := make([]func(T), 0, len(e.order))
	for _, id := range e.order {
		cbs = append(cbs, e.callbacks[id])
	}
	e.mu.RUnlock()

	for _, cb := range cbs {
		cb(data)
	}
}

// Len returns the number of attached callbacks.
func (e *Emitter[T]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.order)
}
