// Package lock provides a FIFO-fair binary mutex whose Acquire can be
// abandoned through an abort.Token.
package lock

import (
	"container/list"
	"sync"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/abort"
)

// waiter is a pending Acquire call. ready is closed when ownership is handed
// to it by Release.
type waiter struct {
	ready   chan struct{}
	granted bool
}

// Mutex is a non-reentrant exclusion lock. Waiters are granted in arrival
// order and ownership passes directly from Release to the head waiter, so the
// lock is never observed unlocked while someone is queued.
//
// A holder calling Acquire again deadlocks.
type Mutex struct {
	mu      sync.Mutex
	locked  bool
	waiters *list.List // of *waiter
}

// New returns an unlocked Mutex.
func New() *Mutex {
	return &Mutex{waiters: list.New()}
}

// Acquire takes the lock, waiting in line if it is held.
//
// tok may be nil. If tok is already aborted Acquire returns abort.ErrAborted
// without queueing. If tok is aborted while waiting, the waiter leaves the
// queue and Acquire returns abort.ErrAborted; it never owns the lock afterward.
func (m *Mutex) Acquire(tok *abort.Token) error {
	if tok != nil && tok.Aborted() {
		return abort.ErrAborted
	}

	m.mu.Lock()
	if m.waiters == nil {
		m.waiters = list.New()
	}
	if !m.locked {
		m.locked = true
		m.mu.Unlock()
		return nil
	}

	w := &waiter{ready: make(chan struct{})}
	elem := m.waiters.PushBack(w)
	m.mu.Unlock()

	var done <-chan struct{}
	if tok != nil {
		done = tok.Done()
	}

	select {
	case <-w.ready:
		if tok != nil && tok.Aborted() {
			m.Release()
			return abort.ErrAborted
		}
		return nil
	case <-done:
	}

	m.mu.Lock()
	if !w.granted {
		m.waiters.Remove(elem)
		m.mu.Unlock()
		return abort.ErrAborted
	}
	m.mu.Unlock()

	// Release handed us the lock at the same moment the token fired.
	// Pass it on rather than owning it as a cancelled caller.
	m.Release()
	return abort.ErrAborted
}

// Release hands the lock to the oldest waiter or unlocks it when nobody is
// waiting. Releasing an unlocked Mutex panics.
func (m *Mutex) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.locked {
		panic("lock: release of unlocked mutex")
	}

	if m.waiters == nil {
		m.locked = false
		return
	}

	front := m.waiters.Front()
	if front == nil {
		m.locked = false
		return
	}

	w := m.waiters.Remove(front).(*waiter)
	w.granted = true
	close(w.ready)
}

// Locked reports whether some caller currently holds the lock.
func (m *Mutex) Locked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked
}

// Waiters returns the number of pending Acquire calls.
func (m *Mutex) Waiters() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.waiters == nil {
		return 0
	}
	return m.waiters.Len()
}
