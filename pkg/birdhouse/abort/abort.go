// Package abort provides one-shot cancellation tokens and the debounce
// supersession that hands them out.
//
// A Token is checked explicitly at every suspension point of a navigation
// attempt. Nothing in this package interrupts running code: an attempt only
// notices that it was aborted when it calls Err.
package abort

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/atomic"
)

// ErrAborted is returned by Token.Err once the token has been aborted.
var ErrAborted = errors.New("aborted")

// Token is a cancellable, one-shot signal. The zero value is not usable;
// create tokens with NewToken or Debounce.Next.
type Token struct {
	aborted *atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewToken returns a fresh, open token.
func NewToken() *Token {
	ctx, cancel := context.WithCancel(context.Background())
	return &Token{
		aborted: atomic.NewBool(false),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Abort marks the token as aborted. Calling it more than once is a no-op.
func (t *Token) Abort() {
	if t.aborted.CompareAndSwap(false, true) {
		t.cancel()
	}
}

// Aborted reports whether Abort has been called.
func (t *Token) Aborted() bool {
	return t.aborted.Load()
}

// Err returns ErrAborted if the token was aborted and nil otherwise.
func (t *Token) Err() error {
	if t.Aborted() {
		return ErrAborted
	}
	return nil
}

// Done returns a channel that is closed when the token is aborted.
func (t *Token) Done() <-chan struct{} {
	return t.ctx.Done()
}

// Context returns a context that is cancelled together with the token.
// It is meant to be handed to blocking I/O such as HTTP requests.
func (t *Token) Context() context.Context {
	return t.ctx
}

// Bind aborts the token when ctx is done. The returned function detaches the
// binding and reports whether it was still attached.
func (t *Token) Bind(ctx context.Context) (stop func() bool) {
	return context.AfterFunc(ctx, t.Abort)
}

// Debounce issues a new token on every call to Next and aborts the one it
// issued before, so only the newest request may proceed.
type Debounce struct {
	mu      sync.Mutex
	current *Token
}

// Next aborts the previously issued token, if any, and returns a new one.
func (d *Debounce) Next() *Token {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.current != nil {
		d.current.Abort()
	}
	d.current = NewToken()
	return d.current
}

// Current returns the most recently issued token, or nil before the first
// call to Next.
func (d *Debounce) Current() *Token {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// IsCurrent reports whether t is the most recently issued token.
func (d *Debounce) IsCurrent(t *Token) bool {
	return d.Current() == t
}
