package router

import (
	"context"
	"strings"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/emitter"
)

// BindHashChanges navigates to every fragment emitted on hashes, each in its
// own goroutine, exactly like any other caller of Navigate. Fatal navigation
// errors go to onError when it is not nil. Detach the returned subscription
// from hashes to stop listening.
func (r *Router) BindHashChanges(hashes *emitter.Emitter[string], onError func(error)) emitter.Subscription {
	return hashes.On(func(fragment string) {
		go func() {
			_, err := r.Navigate(context.Background(), strings.TrimPrefix(fragment, "#"), nil)
			if err != nil && onError != nil {
				onError(err)
			}
		}()
	})
}
