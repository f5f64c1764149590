package router

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// settle calls every task in slice order, one at a time, and waits for all of
// them. The result holds each task's outcome at the task's index; one failure
// never stops the tasks after it. Panics are converted to errors.
func settle(ctx context.Context, tasks []func(context.Context) error) []error {
	errs := make([]error, len(tasks))

	var g errgroup.Group
	// Go blocks until the previous task returns, so task i+1 is never entered
	// before task i has finished.
	g.SetLimit(1)
	for i, task := range tasks {
		g.Go(func() error {
			errs[i] = call(ctx, task)
			return nil
		})
	}
	_ = g.Wait()

	return errs
}

func call(ctx context.Context, task func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errPanic(r)
		}
	}()
	return task(ctx)
}
