package panicerr

import (
	"context"
	"log/slog"

	"github.com/sourcegraph/conc/panics"
)

// Safe wraps a function that returns an error, catching any panics and returning them as an error.
func Safe(fn func() error) func() error {
	return func() error {
		var (
			catcher panics.Catcher
			err     error
		)
		catcher.Try(func() {
			err = fn()
		})
		if err != nil {
			return err
		}
		return catcher.Recovered().AsError()
	}
}

// SafeContext wraps a function that takes a context and returns an error.
func SafeContext(fn func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		return Safe(func() error { return fn(ctx) })()
	}
}

// Logged returns a func suitable for conc.WaitGroup.Go that runs fn, logs its error or
// recovered panic under name, and never panics itself.
func Logged(ctx context.Context, name string, fn func(context.Context) error) func() {
	return func() {
		if err := SafeContext(fn)(ctx); err != nil {
			slog.ErrorContext(ctx, "background job failed", "job", name, "error", err)
		}
	}
}
