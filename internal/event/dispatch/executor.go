package dispatch

import (
	"context"
	"runtime/debug"
	"time"
)

// Executor runs a single handler, recovering panics and timing the call.
type Executor[E any] struct{}

// Execute runs handler with ev.
func (e *Executor[E]) Execute(ctx context.Context, ev E, handler Handler[E]) (result Result) {
	if err := ctx.Err(); err != nil {
		return Result{Error: err, Skipped: true}
	}

	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)

		if r := recover(); r != nil {
			result.Success = false
			result.Panicked = true
			result.PanicValue = r
			result.PanicStack = debug.Stack()
		}
	}()

	if err := handler.Handle(ctx, ev); err != nil {
		result.Error = err
		return result
	}
	result.Success = true
	return result
}
