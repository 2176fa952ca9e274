package event

import (
	"context"
	"time"
)

// Priority determines handler execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityCritical is for engine handlers that must see input first.
	PriorityCritical Priority = 0

	// PriorityHigh is for UI layers that sit above the game world.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 200

	// PriorityLow is for logging and recording observers that run last.
	PriorityLow Priority = 300
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// Handler processes events delivered by the Bus. A handler consumes an
// event by setting env.Handled.
type Handler interface {
	Handle(ctx context.Context, env *Envelope) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, env *Envelope) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, env *Envelope) error {
	return f(ctx, env)
}

// TypedHandler returns a Handler that only sees events of type T. The
// return value of fn marks the event handled.
func TypedHandler[T Event](fn func(ctx context.Context, e T) (bool, error)) Handler {
	return HandlerFunc(func(ctx context.Context, env *Envelope) error {
		var err error
		Dispatch(env, func(e T) bool {
			var handled bool
			handled, err = fn(ctx, e)
			return handled
		})
		return err
	})
}

// PanicHandler is called when a handler panics.
type PanicHandler func(env *Envelope, sub *Subscription, recovered any)

// Stats contains event bus statistics.
type Stats struct {
	// EventsPublished is the total number of envelopes published.
	EventsPublished uint64

	// EventsHandled is the number of envelopes marked handled by a listener.
	EventsHandled uint64

	// HandlersExecuted is the total number of handler executions.
	HandlersExecuted uint64

	// HandlerErrors is the number of handlers that returned errors.
	HandlerErrors uint64

	// HandlerPanics is the number of handlers that panicked.
	HandlerPanics uint64

	// ActiveSubscribers is the current number of registered subscriptions.
	ActiveSubscribers int

	// HandlerTime is the total time spent inside handlers.
	HandlerTime time.Duration

	// AvgHandlerTime is HandlerTime divided by the number of dispatches.
	AvgHandlerTime time.Duration
}
