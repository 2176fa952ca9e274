package event

import (
	"time"

	"github.com/google/uuid"
)

// Envelope pairs an immutable event with the per-dispatch state listeners
// may change. Handled is set once a listener has consumed the event.
type Envelope struct {
	// Event is the event being delivered.
	Event Event

	// Handled stops delivery to further listeners once true, except to
	// subscriptions that asked to receive handled events.
	Handled bool

	// ID is a unique identifier for this delivery.
	ID string

	// Timestamp is when the envelope was created.
	Timestamp time.Time

	// Source identifies the component that published the event.
	Source string
}

// NewEnvelope wraps ev for delivery.
func NewEnvelope(ev Event, source string) *Envelope {
	return &Envelope{
		Event:     ev,
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Source:    source,
	}
}

// String returns the diagnostic string of the wrapped event.
func (env *Envelope) String() string {
	if env == nil || env.Event == nil {
		return "<nil>"
	}
	return env.Event.String()
}

// Dispatch calls fn if the envelope holds an event of type T. The result of
// fn is folded into env.Handled; a handled event stays handled. Returns true
// if fn was called.
//
//	event.Dispatch(env, func(e event.MousePressedEvent) bool {
//	    return e.Code() == 0
//	})
func Dispatch[T Event](env *Envelope, fn func(T) bool) bool {
	if env == nil || env.Event == nil {
		return false
	}
	e, ok := env.Event.(T)
	if !ok {
		return false
	}
	if fn(e) {
		env.Handled = true
	}
	return true
}
