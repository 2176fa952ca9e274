package event

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/dshills/cybus/internal/event/dispatch"
)

// Bus delivers events synchronously to filtered subscriptions in priority
// order. Delivery of an envelope stops at the first handler that marks it
// handled; subscriptions created with ReceiveHandled still see it.
//
// Subscribing and unsubscribing are safe from any goroutine. Each publish
// visits its envelope from the publishing goroutine only.
type Bus struct {
	mu      sync.RWMutex
	subs    []*Subscription
	nextSeq uint64

	dispatcher *dispatch.SyncDispatcher[*Envelope]
	config     busConfig

	eventsPublished  atomic.Uint64
	eventsHandled    atomic.Uint64
	handlersExecuted atomic.Uint64
	handlerErrors    atomic.Uint64
	handlerPanics    atomic.Uint64
}

// NewBus creates a new event bus with the given options.
func NewBus(opts ...BusOption) *Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Bus{
		config:     config,
		dispatcher: dispatch.NewSyncDispatcher[*Envelope](),
	}
}

// Subscribe registers h for events matching f.
func (b *Bus) Subscribe(f Filter, h Handler, opts ...SubscriptionOption) (*Subscription, error) {
	if h == nil {
		return nil, ErrNilHandler
	}

	sub := newSubscription(f, h, opts...)

	b.mu.Lock()
	sub.seq = b.nextSeq
	b.nextSeq++
	b.subs = append(b.subs, sub)
	sort.SliceStable(b.subs, func(i, j int) bool {
		if b.subs[i].priority != b.subs[j].priority {
			return b.subs[i].priority < b.subs[j].priority
		}
		return b.subs[i].seq < b.subs[j].seq
	})
	b.mu.Unlock()

	b.config.logger.Debug("subscribed",
		slog.String("subscription", sub.name),
		slog.String("filter", f.String()),
		slog.String("priority", sub.priority.String()))

	return sub, nil
}

// SubscribeFunc registers fn for events matching f.
func (b *Bus) SubscribeFunc(f Filter, fn HandlerFunc, opts ...SubscriptionOption) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(f, fn, opts...)
}

// Unsubscribe removes a subscription from the bus.
func (b *Bus) Unsubscribe(sub *Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			sub.Cancel()
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Publish wraps ev in a new envelope and delivers it. The envelope is
// returned so the caller can inspect Handled.
func (b *Bus) Publish(ctx context.Context, ev Event) (*Envelope, error) {
	if ev == nil {
		return nil, ErrInvalidEvent
	}
	env := NewEnvelope(ev, b.config.source)
	return env, b.PublishEnvelope(ctx, env)
}

// PublishEnvelope delivers env to every matching subscription. Handler
// errors and panics do not stop delivery; they are joined into the
// returned error. A cancelled context stops delivery and its error is
// returned, joined with any handler failures that preceded it.
func (b *Bus) PublishEnvelope(ctx context.Context, env *Envelope) error {
	if env == nil || env.Event == nil {
		return ErrInvalidEvent
	}

	b.eventsPublished.Add(1)

	b.mu.RLock()
	subs := make([]*Subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	var (
		errs      []error
		ctxErr    error
		cancelled bool
	)

	for _, sub := range subs {
		if ctxErr = ctx.Err(); ctxErr != nil {
			break
		}
		if sub.State() == SubscriptionStateCancelled {
			cancelled = true
			continue
		}
		if !sub.accepts(env) {
			continue
		}
		if sub.once {
			if !sub.state.CompareAndSwap(int32(SubscriptionStateActive), int32(SubscriptionStateCancelled)) {
				continue
			}
			cancelled = true
		}

		wasHandled := env.Handled
		result := b.dispatcher.Dispatch(ctx, env, sub.handler)

		if result.Skipped {
			// cancelled between the check above and the call
			if sub.once {
				sub.state.CompareAndSwap(int32(SubscriptionStateCancelled), int32(SubscriptionStateActive))
			}
			ctxErr = result.Error
			break
		}

		b.handlersExecuted.Add(1)

		switch {
		case result.IsPanic():
			b.handlerPanics.Add(1)
			perr := &PanicError{
				Subscription: sub.name,
				Type:         env.Event.Type(),
				Value:        result.PanicValue,
				Stack:        string(result.PanicStack),
			}
			errs = append(errs, perr)
			b.config.logger.Error("handler panicked",
				slog.String("subscription", sub.name),
				slog.String("event", env.String()),
				slog.Any("panic", result.PanicValue))
			if b.config.panicHandler != nil {
				b.config.panicHandler(env, sub, result.PanicValue)
			}
		case result.IsError():
			b.handlerErrors.Add(1)
			errs = append(errs, &HandlerError{
				Subscription: sub.name,
				Type:         env.Event.Type(),
				Err:          result.Error,
			})
			b.config.logger.Warn("handler failed",
				slog.String("subscription", sub.name),
				slog.String("event", env.String()),
				slog.Any("error", result.Error))
		}

		if !wasHandled && env.Handled {
			b.eventsHandled.Add(1)
			b.config.logger.Debug("event handled",
				slog.String("subscription", sub.name),
				slog.String("event", env.String()))
		}
	}

	if cancelled {
		b.prune()
	}

	if ctxErr != nil {
		if len(errs) == 0 {
			return ctxErr
		}
		errs = append(errs, ctxErr)
	}
	return errors.Join(errs...)
}

// prune drops cancelled subscriptions.
func (b *Bus) prune() {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.subs[:0]
	for _, s := range b.subs {
		if s.State() != SubscriptionStateCancelled {
			kept = append(kept, s)
		}
	}
	for i := len(kept); i < len(b.subs); i++ {
		b.subs[i] = nil
	}
	b.subs = kept
}

// Len returns the number of registered subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Stats returns bus statistics.
func (b *Bus) Stats() Stats {
	ds := b.dispatcher.Stats()
	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsHandled:     b.eventsHandled.Load(),
		HandlersExecuted:  b.handlersExecuted.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: b.Len(),
		HandlerTime:       ds.TotalDuration,
		AvgHandlerTime:    ds.AvgDuration,
	}
}
