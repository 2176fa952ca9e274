package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func recordingHandler(order *[]string, name string, handle bool) HandlerFunc {
	return func(_ context.Context, env *Envelope) error {
		*order = append(*order, name)
		if handle {
			env.Handled = true
		}
		return nil
	}
}

func TestBus_SubscribeNilHandler(t *testing.T) {
	bus := NewBus()

	if _, err := bus.Subscribe(AllEvents(), nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("Subscribe(nil) error = %v, want ErrNilHandler", err)
	}
	if _, err := bus.SubscribeFunc(AllEvents(), nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("SubscribeFunc(nil) error = %v, want ErrNilHandler", err)
	}
}

func TestBus_PublishInvalid(t *testing.T) {
	bus := NewBus()

	if _, err := bus.Publish(context.Background(), nil); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("Publish(nil) error = %v", err)
	}
	if err := bus.PublishEnvelope(context.Background(), nil); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("PublishEnvelope(nil) error = %v", err)
	}
	if err := bus.PublishEnvelope(context.Background(), &Envelope{}); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("PublishEnvelope(empty) error = %v", err)
	}
}

func TestBus_PriorityOrder(t *testing.T) {
	bus := NewBus()
	var order []string

	bus.SubscribeFunc(AllEvents(), recordingHandler(&order, "low", false), WithPriority(PriorityLow))
	bus.SubscribeFunc(AllEvents(), recordingHandler(&order, "normal-1", false))
	bus.SubscribeFunc(AllEvents(), recordingHandler(&order, "critical", false), WithPriority(PriorityCritical))
	bus.SubscribeFunc(AllEvents(), recordingHandler(&order, "normal-2", false))

	if _, err := bus.Publish(context.Background(), NewMouseMovedEvent(1, 1)); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	want := []string{"critical", "normal-1", "normal-2", "low"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestBus_StopsOnHandled(t *testing.T) {
	bus := NewBus()
	var order []string

	bus.SubscribeFunc(AllEvents(), recordingHandler(&order, "ui", true), WithPriority(PriorityHigh))
	bus.SubscribeFunc(AllEvents(), recordingHandler(&order, "world", false))
	bus.SubscribeFunc(AllEvents(), recordingHandler(&order, "logger", false),
		WithPriority(PriorityLow), ReceiveHandled())

	env, err := bus.Publish(context.Background(), NewMousePressedEvent(0))
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	if !env.Handled {
		t.Error("expected envelope to be handled")
	}
	if len(order) != 2 || order[0] != "ui" || order[1] != "logger" {
		t.Errorf("order = %v, want [ui logger]", order)
	}

	stats := bus.Stats()
	if stats.EventsHandled != 1 || stats.HandlersExecuted != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestBus_PreHandledEnvelope(t *testing.T) {
	bus := NewBus()
	var order []string

	bus.SubscribeFunc(AllEvents(), recordingHandler(&order, "normal", false))
	bus.SubscribeFunc(AllEvents(), recordingHandler(&order, "observer", false), ReceiveHandled())

	env := NewEnvelope(NewMouseMovedEvent(0, 0), "test")
	env.Handled = true
	if err := bus.PublishEnvelope(context.Background(), env); err != nil {
		t.Fatalf("PublishEnvelope error: %v", err)
	}

	if len(order) != 1 || order[0] != "observer" {
		t.Errorf("order = %v, want [observer]", order)
	}
}

func TestBus_FilterByCategory(t *testing.T) {
	bus := NewBus()
	var mouse, keys int

	bus.SubscribeFunc(ByCategory(CategoryMouse), func(context.Context, *Envelope) error {
		mouse++
		return nil
	})
	bus.SubscribeFunc(ByCategory(CategoryKeyboard), func(context.Context, *Envelope) error {
		keys++
		return nil
	})

	ctx := context.Background()
	bus.Publish(ctx, NewMouseMovedEvent(1, 2))
	bus.Publish(ctx, NewMouseScrolledEvent(0, 1))
	bus.Publish(ctx, NewMousePressedEvent(0))
	bus.Publish(ctx, NewMouseReleasedEvent(0))
	bus.Publish(ctx, NewKeyPressedEvent('x', false))
	bus.Publish(ctx, NewWindowResizeEvent(10, 10))

	if mouse != 4 {
		t.Errorf("mouse handler saw %d events, want 4", mouse)
	}
	if keys != 1 {
		t.Errorf("key handler saw %d events, want 1", keys)
	}
}

func TestBus_HandlerErrorContinues(t *testing.T) {
	bus := NewBus()
	want := errors.New("bad handler")
	reached := false

	bus.SubscribeFunc(AllEvents(), func(context.Context, *Envelope) error {
		return want
	}, WithName("failing"))
	bus.SubscribeFunc(AllEvents(), func(context.Context, *Envelope) error {
		reached = true
		return nil
	})

	_, err := bus.Publish(context.Background(), NewMouseMovedEvent(1, 1))
	if !errors.Is(err, want) {
		t.Fatalf("expected wrapped %v, got %v", want, err)
	}

	var herr *HandlerError
	if !errors.As(err, &herr) {
		t.Fatalf("expected *HandlerError, got %T", err)
	}
	if herr.Subscription != "failing" || herr.Type != TypeMouseMoved {
		t.Errorf("unexpected handler error %+v", herr)
	}
	if !reached {
		t.Error("second handler should still run")
	}
	if bus.Stats().HandlerErrors != 1 {
		t.Errorf("HandlerErrors = %d, want 1", bus.Stats().HandlerErrors)
	}
}

func TestBus_HandlerPanicIsolated(t *testing.T) {
	var (
		panicSub   *Subscription
		panicValue any
	)
	bus := NewBus(WithPanicHandler(func(_ *Envelope, sub *Subscription, recovered any) {
		panicSub = sub
		panicValue = recovered
	}))

	sub, _ := bus.SubscribeFunc(AllEvents(), func(context.Context, *Envelope) error {
		panic("boom")
	}, WithName("crasher"))

	reached := false
	bus.SubscribeFunc(AllEvents(), func(context.Context, *Envelope) error {
		reached = true
		return nil
	})

	_, err := bus.Publish(context.Background(), NewMouseReleasedEvent(1))
	if !errors.Is(err, ErrHandlerPanic) {
		t.Fatalf("expected ErrHandlerPanic, got %v", err)
	}

	var perr *PanicError
	if !errors.As(err, &perr) || perr.Value != "boom" || perr.Stack == "" {
		t.Errorf("unexpected panic error %+v", perr)
	}
	if panicSub != sub || panicValue != "boom" {
		t.Errorf("panic handler got (%v, %v)", panicSub, panicValue)
	}
	if !reached {
		t.Error("second handler should still run")
	}
	if bus.Stats().HandlerPanics != 1 {
		t.Errorf("HandlerPanics = %d, want 1", bus.Stats().HandlerPanics)
	}
}

func TestBus_CancelledContext(t *testing.T) {
	bus := NewBus()
	called := false
	bus.SubscribeFunc(AllEvents(), func(context.Context, *Envelope) error {
		called = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bus.Publish(ctx, NewMouseMovedEvent(0, 0))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if err != context.Canceled {
		t.Errorf("cancelled publish should return ctx.Err() unwrapped, got %#v", err)
	}
	if called {
		t.Error("handler should not run with cancelled context")
	}
}

func TestBus_OnceSurvivesCancelledPublish(t *testing.T) {
	bus := NewBus()
	count := 0
	bus.SubscribeFunc(AllEvents(), func(context.Context, *Envelope) error {
		count++
		return nil
	}, Once())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := bus.Publish(ctx, NewMousePressedEvent(1)); err != context.Canceled {
		t.Fatalf("Publish error = %v, want context.Canceled", err)
	}
	if bus.Len() != 1 {
		t.Fatalf("undelivered once subscription was dropped, have %d", bus.Len())
	}

	bus.Publish(context.Background(), NewMousePressedEvent(1))
	if count != 1 {
		t.Errorf("once subscription delivered %d times, want 1", count)
	}
	if bus.Len() != 0 {
		t.Errorf("once subscription should be pruned after delivery, have %d", bus.Len())
	}
}

func TestBus_CancelledAfterFailure(t *testing.T) {
	bus := NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	failure := errors.New("failure")
	bus.SubscribeFunc(AllEvents(), func(context.Context, *Envelope) error {
		cancel()
		return failure
	})
	bus.SubscribeFunc(AllEvents(), func(context.Context, *Envelope) error {
		t.Error("second handler should not run after cancellation")
		return nil
	})

	_, err := bus.Publish(ctx, NewMouseMovedEvent(0, 0))
	if !errors.Is(err, failure) || !errors.Is(err, context.Canceled) {
		t.Errorf("expected handler failure joined with context.Canceled, got %v", err)
	}
}

func TestBus_StatsHandlerTime(t *testing.T) {
	bus := NewBus()
	bus.SubscribeFunc(AllEvents(), func(context.Context, *Envelope) error {
		time.Sleep(time.Millisecond)
		return nil
	})

	bus.Publish(context.Background(), NewMouseMovedEvent(0, 0))
	bus.Publish(context.Background(), NewMouseMovedEvent(1, 1))

	stats := bus.Stats()
	if stats.HandlersExecuted != 2 {
		t.Errorf("HandlersExecuted = %d, want 2", stats.HandlersExecuted)
	}
	if stats.HandlerTime < 2*time.Millisecond {
		t.Errorf("HandlerTime = %v, want at least 2ms", stats.HandlerTime)
	}
	if stats.AvgHandlerTime < time.Millisecond {
		t.Errorf("AvgHandlerTime = %v, want at least 1ms", stats.AvgHandlerTime)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	count := 0
	sub, _ := bus.SubscribeFunc(AllEvents(), func(context.Context, *Envelope) error {
		count++
		return nil
	})

	bus.Publish(context.Background(), NewMouseMovedEvent(0, 0))
	if err := bus.Unsubscribe(sub); err != nil {
		t.Fatalf("Unsubscribe error: %v", err)
	}
	bus.Publish(context.Background(), NewMouseMovedEvent(0, 0))

	if count != 1 {
		t.Errorf("handler ran %d times, want 1", count)
	}
	if sub.State() != SubscriptionStateCancelled {
		t.Errorf("state = %v, want cancelled", sub.State())
	}
	if err := bus.Unsubscribe(sub); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("second Unsubscribe error = %v", err)
	}
	if err := bus.Unsubscribe(nil); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("Unsubscribe(nil) error = %v", err)
	}
}

func TestBus_PauseResume(t *testing.T) {
	bus := NewBus()
	count := 0
	sub, _ := bus.SubscribeFunc(AllEvents(), func(context.Context, *Envelope) error {
		count++
		return nil
	})

	sub.Pause()
	bus.Publish(context.Background(), NewMouseMovedEvent(0, 0))
	sub.Resume()
	bus.Publish(context.Background(), NewMouseMovedEvent(0, 0))

	if count != 1 {
		t.Errorf("handler ran %d times, want 1", count)
	}
	if !sub.IsActive() {
		t.Error("subscription should be active after Resume")
	}
}

func TestBus_Once(t *testing.T) {
	bus := NewBus()
	count := 0
	bus.SubscribeFunc(ByType(TypeMouseButtonPressed), func(context.Context, *Envelope) error {
		count++
		return nil
	}, Once())

	bus.Publish(context.Background(), NewMouseMovedEvent(0, 0))
	bus.Publish(context.Background(), NewMousePressedEvent(0))
	bus.Publish(context.Background(), NewMousePressedEvent(0))

	if count != 1 {
		t.Errorf("handler ran %d times, want 1", count)
	}
	if bus.Len() != 0 {
		t.Errorf("once subscription should be pruned, have %d", bus.Len())
	}
}

func TestBus_ConcurrentSubscribe(t *testing.T) {
	bus := NewBus()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.SubscribeFunc(AllEvents(), func(context.Context, *Envelope) error { return nil })
		}()
	}
	wg.Wait()

	if bus.Len() != 50 {
		t.Errorf("Len() = %d, want 50", bus.Len())
	}
	if bus.Stats().ActiveSubscribers != 50 {
		t.Errorf("ActiveSubscribers = %d, want 50", bus.Stats().ActiveSubscribers)
	}
}
