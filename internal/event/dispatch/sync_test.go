package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"
)

type handlerFunc[E any] func(ctx context.Context, ev E) error

func (f handlerFunc[E]) Handle(ctx context.Context, ev E) error { return f(ctx, ev) }

func TestResult_IsSuccess(t *testing.T) {
	tests := []struct {
		name     string
		result   Result
		expected bool
	}{
		{"success", Result{Success: true}, true},
		{"error", Result{Error: errors.New("error")}, false},
		{"panic", Result{Panicked: true}, false},
		{"skipped", Result{Skipped: true, Error: context.Canceled}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.IsSuccess(); got != tt.expected {
				t.Errorf("IsSuccess() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestResult_IsError(t *testing.T) {
	tests := []struct {
		name     string
		result   Result
		expected bool
	}{
		{"success", Result{Success: true}, false},
		{"error", Result{Error: errors.New("error")}, true},
		{"panic", Result{Panicked: true, PanicValue: "boom"}, false},
		{"skipped", Result{Skipped: true, Error: context.Canceled}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.IsError(); got != tt.expected {
				t.Errorf("IsError() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSyncDispatcher_Success(t *testing.T) {
	d := NewSyncDispatcher[int]()

	var got int
	res := d.Dispatch(context.Background(), 42, handlerFunc[int](func(_ context.Context, v int) error {
		got = v
		return nil
	}))

	if !res.IsSuccess() {
		t.Fatalf("expected success, got %+v", res)
	}
	if got != 42 {
		t.Errorf("handler received %d, want 42", got)
	}

	stats := d.Stats()
	if stats.Dispatched != 1 || stats.Succeeded != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestSyncDispatcher_Error(t *testing.T) {
	d := NewSyncDispatcher[string]()
	want := errors.New("failed")

	res := d.Dispatch(context.Background(), "x", handlerFunc[string](func(context.Context, string) error {
		return want
	}))

	if !errors.Is(res.Error, want) {
		t.Errorf("expected %v, got %v", want, res.Error)
	}
	if !res.IsError() {
		t.Error("expected IsError")
	}
	if d.Stats().Failed != 1 {
		t.Errorf("expected 1 failure, got %d", d.Stats().Failed)
	}
}

func TestSyncDispatcher_Panic(t *testing.T) {
	d := NewSyncDispatcher[string]()

	res := d.Dispatch(context.Background(), "ev", handlerFunc[string](func(context.Context, string) error {
		panic("boom")
	}))

	if !res.IsPanic() {
		t.Fatal("expected panic result")
	}
	if res.PanicValue != "boom" {
		t.Errorf("PanicValue = %v, want boom", res.PanicValue)
	}
	if len(res.PanicStack) == 0 {
		t.Error("expected a stack trace")
	}
	if d.Stats().Panicked != 1 {
		t.Errorf("expected 1 panic, got %d", d.Stats().Panicked)
	}
}

func TestSyncDispatcher_CancelledContext(t *testing.T) {
	d := NewSyncDispatcher[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	res := d.Dispatch(ctx, 1, handlerFunc[int](func(context.Context, int) error {
		called = true
		return nil
	}))

	if called {
		t.Error("handler should not run with cancelled context")
	}
	if !res.Skipped || !errors.Is(res.Error, context.Canceled) {
		t.Errorf("expected skipped with context.Canceled, got %+v", res)
	}
	if d.Stats().Skipped != 1 {
		t.Errorf("expected 1 skipped, got %d", d.Stats().Skipped)
	}
}

func TestSyncDispatcher_Durations(t *testing.T) {
	d := NewSyncDispatcher[int]()
	h := handlerFunc[int](func(context.Context, int) error {
		time.Sleep(time.Millisecond)
		return nil
	})
	for i := 0; i < 3; i++ {
		d.Dispatch(context.Background(), i, h)
	}

	stats := d.Stats()
	if stats.Dispatched != 3 || stats.Succeeded != 3 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.TotalDuration < 3*time.Millisecond {
		t.Errorf("TotalDuration = %v, want at least 3ms", stats.TotalDuration)
	}
	if stats.AvgDuration < time.Millisecond || stats.AvgDuration > stats.TotalDuration {
		t.Errorf("AvgDuration = %v out of range", stats.AvgDuration)
	}
}
