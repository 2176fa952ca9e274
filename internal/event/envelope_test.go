package event

import (
	"context"
	"errors"
	"testing"
)

func TestNewEnvelope(t *testing.T) {
	env := NewEnvelope(NewMousePressedEvent(1), "capture")

	if env.Handled {
		t.Error("new envelope should not be handled")
	}
	if env.ID == "" {
		t.Error("expected non-empty ID")
	}
	if env.Timestamp.IsZero() {
		t.Error("expected non-zero timestamp")
	}
	if env.Source != "capture" {
		t.Errorf("Source = %q, want capture", env.Source)
	}

	other := NewEnvelope(NewMousePressedEvent(1), "capture")
	if other.ID == env.ID {
		t.Error("envelope IDs should be unique")
	}
}

func TestEnvelope_StringNil(t *testing.T) {
	var env *Envelope
	if env.String() != "<nil>" {
		t.Errorf("nil envelope String() = %q", env.String())
	}
	if (&Envelope{}).String() != "<nil>" {
		t.Error("empty envelope should render <nil>")
	}
}

func TestDispatch_MatchingType(t *testing.T) {
	env := NewEnvelope(NewMouseScrolledEvent(0, 1), "test")

	var got float32
	called := Dispatch(env, func(e MouseScrolledEvent) bool {
		got = e.YOffset()
		return true
	})

	if !called {
		t.Fatal("expected Dispatch to call fn")
	}
	if got != 1 {
		t.Errorf("YOffset = %v, want 1", got)
	}
	if !env.Handled {
		t.Error("expected envelope to be handled")
	}
}

func TestDispatch_OtherType(t *testing.T) {
	env := NewEnvelope(NewMouseMovedEvent(1, 1), "test")

	called := Dispatch(env, func(MousePressedEvent) bool {
		t.Error("fn should not be called for a different type")
		return true
	})

	if called {
		t.Error("expected Dispatch to report no match")
	}
	if env.Handled {
		t.Error("envelope should not be handled")
	}
}

func TestDispatch_HandledIsSticky(t *testing.T) {
	env := NewEnvelope(NewMouseReleasedEvent(2), "test")
	env.Handled = true

	Dispatch(env, func(MouseReleasedEvent) bool { return false })

	if !env.Handled {
		t.Error("a handled envelope should stay handled")
	}
}

func TestDispatch_Nil(t *testing.T) {
	if Dispatch(nil, func(MouseMovedEvent) bool { return true }) {
		t.Error("nil envelope should not dispatch")
	}
	if Dispatch(&Envelope{}, func(MouseMovedEvent) bool { return true }) {
		t.Error("empty envelope should not dispatch")
	}
}

func TestTypedHandler(t *testing.T) {
	want := errors.New("nope")
	h := TypedHandler(func(_ context.Context, e MousePressedEvent) (bool, error) {
		if e.Code() == 9 {
			return false, want
		}
		return e.Code() == 0, nil
	})

	env := NewEnvelope(NewMousePressedEvent(0), "test")
	if err := h.Handle(context.Background(), env); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !env.Handled {
		t.Error("expected left button press to be handled")
	}

	env = NewEnvelope(NewMousePressedEvent(9), "test")
	if err := h.Handle(context.Background(), env); !errors.Is(err, want) {
		t.Errorf("expected %v, got %v", want, err)
	}

	env = NewEnvelope(NewMouseMovedEvent(0, 0), "test")
	if err := h.Handle(context.Background(), env); err != nil || env.Handled {
		t.Errorf("other event types should pass through, got %v handled=%v", err, env.Handled)
	}
}
