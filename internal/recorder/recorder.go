package recorder

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/dshills/cybus/internal/event"
)

// Recorder is an event.Handler that appends each delivered event to a
// transcript. Subscribe it with event.ReceiveHandled so it records every
// event, handled or not.
type Recorder struct {
	mu    sync.Mutex
	w     io.Writer
	count atomic.Uint64
}

// NewRecorder creates a recorder writing to w. The caller owns w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w}
}

// Handle writes env as one line. It never marks env handled.
func (r *Recorder) Handle(_ context.Context, env *event.Envelope) error {
	line, err := Encode(env)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.w.Write(line); err != nil {
		return fmt.Errorf("recording %s: %w", env.Event.Type(), err)
	}
	r.count.Add(1)
	return nil
}

// Count returns the number of events written.
func (r *Recorder) Count() uint64 {
	return r.count.Load()
}
