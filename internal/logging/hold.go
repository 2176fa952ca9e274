package logging

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// DefaultHoldLimit caps the bytes a HoldWriter buffers while held.
const DefaultHoldLimit = 4 << 20

// HoldWriter passes writes through to an underlying writer until Hold is
// called. While held, writes are buffered up to a limit and written out by
// Release. It lets a terminal UI own the screen without log lines drawn
// over it.
type HoldWriter struct {
	mu      sync.Mutex
	w       io.Writer
	buf     bytes.Buffer
	limit   int
	held    bool
	dropped int
}

// NewHoldWriter wraps w. A limit of zero or less uses DefaultHoldLimit.
func NewHoldWriter(w io.Writer, limit int) *HoldWriter {
	if limit <= 0 {
		limit = DefaultHoldLimit
	}
	return &HoldWriter{w: w, limit: limit}
}

// Write implements io.Writer. Writes that arrive while held and would
// exceed the limit are counted and discarded whole.
func (h *HoldWriter) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.held {
		return h.w.Write(p)
	}
	if h.buf.Len()+len(p) > h.limit {
		h.dropped++
		return len(p), nil
	}
	return h.buf.Write(p)
}

// Hold starts buffering.
func (h *HoldWriter) Hold() {
	h.mu.Lock()
	h.held = true
	h.mu.Unlock()
}

// Release writes out everything buffered and resumes pass-through.
func (h *HoldWriter) Release() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.held {
		return nil
	}
	h.held = false

	_, err := h.buf.WriteTo(h.w)
	h.buf.Reset()
	if h.dropped > 0 && err == nil {
		_, err = fmt.Fprintf(h.w, "(%d log writes dropped while the screen was active)\n", h.dropped)
	}
	h.dropped = 0
	return err
}
