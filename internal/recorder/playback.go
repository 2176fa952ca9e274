package recorder

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dshills/cybus/internal/event"
)

// maxLine bounds a single transcript line.
const maxLine = 1 << 20

// Source is stamped on envelopes published by Playback.
const Source = "playback"

// Publisher is the part of event.Bus playback needs.
type Publisher interface {
	PublishEnvelope(ctx context.Context, env *event.Envelope) error
}

// Playback publishes every event in the transcript r, in order, and returns
// how many were published. Blank lines are skipped. A line that fails to
// decode stops playback with an error wrapping ErrBadRecord. Handler errors
// do not stop playback; they are joined into the returned error.
func Playback(ctx context.Context, r io.Reader, pub Publisher) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLine)

	var (
		n      int
		lineNo int
		errs   []error
	)
	for sc.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return n, err
		}

		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		ev, err := Decode(line)
		if err != nil {
			return n, errors.Join(append(errs, fmt.Errorf("line %d: %w", lineNo, err))...)
		}

		err = pub.PublishEnvelope(ctx, event.NewEnvelope(ev, Source))
		n++
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return n, ctxErr
			}
			errs = append(errs, fmt.Errorf("line %d: %w", lineNo, err))
		}
	}

	if err := sc.Err(); err != nil {
		errs = append(errs, fmt.Errorf("reading transcript: %w", err))
	}
	return n, errors.Join(errs...)
}
