// Package logging builds the process logger and the event-logging listener.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dshills/cybus/internal/config"
	"github.com/dshills/cybus/internal/event"
)

// ParseLevel parses a level name. Unknown names map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a logger writing to w in the configured format and level.
// A nil w writes to stderr.
func New(cfg config.LogConfig, w io.Writer) *slog.Logger {
	l, _ := NewLeveled(cfg, w)
	return l
}

// NewLeveled is New but also returns the level variable, so the level can
// be changed while the logger is in use.
func NewLeveled(cfg config.LogConfig, w io.Writer) (*slog.Logger, *slog.LevelVar) {
	if w == nil {
		w = os.Stderr
	}
	level := new(slog.LevelVar)
	level.Set(ParseLevel(cfg.Level))
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, config.FormatJSON) {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h), level
}

// WithComponent returns a logger tagged with the component name.
func WithComponent(l *slog.Logger, component string) *slog.Logger {
	return l.With(slog.String("component", component))
}

// EventLogger returns a handler that logs every delivered event at debug
// level. It never marks events handled. Subscribe it with
// event.ReceiveHandled and event.PriorityLow so it sees the final state.
func EventLogger(l *slog.Logger) event.Handler {
	return event.HandlerFunc(func(ctx context.Context, env *event.Envelope) error {
		if !l.Enabled(ctx, slog.LevelDebug) {
			return nil
		}
		l.LogAttrs(ctx, slog.LevelDebug, env.Event.String(),
			slog.String("type", env.Event.Type().String()),
			slog.String("category", env.Event.Category().String()),
			slog.Bool("handled", env.Handled),
			slog.String("id", env.ID),
			slog.String("source", env.Source))
		return nil
	})
}
