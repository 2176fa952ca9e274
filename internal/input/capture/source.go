package capture

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/cybus/internal/config"
	"github.com/dshills/cybus/internal/event"
)

// Publisher is the part of event.Bus the source needs.
type Publisher interface {
	Publish(ctx context.Context, ev event.Event) (*event.Envelope, error)
}

// Screen is the part of tcell.Screen the source needs.
type Screen interface {
	PollEvent() tcell.Event
	PostEvent(ev tcell.Event) error
	EnableMouse(flags ...tcell.MouseFlags)
	DisableMouse()
}

// Source polls a terminal screen and publishes what it reads.
type Source struct {
	screen     Screen
	translator *Translator
	mouse      bool
	logger     *slog.Logger
}

// NewSource creates a source reading from an initialised screen.
func NewSource(screen Screen, cfg config.MouseConfig, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Source{
		screen:     screen,
		translator: NewTranslator(cfg),
		mouse:      cfg.Enabled,
		logger:     logger,
	}
}

// Run polls the screen until ctx is cancelled, the screen is finalised or
// an unhandled WindowClose ends the session. Handler errors are logged and
// do not stop the loop.
func (s *Source) Run(ctx context.Context, pub Publisher) error {
	if s.mouse {
		s.screen.EnableMouse()
		defer s.screen.DisableMouse()
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			// PollEvent blocks; wake it so the loop sees the cancellation.
			if err := s.screen.PostEvent(tcell.NewEventInterrupt(nil)); err != nil {
				s.logger.Warn("wake poll loop", slog.Any("error", err))
			}
		case <-done:
		}
	}()

	for {
		tev := s.screen.PollEvent()
		if tev == nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		switch e := tev.(type) {
		case *tcell.EventInterrupt:
			continue
		case *tcell.EventKey:
			if e.Key() == tcell.KeyCtrlC {
				if s.closeRequested(ctx, pub) {
					return ErrClosed
				}
				continue
			}
		}

		for _, ev := range s.translator.Translate(tev) {
			if _, err := pub.Publish(ctx, ev); err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
					return ctxErr
				}
				s.logger.Warn("publish failed",
					slog.String("event", ev.String()),
					slog.Any("error", err))
			}
		}
	}
}

// closeRequested publishes WindowClose and reports whether nobody kept
// the session open.
func (s *Source) closeRequested(ctx context.Context, pub Publisher) bool {
	env, err := pub.Publish(ctx, event.NewWindowCloseEvent())
	if err != nil {
		s.logger.Warn("publish failed",
			slog.String("event", "WindowCloseEvent"),
			slog.Any("error", err))
	}
	if env != nil && env.Handled {
		s.logger.Debug("close vetoed by listener")
		return false
	}
	return true
}
