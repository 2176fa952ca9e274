// Package app wires configuration, logging, the event bus, listeners and
// an input source into a running cybus session.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/cybus/internal/config"
	"github.com/dshills/cybus/internal/event"
	"github.com/dshills/cybus/internal/input/capture"
	"github.com/dshills/cybus/internal/logging"
	"github.com/dshills/cybus/internal/plugin/lua"
	"github.com/dshills/cybus/internal/recorder"
)

// Screen is the terminal the capture source reads from.
type Screen interface {
	capture.Screen
	Init() error
	Fini()
}

// Options configures the application. Non-empty fields override the
// configuration file.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// LogLevel sets the logging verbosity.
	LogLevel string

	// Script is a Lua listener script.
	Script string

	// RecordPath receives a transcript of every published event.
	RecordPath string

	// PlaybackPath replays a transcript instead of reading the terminal.
	PlaybackPath string

	// Watch reloads the configuration file when it changes.
	Watch bool

	// LogOutput receives log output when the configuration names no log
	// file. Defaults to stderr.
	LogOutput io.Writer

	// NewScreen creates the terminal screen. Defaults to tcell.NewScreen.
	NewScreen func() (Screen, error)
}

// Application owns every component of a session.
type Application struct {
	opts Options

	mu     sync.Mutex
	cfg    *config.Config
	closed bool

	logger *slog.Logger
	level  *slog.LevelVar
	bus    *event.Bus

	listener   *lua.Listener
	recorder   *recorder.Recorder
	recordFile *os.File
	recordBuf  *bufio.Writer
	logFile    *os.File
	logHold    *logging.HoldWriter
	watcher    *config.Watcher
}

// New loads the configuration and starts every configured component.
func New(opts Options) (*Application, error) {
	if opts.NewScreen == nil {
		opts.NewScreen = defaultScreen
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func defaultScreen() (Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.cfg
}

// Bus returns the application's event bus.
func (app *Application) Bus() *event.Bus {
	return app.bus
}

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger {
	return app.logger
}

// Run replays the configured transcript, or captures the terminal until
// ctx is cancelled or the user closes the session. A closed session
// returns ErrQuit.
func (app *Application) Run(ctx context.Context) error {
	app.mu.Lock()
	closed := app.closed
	cfg := app.cfg
	app.mu.Unlock()
	if closed {
		return ErrClosed
	}

	if cfg.Record.Input != "" {
		return app.playback(ctx, cfg.Record.Input)
	}
	return app.capture(ctx, cfg.Mouse)
}

func (app *Application) playback(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening transcript: %w", err)
	}
	defer f.Close()

	n, err := recorder.Playback(ctx, f, app.bus)
	app.logger.Info("playback finished", slog.String("file", path), slog.Int("events", n))
	if err != nil {
		return fmt.Errorf("playback %s: %w", path, err)
	}
	return nil
}

func (app *Application) capture(ctx context.Context, mouse config.MouseConfig) error {
	screen, err := app.opts.NewScreen()
	if err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	if err := screen.Init(); err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	if app.logHold != nil {
		app.logHold.Hold()
	}
	defer func() {
		screen.Fini()
		if app.logHold != nil {
			_ = app.logHold.Release()
		}
	}()

	app.logger.Info("capture started", slog.Bool("mouse", mouse.Enabled))

	src := capture.NewSource(screen, mouse, app.logger.With(slog.String("component", "capture")))
	err = src.Run(ctx, app.bus)
	switch {
	case errors.Is(err, capture.ErrClosed):
		return ErrQuit
	case err != nil:
		return err
	}
	return nil
}

// Reload rereads the configuration file now. With a watcher running, the
// reload goes through it.
func (app *Application) Reload() error {
	app.mu.Lock()
	closed := app.closed
	app.mu.Unlock()
	if closed {
		return ErrClosed
	}

	if app.watcher != nil {
		return app.watcher.Reload()
	}
	cfg, err := config.Load(app.opts.ConfigPath)
	if err != nil {
		return err
	}
	return app.applyConfig(cfg)
}

// Close stops the watcher, releases the Lua state and flushes the
// transcript. It is safe to call more than once.
func (app *Application) Close() error {
	app.mu.Lock()
	if app.closed {
		app.mu.Unlock()
		return nil
	}
	app.closed = true
	app.mu.Unlock()

	var errs []error
	if app.watcher != nil {
		errs = append(errs, app.watcher.Close())
	}
	if app.listener != nil {
		errs = append(errs, app.listener.Close())
	}
	if app.recordBuf != nil {
		errs = append(errs, app.recordBuf.Flush())
	}
	if app.recordFile != nil {
		errs = append(errs, app.recordFile.Close())
	}
	if app.logger != nil && app.bus != nil {
		stats := app.bus.Stats()
		app.logger.Info("session closed",
			slog.Uint64("published", stats.EventsPublished),
			slog.Uint64("handled", stats.EventsHandled),
			slog.Uint64("errors", stats.HandlerErrors),
			slog.Uint64("panics", stats.HandlerPanics),
			slog.Duration("handler_time", stats.HandlerTime),
			slog.Duration("avg_handler_time", stats.AvgHandlerTime))
	}
	if app.logFile != nil {
		errs = append(errs, app.logFile.Close())
	}
	return errors.Join(errs...)
}
