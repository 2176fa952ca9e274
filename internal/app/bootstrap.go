package app

import (
	"bufio"
	"log/slog"
	"os"

	"github.com/dshills/cybus/internal/config"
	"github.com/dshills/cybus/internal/event"
	"github.com/dshills/cybus/internal/logging"
	"github.com/dshills/cybus/internal/plugin/lua"
	"github.com/dshills/cybus/internal/recorder"
)

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	cfg, err := config.Load(app.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.cfg = cfg

	// 2. Logging
	out := app.opts.LogOutput
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return &InitError{Component: "log file", Err: err}
		}
		app.logFile = f
		out = f
	} else {
		// held while the capture screen is active
		app.logHold = logging.NewHoldWriter(out, 0)
		out = app.logHold
	}
	app.logger, app.level = logging.NewLeveled(cfg.Log, out)

	// 3. Event bus
	app.bus = event.NewBus(
		event.WithLogger(logging.WithComponent(app.logger, "bus")),
		event.WithSource("capture"),
	)
	if _, err := app.bus.Subscribe(event.AllEvents(), logging.EventLogger(app.logger),
		event.WithName("event-log"),
		event.WithPriority(event.PriorityLow),
		event.ReceiveHandled(),
	); err != nil {
		return &InitError{Component: "event log", Err: err}
	}

	// 4. Lua listener
	if cfg.Lua.Script != "" {
		l, err := lua.LoadListener(cfg.Lua.Script,
			lua.WithLogger(logging.WithComponent(app.logger, "lua")))
		if err != nil {
			return &InitError{Component: "lua", Err: err}
		}
		app.listener = l
		if _, err := app.bus.Subscribe(event.AllEvents(), l, event.WithName("lua:"+l.Name())); err != nil {
			return &InitError{Component: "lua", Err: err}
		}
	}

	// 5. Recorder
	if cfg.Record.Output != "" {
		f, err := os.Create(cfg.Record.Output)
		if err != nil {
			return &InitError{Component: "recorder", Err: err}
		}
		app.recordFile = f
		app.recordBuf = bufio.NewWriter(f)
		app.recorder = recorder.NewRecorder(app.recordBuf)
		if _, err := app.bus.Subscribe(event.AllEvents(), app.recorder,
			event.WithName("recorder"),
			event.WithPriority(event.PriorityLow),
			event.ReceiveHandled(),
		); err != nil {
			return &InitError{Component: "recorder", Err: err}
		}
	}

	// 6. Config watcher
	if app.opts.Watch && app.opts.ConfigPath != "" {
		w, err := config.NewWatcher(app.opts.ConfigPath, app.reload,
			logging.WithComponent(app.logger, "config"))
		if err != nil {
			return &InitError{Component: "config watcher", Err: err}
		}
		app.watcher = w
	}

	app.logger.Debug("bootstrap complete",
		slog.String("config", app.opts.ConfigPath),
		slog.Int("subscribers", app.bus.Len()))
	return nil
}

// applyOverrides copies non-empty options over cfg.
func (app *Application) applyOverrides(cfg *config.Config) {
	if app.opts.LogLevel != "" {
		cfg.Log.Level = app.opts.LogLevel
	}
	if app.opts.Script != "" {
		cfg.Lua.Script = app.opts.Script
	}
	if app.opts.RecordPath != "" {
		cfg.Record.Output = app.opts.RecordPath
	}
	if app.opts.PlaybackPath != "" {
		cfg.Record.Input = app.opts.PlaybackPath
	}
}

// reload applies a configuration reloaded from disk by the watcher.
func (app *Application) reload(cfg *config.Config) {
	if err := app.applyConfig(cfg); err != nil {
		app.logger.Warn("reloaded config rejected", slog.Any("error", err))
	}
}

// applyConfig validates cfg with the command-line overrides and makes it
// current. Only the log level takes effect on a running session; the rest
// is used by the next Run.
func (app *Application) applyConfig(cfg *config.Config) error {
	app.applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	app.mu.Lock()
	app.cfg = cfg
	app.mu.Unlock()

	app.level.Set(logging.ParseLevel(cfg.Log.Level))
	app.logger.Info("config applied", slog.String("level", cfg.Log.Level))
	return nil
}
