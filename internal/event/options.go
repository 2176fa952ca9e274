package event

import "log/slog"

// BusOption configures an event Bus.
type BusOption func(*busConfig)

type busConfig struct {
	// logger receives delivery diagnostics
	logger *slog.Logger

	// panicHandler is called when a handler panics
	panicHandler PanicHandler

	// source is stamped on envelopes created by Publish
	source string
}

func defaultBusConfig() busConfig {
	return busConfig{
		logger: slog.New(slog.DiscardHandler),
		source: "bus",
	}
}

// WithLogger sets the logger used for delivery diagnostics.
func WithLogger(l *slog.Logger) BusOption {
	return func(c *busConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPanicHandler sets the function called when a handler panics.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(c *busConfig) {
		c.panicHandler = h
	}
}

// WithSource sets the source recorded on envelopes created by Publish.
func WithSource(source string) BusOption {
	return func(c *busConfig) {
		if source != "" {
			c.source = source
		}
	}
}
