package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config is the complete cybus configuration.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Mouse  MouseConfig  `toml:"mouse"`
	Lua    LuaConfig    `toml:"lua"`
	Record RecordConfig `toml:"record"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level"`
	// Format is text or json.
	Format string `toml:"format"`
	// File receives log output. Empty means stderr.
	File string `toml:"file"`
}

// MouseConfig configures terminal mouse capture.
type MouseConfig struct {
	// Enabled turns on terminal mouse reporting.
	Enabled bool `toml:"enabled"`
	// ReportMotion emits MouseMoved events when the pointer moves.
	ReportMotion bool `toml:"report_motion"`
	// ScrollScale multiplies wheel offsets. Negative values invert scrolling.
	ScrollScale float64 `toml:"scroll_scale"`
}

// LuaConfig configures the scripted listener.
type LuaConfig struct {
	// Script is the path of a Lua file defining on_event. Empty disables it.
	Script string `toml:"script"`
}

// RecordConfig configures event recording and playback.
type RecordConfig struct {
	// Output is a JSON-lines file that receives every published event.
	Output string `toml:"output"`
	// Input is a JSON-lines file replayed instead of capturing the terminal.
	Input string `toml:"input"`
}

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: FormatText,
		},
		Mouse: MouseConfig{
			Enabled:      true,
			ReportMotion: true,
			ScrollScale:  1,
		},
	}
}

// Validate checks every setting and returns the first failure.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid("log.level", "unknown level %q", c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case FormatText, FormatJSON:
	default:
		return invalid("log.format", "unknown format %q", c.Log.Format)
	}

	s := c.Mouse.ScrollScale
	if s == 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return invalid("mouse.scroll_scale", "must be a finite non-zero number, got %v", s)
	}
	if math.Abs(s) > math.MaxFloat32 {
		return invalid("mouse.scroll_scale", "%v overflows float32", s)
	}

	if c.Record.Output != "" && c.Record.Output == c.Record.Input {
		return invalid("record.output", "cannot record to the playback file %q", c.Record.Input)
	}

	return nil
}

// Load reads the configuration at path on top of the defaults, then applies
// environment overrides and validates the result. An empty path or a
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := decode(path, bytes.NewReader(data), cfg); err != nil {
				return nil, err
			}
		}
	}

	applyEnv(cfg, os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader parses TOML from r on top of the defaults. Environment
// overrides are not applied.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := decode("<reader>", r, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode parses TOML from r into cfg, rejecting unknown keys.
func decode(source string, r io.Reader, cfg *Config) error {
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}

		var derr *toml.DecodeError
		var serr *toml.StrictMissingError
		switch {
		case errors.As(err, &derr):
			perr.Line, perr.Column = derr.Position()
		case errors.As(err, &serr) && len(serr.Errors) > 0:
			perr.Line, perr.Column = serr.Errors[0].Position()
			perr.Message = "unknown key " + strings.Join(serr.Errors[0].Key(), ".")
		}
		return perr
	}
	return nil
}

// envOverrides maps environment variables to the settings they replace.
var envOverrides = map[string]func(*Config, string){
	"CYBUS_LOG_LEVEL":  func(c *Config, v string) { c.Log.Level = v },
	"CYBUS_LOG_FORMAT": func(c *Config, v string) { c.Log.Format = v },
	"CYBUS_LUA_SCRIPT": func(c *Config, v string) { c.Lua.Script = v },
}

// applyEnv applies environment overrides. Empty values are treated as set.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	for name, set := range envOverrides {
		if v, ok := lookup(name); ok {
			set(cfg, v)
		}
	}
}
