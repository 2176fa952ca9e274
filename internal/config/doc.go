// Package config loads cybus configuration from a TOML file.
//
// Configuration is read in three steps: built-in defaults, the TOML file
// (if present), then CYBUS_* environment variables:
//
//	cfg, err := config.Load("cybus.toml")
//	if err != nil {
//	    return err
//	}
//
// A missing file is not an error. Unknown keys and malformed TOML are
// reported as *ParseError; out-of-range values wrap ErrInvalidConfig.
//
// # File format
//
//	[log]
//	level = "debug"      # debug, info, warn, error
//	format = "json"      # text or json
//	file = "cybus.log"   # empty logs to stderr
//
//	[mouse]
//	enabled = true
//	report_motion = true
//	scroll_scale = 1.0
//
//	[lua]
//	script = "listeners/game.lua"
//
//	[record]
//	output = "session.jsonl"
//	input = ""
//
// # Live reload
//
// Watcher reloads the file when it changes on disk and hands the new
// configuration to a callback. Reloads that fail to parse or validate are
// logged and skipped, so the last good configuration stays in effect.
package config
