// Package main is the entry point for the cybus input monitor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/cybus/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, code, ok := parseFlags(os.Args[1:])
	if !ok {
		return code
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				if err := application.Reload(); err != nil {
					application.Logger().Warn("reload failed", "error", err)
				}
			}
		}
	}()

	if err := application.Run(ctx); err != nil {
		if errors.Is(err, app.ErrQuit) || errors.Is(err, context.Canceled) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

// parseFlags parses args into options. When the program should exit without
// running it reports false along with the exit code: 0 for -help and
// -version, 2 for bad flags.
func parseFlags(args []string) (app.Options, int, bool) {
	var opts app.Options
	var showVersion bool

	fs := flag.NewFlagSet("cybus", flag.ContinueOnError)
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.Script, "script", "", "Lua listener script")
	fs.StringVar(&opts.RecordPath, "record", "", "Write a transcript of every event to this file")
	fs.StringVar(&opts.PlaybackPath, "playback", "", "Replay a transcript instead of reading the terminal")
	fs.BoolVar(&opts.Watch, "watch", false, "Reload the configuration file when it changes")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "cybus - terminal input event monitor\n\n")
		fmt.Fprintf(fs.Output(), "Usage: cybus [options]\n\n")
		fmt.Fprintf(fs.Output(), "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(fs.Output(), "\nExamples:\n")
		fmt.Fprintf(fs.Output(), "  cybus -log-level debug            Log every event\n")
		fmt.Fprintf(fs.Output(), "  cybus -record session.jsonl       Record a session\n")
		fmt.Fprintf(fs.Output(), "  cybus -playback session.jsonl     Replay it through the listeners\n")
		fmt.Fprintf(fs.Output(), "  cybus -script listeners/game.lua  Handle events in Lua\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, 0, false
		}
		return opts, 2, false
	}

	if showVersion {
		fmt.Printf("cybus %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return opts, 0, false
	}

	return opts, 0, true
}
