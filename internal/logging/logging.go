// Package logging builds the process logger: structured slog records written
// to a size-rotated file so command output on stdout stays clean.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/runnerr0/smokelog/internal/config"
)

// Options controls where and how much the logger writes.
type Options struct {
	Level      string
	Path       string // empty means stderr, warnings and above unless Verbose
	MaxSizeMB  int
	MaxBackups int
	Verbose    bool // forces debug level
}

// FromConfig derives Options from the loaded configuration.
func FromConfig(cfg *config.Config, verbose bool) (Options, error) {
	path, err := cfg.LogPath()
	if err != nil {
		return Options{}, fmt.Errorf("resolve log path: %w", err)
	}
	return Options{
		Level:      cfg.Logging.Level,
		Path:       path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Verbose:    verbose,
	}, nil
}

// New returns a JSON logger and the closer for its output. The closer must
// be called on shutdown.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level := ParseLevel(opts.Level)
	if opts.Verbose {
		level = slog.LevelDebug
	}

	var out io.WriteCloser
	if opts.Path == "" {
		out = nopCloser{os.Stderr}
		if !opts.Verbose && level < slog.LevelWarn {
			level = slog.LevelWarn
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		out = &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	return slog.New(handler), out, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a config level name to a slog level, defaulting to info.
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

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
