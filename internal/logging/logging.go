package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	EnvLogLevel  = "ANTREMOTE_LOG_LEVEL"
	EnvLogFormat = "ANTREMOTE_LOG_FORMAT"
)

type Options struct {
	Level  string
	Format string
}

// Configure installs the default slog logger writing to stderr. Environment
// variables override opts.
func Configure(opts Options) *slog.Logger {
	return ConfigureWriter(os.Stderr, opts)
}

func ConfigureWriter(w io.Writer, opts Options) *slog.Logger {
	applyEnvOverrides(&opts)

	level, ok := ParseLevel(opts.Level)
	if !ok {
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(opts.Format) {
	case "json":
		h = slog.NewJSONHandler(w, handlerOpts)
	default:
		h = slog.NewTextHandler(w, handlerOpts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func applyEnvOverrides(opts *Options) {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		opts.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		opts.Format = v
	}
}

// ParseLevel maps a level name to a slog level. The empty string is info.
func ParseLevel(raw string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "info":
		return slog.LevelInfo, true
	case "debug", "trace":
		return slog.LevelDebug, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
