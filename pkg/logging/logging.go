// Package logging builds the log/slog loggers used by spendlens.
//
// The CLI calls Setup once with values resolved by pkg/config. Library
// packages never call into this package; they take a *slog.Logger and fall
// back to slog.Default().
package logging

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds logging configuration options.
type Config struct {
	// Level is the minimum log level to output.
	Level slog.Level
	// JSON selects the JSON handler instead of the text one.
	JSON bool
	// Output is the writer to write logs to. Defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig reads LOG_LEVEL and LOG_JSON from the environment.
func DefaultConfig() Config {
	json, _ := strconv.ParseBool(os.Getenv("LOG_JSON"))
	return NewConfig(os.Getenv("LOG_LEVEL"), json)
}

// NewConfig builds a configuration from a level name and output format.
// Levels are DEBUG, INFO, WARN (or WARNING) and ERROR in any case, with an
// optional offset such as "INFO+2". Anything else means INFO.
func NewConfig(level string, json bool) Config {
	return Config{Level: parseLogLevel(level), JSON: json, Output: os.Stderr}
}

func parseLogLevel(level string) slog.Level {
	level = strings.TrimSpace(level)
	if strings.EqualFold(level, "warning") {
		return slog.LevelWarn
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func (c Config) handler() slog.Handler {
	out := c.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: c.Level}
	if c.JSON {
		return slog.NewJSONHandler(out, opts)
	}
	return slog.NewTextHandler(out, opts)
}

// New builds a logger without touching the default one.
func New(cfg Config) *slog.Logger {
	return slog.New(cfg.handler())
}

// Setup builds a logger and installs it as the slog default.
func Setup(cfg Config) *slog.Logger {
	logger := New(cfg)
	slog.SetDefault(logger)
	return logger
}
