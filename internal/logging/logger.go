// Package logging provides structured logging configuration using log/slog.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup configures the global slog logger based on level and format.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
//
// Use "json" format when the importer runs under a scheduler that ships
// logs somewhere machine-parsed; "text" for interactive runs.
func Setup(level, format string) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// With returns a logger carrying consistent fields through a multi-step
// operation.
//
// Usage:
//
//	log := logging.With("database", def.Database, "table", def.Table)
//	log.Info("import started")
func With(args ...any) *slog.Logger {
	return slog.Default().With(args...)
}
