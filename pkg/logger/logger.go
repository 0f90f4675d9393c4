package logger

import (
	"io"
	"log/slog"
	"strings"
)

// New builds the service logger. Production environments get JSON output,
// everything else the human-readable text handler. Every record carries the
// environment and service name.
func New(w io.Writer, lvl string, addSource bool, environment, service string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(lvl),
		AddSource: addSource,
	}

	var handler slog.Handler
	if strings.ToLower(environment) == "prod" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With(
		slog.String("environment", environment),
		slog.String("service", service),
	)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
