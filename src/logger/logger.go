package logger

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// New builds a structured JSON logger at the given level. Components receive
// it as a constructor argument; there is no package-global instance.
func New(logLevelStr string, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(logLevelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		slog.Warn("Invalid LOG_LEVEL specified, defaulting to INFO", "configuredLevel", logLevelStr)
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				// Format time as RFC3339 for better machine readability
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format(time.RFC3339))
				}
			}
			return a
		},
	}

	return slog.New(slog.NewJSONHandler(w, opts))
}
