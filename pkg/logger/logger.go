package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// contextKey is a typed key for context values to avoid collisions.
type contextKey string

const (
	// RequestIDKey is the context key for request ID.
	RequestIDKey contextKey = "request_id"
	// UserIDKey is the context key for the numeric user ID of the caller.
	UserIDKey contextKey = "user_id"
)

// Logger is a structured logger wrapper around slog
type Logger struct {
	*slog.Logger
}

// New creates a logger for env, honoring LOG_FORMAT and LOG_LEVEL
func New(env string, output io.Writer) *Logger {
	level, ok := ParseLevel(os.Getenv("LOG_LEVEL"))
	if !ok {
		level = levelFor(env)
	}
	return NewWithLevel(env, os.Getenv("LOG_FORMAT"), level, output)
}

// NewWithFormat creates a logger with an explicit format ("json" or "text")
func NewWithFormat(env, logFormat string, output io.Writer) *Logger {
	return NewWithLevel(env, logFormat, levelFor(env), output)
}

// NewWithLevel creates a logger with an explicit minimum level. The CLI uses
// it to stay quiet unless -v is passed, and omits source locations.
func NewWithLevel(env, logFormat string, level slog.Level, output io.Writer) *Logger {
	opts := &slog.HandlerOptions{
		Level:       level,
		AddSource:   env != "cli",
		ReplaceAttr: compactAttrs,
	}

	var handler slog.Handler
	if env == "production" || strings.EqualFold(logFormat, "json") {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}
	return &Logger{Logger: slog.New(handler)}
}

// compactAttrs renders time as RFC3339 and source as file:line
func compactAttrs(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.Format(time.RFC3339))
		}
	case slog.SourceKey:
		if src, ok := a.Value.Any().(*slog.Source); ok {
			a.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
		}
	}
	return a
}

// ParseLevel maps debug/info/warn/error to a slog level
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

func levelFor(env string) slog.Level {
	if env == "production" {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithContext adds the request id and user id found in ctx
func (l *Logger) WithContext(ctx context.Context) *Logger {
	var attrs []any
	for _, key := range []contextKey{RequestIDKey, UserIDKey} {
		if v := ctx.Value(key); v != nil {
			attrs = append(attrs, string(key), v)
		}
	}
	if len(attrs) == 0 {
		return l
	}
	return &Logger{Logger: l.With(attrs...)}
}

// WithField returns a logger with one extra field
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{Logger: l.With(key, value)}
}

// WithComponent tags every record with component=name
func (l *Logger) WithComponent(name string) *Logger {
	return l.WithField("component", name)
}

// WithError adds an error field. A nil error adds nothing.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

// WithDuration adds a duration_ms field
func (l *Logger) WithDuration(d time.Duration) *Logger {
	return l.WithField("duration_ms", d.Milliseconds())
}
