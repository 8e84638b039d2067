package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fugevet/fintrack/pkg/logger"
)

// maxDetailBytes caps how much of an error body is kept for the log line.
const maxDetailBytes = 4 << 10

// detailRecorder keeps the head of 4xx/5xx bodies so the access log can
// report the "detail" message.
type detailRecorder struct {
	chimiddleware.WrapResponseWriter
	body []byte
}

func (d *detailRecorder) Write(b []byte) (int, error) {
	if d.Status() >= http.StatusBadRequest {
		if room := maxDetailBytes - len(d.body); room > 0 {
			d.body = append(d.body, b[:min(room, len(b))]...)
		}
	}
	return d.WrapResponseWriter.Write(b)
}

// extractErrorMessage pulls a string "detail" out of a JSON error body.
// Validation lists are reported by their length.
func extractErrorMessage(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(body, &envelope) != nil || len(envelope.Detail) == 0 {
		return ""
	}
	var msg string
	if json.Unmarshal(envelope.Detail, &msg) == nil {
		return msg
	}
	var items []json.RawMessage
	if json.Unmarshal(envelope.Detail, &items) == nil {
		return fmt.Sprintf("%d validation errors", len(items))
	}
	return ""
}

func accessLevel(path string, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	case strings.HasPrefix(path, "/health"):
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Logger returns a request logging middleware
func Logger(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &detailRecorder{WrapResponseWriter: chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)}
			start := time.Now()

			if id := chimiddleware.GetReqID(r.Context()); id != "" {
				r = r.WithContext(context.WithValue(r.Context(), logger.RequestIDKey, id))
			}

			next.ServeHTTP(rec, r)

			status := rec.Status()
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", rec.BytesWritten(),
				"remote_addr", r.RemoteAddr,
			}
			if msg := extractErrorMessage(rec.body); msg != "" {
				attrs = append(attrs, "error", msg)
			}

			log.WithContext(r.Context()).
				WithDuration(time.Since(start)).
				Log(r.Context(), accessLevel(r.URL.Path, status), "http request", attrs...)
		})
	}
}
