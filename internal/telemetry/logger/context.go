package logger

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

type contextKey string

const (
	loggerKey    contextKey = "subtrack.logger"
	captureIDKey contextKey = "subtrack.capture_id"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// NewCaptureID returns a new lexicographically sortable capture ID.
func NewCaptureID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), ulid.Monotonic(rand.Reader, 0)).String()
}

// WithCaptureID adds a capture ID to the context.
func WithCaptureID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, captureIDKey, id)
}

// CaptureIDFromContext extracts the capture ID from context.
func CaptureIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(captureIDKey).(string); ok {
		return id
	}
	return ""
}

// L is a shorthand for FromContext that also enriches the logger with the
// capture ID from the context.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)
	if id := CaptureIDFromContext(ctx); id != "" {
		l = l.With("capture_id", id)
	}
	return l
}
