package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger is what capture, storage and the chain client log through.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// Config mirrors the log section of the subtrack configuration.
type Config struct {
	Level  string    // debug, info, warn, error; empty means info
	Format string    // text or json; empty means text
	Output io.Writer // nil means os.Stderr
}

// DefaultConfig keeps stdout free for reports: text at info level on stderr.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "text",
		Output: os.Stderr,
	}
}

type slogLogger struct {
	l *slog.Logger
}

// New builds a redacting slog-backed logger. Unknown levels and formats are
// rejected rather than silently mapped to a default.
func New(cfg Config) (Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return redactSensitive(a)
		},
	}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text", "console":
		h = slog.NewTextHandler(out, opts)
	case "json":
		h = slog.NewJSONHandler(out, opts)
	default:
		return nil, fmt.Errorf("logger: unknown format %q", cfg.Format)
	}
	return &slogLogger{l: slog.New(h)}, nil
}

// Nop returns a logger that discards everything. Tests use it.
func Nop() Logger {
	return &slogLogger{l: slog.New(slog.DiscardHandler)}
}

func (s *slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("logger: unknown level %q", level)
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	l, _ := New(DefaultConfig())
	defaultLogger.Store(&l)
}

// SetDefault replaces the process-wide logger returned by Default and used
// by FromContext when a context carries none. Nil is ignored.
func SetDefault(l Logger) {
	if l != nil {
		defaultLogger.Store(&l)
	}
}

// Default returns the process-wide logger.
func Default() Logger {
	return *defaultLogger.Load()
}
