// Package logging provides structured logging for padlog.
// It wraps log/slog with a JSON handler writing to a size-rotated file.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Iron-Ham/padlog/internal/errors"
)

// Log levels supported by the logger
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// LogFileName is the log file created inside the log directory.
const LogFileName = "padlog.log"

// Logger provides structured logging. It is safe for concurrent use.
type Logger struct {
	logger *slog.Logger
	out    *output
}

// output is shared by a Logger and all of its children.
type output struct {
	mu     sync.Mutex
	writer *RotatingWriter
}

// NewLogger creates a Logger that writes JSON lines to dir/padlog.log,
// rotating the file per rotation. If dir is empty, logs go to stderr.
//
// The level parameter controls which messages are logged:
//   - DEBUG: All messages, including per-iteration capture loop timing
//   - INFO: Session lifecycle, flush results
//   - WARN: Recoverable problems such as config fallbacks
//   - ERROR: Device and serialization failures
func NewLogger(dir, level string, rotation RotationConfig) (*Logger, error) {
	var w io.Writer = os.Stderr
	out := &output{}

	if dir != "" {
		rw, err := NewRotatingWriter(filepath.Join(dir, LogFileName), rotation)
		if err != nil {
			return nil, err
		}
		out.writer = rw
		w = rw
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slogLevel(level)})
	return &Logger{logger: slog.New(handler), out: out}, nil
}

func slogLevel(level string) slog.Level {
	switch ParseLevel(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithSession returns a child Logger tagging entries with session_id.
func (l *Logger) WithSession(sessionID string) *Logger {
	return l.With("session_id", sessionID)
}

// WithDevice returns a child Logger tagging entries with the device name.
func (l *Logger) WithDevice(name string) *Logger {
	return l.With("device", name)
}

// With returns a child Logger with alternating key-value attributes.
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}
	return &Logger{logger: l.logger.With(args...), out: l.out}
}

// Slog exposes the underlying slog.Logger for packages that take one.
func (l *Logger) Slog() *slog.Logger {
	return l.logger
}

// Debug logs a message at DEBUG level.
func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Log(context.Background(), slog.LevelDebug, msg, args...)
}

// Info logs a message at INFO level.
func (l *Logger) Info(msg string, args ...any) {
	l.logger.Log(context.Background(), slog.LevelInfo, msg, args...)
}

// Warn logs a message at WARN level.
func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Log(context.Background(), slog.LevelWarn, msg, args...)
}

// Error logs a message at ERROR level.
func (l *Logger) Error(msg string, args ...any) {
	l.logger.Log(context.Background(), slog.LevelError, msg, args...)
}

// LogError logs err at the level matching its severity, with the error and
// its severity attached. Critical errors log at ERROR.
func (l *Logger) LogError(msg string, err error, args ...any) {
	severity := errors.GetSeverity(err)
	level := slog.LevelError
	switch severity {
	case errors.SeverityDebug:
		level = slog.LevelDebug
	case errors.SeverityInfo:
		level = slog.LevelInfo
	case errors.SeverityWarning:
		level = slog.LevelWarn
	}
	args = append(args, "error", err, "severity", severity.String())
	l.logger.Log(context.Background(), level, msg, args...)
}

// Enabled reports whether level would be logged. The capture loop checks
// this before building per-iteration debug attributes.
func (l *Logger) Enabled(level slog.Level) bool {
	return l.logger.Enabled(context.Background(), level)
}

// Close flushes and closes the log file. Closing a stderr or Nop logger is
// a no-op, as is closing twice.
func (l *Logger) Close() error {
	if l.out == nil {
		return nil
	}
	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if l.out.writer == nil {
		return nil
	}
	err := l.out.writer.Close()
	l.out.writer = nil
	return errors.Wrap(err, "close log")
}

// NopLogger returns a Logger that discards all output.
func NopLogger() *Logger {
	return &Logger{
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
		out:    &output{},
	}
}

// ParseLevel normalizes a level string, returning LevelInfo for anything
// unrecognized.
func ParseLevel(level string) string {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case LevelDebug:
		return LevelDebug
	case LevelWarn, "WARNING":
		return LevelWarn
	case LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

// ValidLevels returns the list of valid log level strings.
func ValidLevels() []string {
	return []string{LevelDebug, LevelInfo, LevelWarn, LevelError}
}
