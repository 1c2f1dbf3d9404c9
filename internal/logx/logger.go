// Package logx provides request-scoped logging on top of the standard logger.
package logx

import (
	"context"
	"log"
	"strings"
	"sync/atomic"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var minLevel atomic.Int32

func init() {
	minLevel.Store(int32(LevelInfo))
}

// SetLevel sets the minimum level from its name. Unknown names select info.
func SetLevel(name string) {
	minLevel.Store(int32(ParseLevel(name)))
}

func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func enabled(l Level) bool {
	return int32(l) >= minLevel.Load()
}

type requestIDKey struct{}

// WithRequestID stores the request id in ctx.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request id from ctx, or "" when absent.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger provides structured logging for services
type Logger struct {
	requestID string
}

// New creates a logger with request context
func New(ctx context.Context) *Logger {
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = "unknown"
	}
	return &Logger{requestID: requestID}
}

func (l *Logger) Debugf(operation string, format string, args ...interface{}) {
	l.printf(LevelDebug, "debug", operation, format, args...)
}

func (l *Logger) Info(operation string, message string) {
	l.printf(LevelInfo, "info", operation, "message=%s", message)
}

func (l *Logger) Infof(operation string, format string, args ...interface{}) {
	l.printf(LevelInfo, "info", operation, format, args...)
}

func (l *Logger) Warn(operation string, message string) {
	l.printf(LevelWarn, "warn", operation, "message=%s", message)
}

func (l *Logger) Warnf(operation string, format string, args ...interface{}) {
	l.printf(LevelWarn, "warn", operation, format, args...)
}

// Error logs an error with context
func (l *Logger) Error(operation string, err error) {
	l.printf(LevelError, "error", operation, "error=%v", err)
}

func (l *Logger) Errorf(operation string, format string, args ...interface{}) {
	l.printf(LevelError, "error", operation, format, args...)
}

func (l *Logger) printf(level Level, tag, operation, format string, args ...interface{}) {
	if !enabled(level) {
		return
	}
	log.Printf("["+tag+"] request_id=%s operation=%s "+format, append([]interface{}{l.requestID, operation}, args...)...)
}
