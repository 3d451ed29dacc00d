// Package logger provides structured logging utilities backed by zap
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the severity of a log entry
type LogLevel string

const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
	LevelFatal LogLevel = "FATAL"
)

// Config holds logger configuration
type Config struct {
	Level      string `yaml:"level" mapstructure:"level"`             // debug, info, warn, error, fatal
	Format     string `yaml:"format" mapstructure:"format"`           // text or json
	Output     string `yaml:"output" mapstructure:"output"`           // stdout, stderr, discard, or file path
	TimeFormat string `yaml:"time_format" mapstructure:"time_format"` // RFC3339, RFC3339Nano, etc
}

var (
	mu      sync.RWMutex
	base    = newDefault()
	logFile *os.File
)

func newDefault() *zap.Logger {
	l, err := build(Config{}, zapcore.AddSync(os.Stdout), zapcore.AddSync(os.Stderr))
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// Init initializes the logger with configuration
func Init(cfg Config) error {
	out, errOut, f, err := sinks(cfg.Output)
	if err != nil {
		// Fall back to the console so startup errors are still visible
		initWith(cfg, zapcore.AddSync(os.Stdout), zapcore.AddSync(os.Stderr), nil)
		return fmt.Errorf("logger: failed to open log file %s: %w", cfg.Output, err)
	}
	initWith(cfg, out, errOut, f)
	return nil
}

func initWith(cfg Config, out, errOut zapcore.WriteSyncer, f *os.File) {
	l, err := build(cfg, out, errOut)
	if err != nil {
		l = zap.NewNop()
	}

	mu.Lock()
	defer mu.Unlock()
	_ = base.Sync()
	if logFile != nil {
		_ = logFile.Close()
	}
	base = l
	logFile = f
}

func sinks(output string) (zapcore.WriteSyncer, zapcore.WriteSyncer, *os.File, error) {
	switch strings.ToLower(strings.TrimSpace(output)) {
	case "", "stdout":
		return zapcore.AddSync(os.Stdout), zapcore.AddSync(os.Stderr), nil, nil
	case "stderr":
		return zapcore.AddSync(os.Stderr), zapcore.AddSync(os.Stderr), nil, nil
	case "discard", "none":
		return zapcore.AddSync(io.Discard), zapcore.AddSync(io.Discard), nil, nil
	default:
		f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, nil, err
		}
		return zapcore.AddSync(f), zapcore.AddSync(f), f, nil
	}
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func build(cfg Config, out, errOut zapcore.WriteSyncer) (*zap.Logger, error) {
	minLevel := parseLevel(cfg.Level)

	timeFormat := time.RFC3339
	if tf := strings.TrimSpace(cfg.TimeFormat); tf != "" {
		timeFormat = tf
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.MessageKey = "message"
	encCfg.LevelKey = "level"
	encCfg.CallerKey = "file"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(timeFormat)
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var enc zapcore.Encoder
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	case "", "text", "console":
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	// Errors and above go to errOut, everything else to out
	infoLevels := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= minLevel && l < zapcore.ErrorLevel
	})
	errorLevels := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= minLevel && l >= zapcore.ErrorLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(enc, out, infoLevels),
		zapcore.NewCore(enc, errOut, errorLevels),
	)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)), nil
}

func current() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// L returns the underlying zap logger for libraries that want one
func L() *zap.Logger {
	return current().WithOptions(zap.AddCallerSkip(-2))
}

// Sync flushes buffered entries
func Sync() {
	_ = current().Sync()
}

// logMessage handles the actual logging
func logMessage(level LogLevel, msg string, fields map[string]interface{}) {
	l := current()
	zfields := toZapFields(fields)
	switch level {
	case LevelDebug:
		l.Debug(msg, zfields...)
	case LevelInfo:
		l.Info(msg, zfields...)
	case LevelWarn:
		l.Warn(msg, zfields...)
	case LevelError:
		l.Error(msg, zfields...)
	case LevelFatal:
		l.Fatal(msg, zfields...)
	}
}

func toZapFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}

// Debug logs debug message (only shown when level=debug)
func Debug(msg string) {
	logMessage(LevelDebug, msg, nil)
}

// Debugf logs formatted debug message
func Debugf(format string, args ...interface{}) {
	logMessage(LevelDebug, fmt.Sprintf(format, args...), nil)
}

// Info logs info message
func Info(msg string) {
	logMessage(LevelInfo, msg, nil)
}

// Infof logs formatted info message
func Infof(format string, args ...interface{}) {
	logMessage(LevelInfo, fmt.Sprintf(format, args...), nil)
}

// Warn logs warning message
func Warn(msg string) {
	logMessage(LevelWarn, msg, nil)
}

// Warnf logs formatted warning message
func Warnf(format string, args ...interface{}) {
	logMessage(LevelWarn, fmt.Sprintf(format, args...), nil)
}

// Error logs error message
func Error(msg string) {
	logMessage(LevelError, msg, nil)
}

// Errorf logs formatted error message
func Errorf(format string, args ...interface{}) {
	logMessage(LevelError, fmt.Sprintf(format, args...), nil)
}

// Fatal logs fatal message and exits
func Fatal(msg string) {
	logMessage(LevelFatal, msg, nil)
}

// Fatalf logs formatted fatal message and exits
func Fatalf(format string, args ...interface{}) {
	logMessage(LevelFatal, fmt.Sprintf(format, args...), nil)
}

// WithFields returns a log message with structured fields
func WithFields(fields map[string]interface{}) *FieldLogger {
	return &FieldLogger{fields: fields}
}

// FieldLogger allows structured logging with fields
type FieldLogger struct {
	fields map[string]interface{}
}

// With returns a copy carrying one more field
func (l *FieldLogger) With(key string, value interface{}) *FieldLogger {
	fields := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value
	return &FieldLogger{fields: fields}
}

func (l *FieldLogger) Debug(msg string) {
	logMessage(LevelDebug, msg, l.fields)
}

func (l *FieldLogger) Info(msg string) {
	logMessage(LevelInfo, msg, l.fields)
}

func (l *FieldLogger) Warn(msg string) {
	logMessage(LevelWarn, msg, l.fields)
}

func (l *FieldLogger) Error(msg string) {
	logMessage(LevelError, msg, l.fields)
}

// Protocol-specific logging with structured fields

// HTTP logs HTTP protocol activity
func HTTP(method, path string, status, latencyMs int) {
	WithFields(map[string]interface{}{
		"protocol": "http",
		"method":   method,
		"path":     path,
		"status":   status,
		"latency":  latencyMs,
	}).Info(fmt.Sprintf("HTTP %s %s %d - %dms", method, path, status, latencyMs))
}

// GRPC logs gRPC protocol activity
func GRPC(method, params string, latencyMs int) {
	WithFields(map[string]interface{}{
		"protocol": "grpc",
		"method":   method,
		"params":   params,
		"latency":  latencyMs,
	}).Info(fmt.Sprintf("gRPC %s(%s) - %dms", method, params, latencyMs))
}

// WebSocket logs WebSocket activity
func WebSocket(conn, event string) {
	WithFields(map[string]interface{}{
		"protocol": "websocket",
		"conn":     conn,
		"event":    event,
	}).Info(fmt.Sprintf("WebSocket [%s] %s", conn, event))
}

// Upstream logs one outbound statistics request
func Upstream(url string, status, latencyMs int) {
	WithFields(map[string]interface{}{
		"protocol": "upstream",
		"url":      url,
		"status":   status,
		"latency":  latencyMs,
	}).Debug(fmt.Sprintf("GET %s %d - %dms", url, status, latencyMs))
}

// Context-aware logging (for request tracing)
type contextKey string

const requestIDKey contextKey = "request_id"

// ContextWithRequestID stores a request ID for later log lines
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the stored request ID, if any
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithRequestID extracts request ID from context and logs with it
func WithRequestID(ctx context.Context) *FieldLogger {
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		return WithFields(map[string]interface{}{
			"request_id": requestID,
		})
	}
	return WithFields(nil)
}
