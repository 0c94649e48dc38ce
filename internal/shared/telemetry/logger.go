package telemetry

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var (
	mu     sync.RWMutex
	logger = mustBuild("dev")
)

// Init configures the process logger for the given environment.
// Dev-like environments keep debug level; everything else logs info and up.
func Init(env string) {
	mu.Lock()
	defer mu.Unlock()
	logger = mustBuild(env)
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Info(msg, toZapFields(fields)...)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Error(msg, toZapFields(fields)...)
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	mu.RLock()
	l := logger
	mu.RUnlock()
	_ = l.Sync()
}

// CaptureForTest swaps the process logger for an in-memory core and returns
// the captured entries. Tests only.
func CaptureForTest() *observer.ObservedLogs {
	core, logs := observer.New(zapcore.DebugLevel)
	mu.Lock()
	logger = zap.New(core)
	mu.Unlock()
	return logs
}

func mustBuild(env string) *zap.Logger {
	level := zapcore.InfoLevel
	if env == "dev" || env == "local" {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Encoding:         "json",
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "msg",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "ts",
			EncodeTime: zapcore.RFC3339TimeEncoder,
		},
	}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func toZapFields(fields map[string]any) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}
