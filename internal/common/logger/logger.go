package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// Logger is the field-map logging surface handed to every provisioning step.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger
}

// New builds a zap logger on stderr; stdout carries step output only.
// Unknown levels fall back to info.
func New(levelStr, format string) *zap.Logger {
	level, err := zapcore.ParseLevel(levelStr)
	if err != nil {
		level = zapcore.InfoLevel
	}

	cfg := zap.NewDevelopmentConfig()
	if format == "json" {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// NewStructured is New behind the Logger interface.
func NewStructured(levelStr, format string) Logger {
	return &fieldLogger{z: New(levelStr, format)}
}

// NewTestLogger routes output through t.
func NewTestLogger(t testing.TB) Logger {
	return &fieldLogger{z: zaptest.NewLogger(t)}
}

func NewNoOpLogger() Logger {
	return &fieldLogger{z: zap.NewNop()}
}

type fieldLogger struct {
	z *zap.Logger
}

func (l *fieldLogger) Debug(msg string, fields map[string]interface{}) {
	l.z.Debug(msg, toZap(fields)...)
}

func (l *fieldLogger) Info(msg string, fields map[string]interface{}) {
	l.z.Info(msg, toZap(fields)...)
}

func (l *fieldLogger) Warn(msg string, fields map[string]interface{}) {
	l.z.Warn(msg, toZap(fields)...)
}

func (l *fieldLogger) Error(msg string, fields map[string]interface{}) {
	l.z.Error(msg, toZap(fields)...)
}

func (l *fieldLogger) WithFields(fields map[string]interface{}) Logger {
	return &fieldLogger{z: l.z.With(toZap(fields)...)}
}

func (l *fieldLogger) WithError(err error) Logger {
	return &fieldLogger{z: l.z.With(zap.Error(err))}
}

func toZap(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}
