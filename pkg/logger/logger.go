package logger

import (
	"errors"
	"fmt"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	s *zap.SugaredLogger
}

// New returns an info-level JSON logger on stderr.
func New() *Logger {
	l, _ := NewWithConfig("info", "json")
	return l
}

// NewWithConfig builds a logger for level (debug, info, warn, error) and
// format (json or console).
func NewWithConfig(level, format string) (*Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Sampling = nil
	switch format {
	case "json":
	case "console":
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	default:
		return nil, fmt.Errorf("log format must be 'json' or 'console', got %q", format)
	}
	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &Logger{s: z.Sugar()}, nil
}

// NewWithCore wraps an existing core; tests pass a zaptest observer here.
func NewWithCore(core zapcore.Core) *Logger {
	return &Logger{s: zap.New(core).Sugar()}
}

func NewNop() *Logger { return &Logger{s: zap.NewNop().Sugar()} }

func (l *Logger) Debugf(format string, args ...any) { l.s.Debugf(format, args...) }

func (l *Logger) Infof(format string, args ...any) { l.s.Infof(format, args...) }

func (l *Logger) Warnf(format string, args ...any) { l.s.Warnf(format, args...) }

func (l *Logger) Errorf(format string, args ...any) { l.s.Errorf(format, args...) }

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(kv ...any) *Logger { return &Logger{s: l.s.With(kv...)} }

func (l *Logger) Named(name string) *Logger { return &Logger{s: l.s.Named(name)} }

// Zap exposes the structured logger for libraries that want one.
func (l *Logger) Zap() *zap.Logger { return l.s.Desugar() }

// Sync flushes buffered entries, ignoring the EINVAL/ENOTTY errors stderr
// returns on Linux.
func (l *Logger) Sync() error {
	err := l.s.Sync()
	var errno syscall.Errno
	if err != nil && errors.As(err, &errno) && (errno == syscall.EINVAL || errno == syscall.ENOTTY) {
		return nil
	}
	return err
}
