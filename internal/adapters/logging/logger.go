// Package logging provides structured logging for pylon, built on
// go.uber.org/zap in place of the teacher's hand-rolled JSON-to-stderr
// logger, while preserving the same usecases.Logger shape (Debug / Info /
// Warn / Error plus a field-scoped WithFields) so every other package logs
// through the same interface regardless of which is wired in.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/madstone-tech/pylon/internal/core/usecases"
)

var _ usecases.Logger = (*Logger)(nil)

// Level mirrors the teacher's Level type, translated to zap's levels at
// construction time.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger wraps a *zap.SugaredLogger behind usecases.Logger.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a Logger writing structured JSON to stderr at the given
// level, matching the teacher's stderr-only policy (so stdout stays free
// for any piped build output).
func New(level Level) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(level.zapLevel())
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	built, err := cfg.Build()
	if err != nil {
		// zap.NewProductionConfig().Build() only fails on a malformed
		// sink URL, which never happens for the fixed "stderr" path above.
		panic(err)
	}
	return &Logger{sugar: built.Sugar()}
}

// WithFields returns a logger with additional structured fields bound for
// every subsequent call, implementing usecases.Logger.
func (l *Logger) WithFields(kv ...any) usecases.Logger {
	return &Logger{sugar: l.sugar.With(kv...)}
}

func (l *Logger) Debug(msg string, kv ...any) { l.sugar.Debugw(msg, kv...) }
func (l *Logger) Info(msg string, kv ...any)  { l.sugar.Infow(msg, kv...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.sugar.Warnw(msg, kv...) }
func (l *Logger) Error(msg string, kv ...any) { l.sugar.Errorw(msg, kv...) }

// Sync flushes any buffered log entries; call before process exit.
func (l *Logger) Sync() error { return l.sugar.Sync() }
