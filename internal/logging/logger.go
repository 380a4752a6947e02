// Package logging sets up the process-wide zap logger.
package logging

import (
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger. It is a no-op logger until Initialize is called.
	Logger = zap.NewNop()
	// Sugar is the sugared form of Logger
	Sugar = Logger.Sugar()

	level = zap.NewAtomicLevelAt(zap.InfoLevel)
)

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json", "console"
}

// Initialize sets up the global logger with provided configuration
func Initialize(config LogConfig) error {
	var zapConfig zap.Config

	switch strings.ToLower(config.Format) {
	case "json":
		zapConfig = zap.NewProductionConfig()
	default:
		zapConfig = zap.NewDevelopmentConfig()
	}

	parsed, err := zap.ParseAtomicLevel(strings.ToLower(config.Level))
	if err != nil {
		parsed = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = parsed
	level = parsed

	logger, err := zapConfig.Build(
		zap.AddStacktrace(zap.ErrorLevel),
	)
	if err != nil {
		return err
	}

	Logger = logger
	Sugar = logger.Sugar()

	Sugar.Debugf("Logging initialized (level: %s, format: %s)", level.String(), config.Format)
	return nil
}

// Attach tees the global logger into w using a plain console encoding at
// the configured level
func Attach(w io.Writer) {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	encoderConfig.CallerKey = zapcore.OmitKey
	encoderConfig.StacktraceKey = zapcore.OmitKey

	extra := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
	Logger = Logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, extra)
	}))
	Sugar = Logger.Sugar()
}

// Named returns a child of the global logger for a component
func Named(component string) *zap.Logger {
	return Logger.With(zap.String("component", component))
}

// Sync flushes any buffered log entries
func Sync() {
	// Sync fails on stderr/stdout on some systems; nothing useful to do about it
	_ = Logger.Sync()
}
