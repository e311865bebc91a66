package logger

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a wrapper around Uber's Zap logger.
// It provides a simplified interface to the underlying Zap logger with the
// structured-field conventions used across this library.
type Logger struct {
	// Zap is the underlying zap.Logger instance.
	// This is exposed to allow direct access to Zap-specific functionality
	// when needed, but most logging should go through the wrapper methods.
	Zap *zap.Logger

	// tracingEnabled indicates whether the context-aware methods extract
	// trace context and include trace/span IDs in log entries.
	tracingEnabled bool
}

// NewLoggerClient initializes and returns a new logger based on configuration.
//
// The logger is configured with:
//   - JSON encoding for structured logging
//   - ISO8601 timestamp format
//   - Process ID and service name as default fields
//   - Caller information (file and line) included in log entries
//   - Output directed to stderr
//
// The configured level is resolved through ResolveLevel, so the
// TELEMETRY_LOG_LEVEL environment variable wins over cfg.Level when set.
//
// If initialization fails, the function calls log.Fatal to terminate the
// application: a process without logging is considered unusable.
func NewLoggerClient(cfg Config) *Logger {
	config := zapConfig(cfg)

	zl, err := config.Build(zap.AddCaller(), zap.AddCallerSkip(1))
	if err != nil {
		log.Fatal(err)
	}

	return &Logger{
		Zap:            zl,
		tracingEnabled: cfg.EnableTracing,
	}
}

// NewWithCore builds a logger whose console output follows the standard
// configuration but is teed into the provided additional cores. This is how
// the telemetry builder attaches the log-shipping core next to the console
// core while keeping one logger instance.
func NewWithCore(cfg Config, extra ...zapcore.Core) *Logger {
	config := zapConfig(cfg)

	zl, err := config.Build(
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.WrapCore(func(console zapcore.Core) zapcore.Core {
			cores := append([]zapcore.Core{console}, extra...)
			return zapcore.NewTee(cores...)
		}),
	)
	if err != nil {
		log.Fatal(err)
	}

	return &Logger{
		Zap:            zl,
		tracingEnabled: cfg.EnableTracing,
	}
}

// ZapLevel converts a Config level string to the zapcore equivalent.
// Unknown values map to Info.
func ZapLevel(level string) zapcore.Level {
	switch level {
	case Debug:
		return zap.DebugLevel
	case Info:
		return zap.InfoLevel
	case Warning:
		return zap.WarnLevel
	case Error:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func zapConfig(cfg Config) zap.Config {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.EncodeCaller = zapcore.FullCallerEncoder
	encoderCfg.EncodeDuration = zapcore.MillisDurationEncoder

	return zap.Config{
		Level:             zap.NewAtomicLevelAt(ZapLevel(ResolveLevel(cfg.Level))),
		Development:       false,
		DisableCaller:     false,
		DisableStacktrace: false,
		Sampling:          nil,
		Encoding:          "json",
		EncoderConfig:     encoderCfg,
		OutputPaths: []string{
			"stderr",
		},
		ErrorOutputPaths: []string{
			"stderr",
		},
		InitialFields: map[string]interface{}{
			"pid":     os.Getpid(),
			"service": cfg.ServiceName,
		},
	}
}
