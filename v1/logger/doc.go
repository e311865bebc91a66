// Package logger provides structured logging for Go applications.
//
// The logger package is the console layer of the composite telemetry sink. It
// wraps Uber's Zap with the structured-field conventions used across this
// library, resolves its level from configuration with an environment override,
// and optionally correlates log entries with distributed traces.
//
// Core Features:
//   - Structured logging with key-value pairs
//   - Log levels (Debug, Info, Warning, Error) with env override
//   - Context-aware logging that attaches trace_id and span_id
//   - JSON output with service name and process ID on every entry
//   - Integration with the fx dependency injection framework
//
// # Direct Usage (Without FX)
//
//	import "github.com/Aleph-Alpha/telemetry/v1/logger"
//
//	log := logger.NewLoggerClient(logger.Config{
//		ServiceName:   "my-service",
//		Level:         logger.Info,
//		EnableTracing: true,
//	})
//
//	log.Info("user logged in", nil, map[string]interface{}{
//		"user_id": "12345",
//	})
//
//	// Includes trace_id and span_id from the active span in ctx.
//	log.InfoCtx(ctx, "processing request", nil, map[string]interface{}{
//		"request_id": "abc-123",
//	})
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		fx.Provide(func() logger.Config {
//			return logger.Config{ServiceName: "my-service", Level: logger.Info}
//		}),
//		// ... other modules
//	)
//	app.Run()
//
// # Configuration
//
// The log level can be overridden via the environment:
//
//	TELEMETRY_LOG_LEVEL=debug   # wins over Config.Level when set
//
// # Tracing Integration
//
// When EnableTracing is set, the *Ctx logging methods extract the active span
// from the context and add trace_id and span_id fields to the entry. This is
// what lets a log line, a metric sample, and a trace be correlated purely via
// a shared textual identifier.
//
// # Thread Safety
//
// All methods on Logger are safe for concurrent use by multiple goroutines.
package logger
