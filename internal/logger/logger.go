// Package logger wraps zap with the structured helpers the rest of the
// engine uses for tenant- and play-scoped logging.
package logger

import (
	"os"

	"go.uber.org/zap"
)

var globalLogger *zap.Logger

// Init initializes the global logger. logLevel may be nil, in which case
// "info" is applied.
func Init(logLevel *string) error {
	env := os.Getenv("GO_ENV")
	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	applied := "info"
	if logLevel != nil && *logLevel != "" {
		applied = *logLevel
	}

	switch applied {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	built, err := config.Build()
	if err != nil {
		return err
	}
	globalLogger = built
	return nil
}

// Get returns the global logger, building a development fallback if Init
// was never called (handy in tests).
func Get() *zap.Logger {
	if globalLogger == nil {
		globalLogger, _ = zap.NewDevelopment()
	}
	return globalLogger
}

// Sync flushes buffered log entries.
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

// Shutdown is an alias for Sync kept for symmetry with Init.
func Shutdown() error {
	return Sync()
}

// Debug, Info, Warn and Error are package-level convenience wrappers so
// call sites that don't want to thread a *zap.Logger through can still log.
func Debug(msg string, fields ...zap.Field) { Get().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { Get().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { Get().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Get().Error(msg, fields...) }

// WithContext returns a logger enriched with arbitrary fields.
func WithContext(fields ...zap.Field) *zap.Logger {
	return Get().With(fields...)
}

// WithTenant returns a logger scoped to a tenant.
func WithTenant(tenantID string) *zap.Logger {
	if tenantID == "" {
		return Get()
	}
	return Get().With(zap.String("tenant_id", tenantID))
}

// WithPlay returns a logger scoped to a tenant and play.
func WithPlay(tenantID, playID string) *zap.Logger {
	fields := make([]zap.Field, 0, 2)
	if tenantID != "" {
		fields = append(fields, zap.String("tenant_id", tenantID))
	}
	if playID != "" {
		fields = append(fields, zap.String("play_id", playID))
	}
	return Get().With(fields...)
}
