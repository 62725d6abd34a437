package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a new zap logger for the given environment. "local" and
// "development" get a human readable debug logger, anything else gets the
// JSON production logger tagged with the service name.
func New(env, serviceName string) (*zap.Logger, error) {
	var cfg zap.Config
	switch env {
	case "local":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case "development":
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	default:
		cfg = zap.NewProductionConfig()
	}
	cfg.InitialFields = map[string]interface{}{
		"service": serviceName,
	}
	return cfg.Build()
}

// WithRequestID returns a logger with request_id field
func WithRequestID(logger *zap.SugaredLogger, requestID string) *zap.SugaredLogger {
	return logger.With("request_id", requestID)
}
