package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const (
	RequestIDKey     ctxKey = "request_id"
	SessionCodeKey   ctxKey = "session_code"
	ParticipantIDKey ctxKey = "participant_id"
)

// ContextLogger enriches log entries with identifiers carried in the request
// context.
type ContextLogger struct {
	logger *zap.Logger
}

func NewContextLogger(logger *zap.Logger) *ContextLogger {
	return &ContextLogger{logger: logger}
}

// WithContext returns a logger carrying whatever identifiers the context has.
func (cl *ContextLogger) WithContext(ctx context.Context) *zap.Logger {
	fields := []zapcore.Field{}

	if v, ok := ctx.Value(RequestIDKey).(string); ok && v != "" {
		fields = append(fields, zap.String("request_id", v))
	}
	if v, ok := ctx.Value(SessionCodeKey).(string); ok && v != "" {
		fields = append(fields, zap.String("session_code", v))
	}
	if v, ok := ctx.Value(ParticipantIDKey).(string); ok && v != "" {
		fields = append(fields, zap.String("participant_id", v))
	}

	if len(fields) == 0 {
		return cl.logger
	}
	return cl.logger.With(fields...)
}

// WithError adds the error field.
func (cl *ContextLogger) WithError(err error) *zap.Logger {
	return cl.logger.With(zap.Error(err))
}

// LogRequest logs an HTTP request with context identifiers.
func (cl *ContextLogger) LogRequest(ctx context.Context, method, path string, statusCode int, durationMillis int64) {
	cl.WithContext(ctx).Info("http_request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", statusCode),
		zap.Int64("duration_ms", durationMillis),
	)
}
