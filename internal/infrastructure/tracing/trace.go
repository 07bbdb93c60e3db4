package tracing

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type contextKey struct{}

var traceKey contextKey

// DefaultSlowThreshold flags requests that should have been fast.
// Desktop state reads and window ops are all in-memory.
const DefaultSlowThreshold = time.Second

// Tracer assigns request ids and logs request completion. Ids arriving on
// X-Trace-ID are reused so a frontend can correlate its own logs.
type Tracer struct {
	service string
	logger  *zap.Logger
	slow    time.Duration
}

// New creates a tracer for the named service
func New(service string, logger *zap.Logger) *Tracer {
	return &Tracer{
		service: service,
		logger:  logger,
		slow:    DefaultSlowThreshold,
	}
}

// WithTrace returns a context carrying the trace id
func WithTrace(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey, traceID)
}

// FromContext returns the trace id in ctx, or ""
func FromContext(ctx context.Context) string {
	if traceID, ok := ctx.Value(traceKey).(string); ok {
		return traceID
	}
	return ""
}

func (t *Tracer) finish(traceID, method, path string, status int, elapsed time.Duration, errMsg string) {
	fields := []zap.Field{
		zap.String("trace_id", traceID),
		zap.String("service", t.service),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("duration", elapsed),
	}
	if errMsg != "" {
		fields = append(fields, zap.String("error", errMsg))
	}

	switch {
	case status >= 500 || errMsg != "":
		t.logger.Error("request failed", fields...)
	case elapsed >= t.slow:
		t.logger.Warn("slow request", fields...)
	default:
		t.logger.Debug("request completed", fields...)
	}
}
