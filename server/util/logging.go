package util

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// WithRequest creates a request-scoped logger carrying method and path fields.
func WithRequest(l *zap.SugaredLogger, r *http.Request) *zap.SugaredLogger {
	return l.With("method", r.Method, "path", r.URL.String())
}

// ContextWithLogger stores the request logger in context for downstream handlers.
func ContextWithLogger(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext retrieves the request logger, falling back to the global
// sugared logger when none was attached.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.SugaredLogger); ok {
			return l
		}
	}

	return zap.S()
}
