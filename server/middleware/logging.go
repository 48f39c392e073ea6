package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/indieinfra/photobin/server/util"
)

// RequestLoggerMiddleware attaches a request-scoped logger to the context
// so handlers and error mapping log with method and path fields.
func RequestLoggerMiddleware(log *zap.SugaredLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rl := util.WithRequest(log, r)
		next.ServeHTTP(w, r.WithContext(util.ContextWithLogger(r.Context(), rl)))
	})
}
