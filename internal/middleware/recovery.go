package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/josimar-silva/thermocord/internal/infrastructure/logger"
)

// NewRecoveryMiddleware recovers from handler panics, logs them with a stack
// trace and answers 500 Internal Server Error.
func NewRecoveryMiddleware(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error("panic recovered",
						"error", err,
						"stack_trace", string(debug.Stack()),
						"method", r.Method,
						"path", r.URL.Path,
						"request_id", RequestID(r.Context()),
					)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
