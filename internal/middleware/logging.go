package middleware

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/josimar-silva/thermocord/internal/infrastructure/logger"
)

type contextKey string

// RequestIDKey is the context key for the request ID.
const RequestIDKey contextKey = "request_id"

// RequestIDHeader carries the request ID back to the caller.
const RequestIDHeader = "X-Request-ID"

// Middleware is a function that wraps an http.Handler to add cross-cutting concerns.
type Middleware func(http.Handler) http.Handler

// statusWriter records the status code and body size written by a handler.
type statusWriter struct {
	http.ResponseWriter
	status        int
	bytesWritten  int
	headerWritten bool
}

func (w *statusWriter) WriteHeader(statusCode int) {
	if w.headerWritten {
		return
	}
	w.headerWritten = true
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.headerWritten {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += n
	return n, err
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// NewLoggingMiddleware logs one debug line per management request.
// Each request gets a request ID, stored in the context and echoed in X-Request-ID.
func NewLoggingMiddleware(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()
			r = r.WithContext(context.WithValue(r.Context(), RequestIDKey, requestID))
			w.Header().Set(RequestIDHeader, requestID)

			wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			startTime := time.Now()

			next.ServeHTTP(wrapped, r)

			log.DebugContext(r.Context(), "management request served",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", remoteIP(r.RemoteAddr),
				"status", wrapped.status,
				"response_bytes", wrapped.bytesWritten,
				"duration", time.Since(startTime),
			)
		})
	}
}

// RequestID returns the request ID stored by the logging middleware, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func remoteIP(remoteAddr string) string {
	ip, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return ip
}

// Chain combines middleware so that the first one is the outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(handler http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}
}
