package metrics

import (
	"net/http"

	"github.com/josimar-silva/thermocord/internal/infrastructure/logger"
	"github.com/josimar-silva/thermocord/internal/infrastructure/metrics"
	"github.com/josimar-silva/thermocord/internal/management"
	"github.com/josimar-silva/thermocord/internal/middleware"
)

// NewMux routes GET /metrics to the registry's Prometheus handler.
func NewMux(registry *metrics.Registry, log *logger.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", registry.Handler())

	return middleware.NewRecoveryMiddleware(log)(mux)
}

// NewServer creates the metrics server exposing /metrics on port.
func NewServer(port int, registry *metrics.Registry, log *logger.Logger) *management.Server {
	return management.NewServer("metrics", port, NewMux(registry, log), log)
}
