package health

import (
	"net/http"
	"time"

	"github.com/josimar-silva/thermocord/internal/infrastructure/logger"
	"github.com/josimar-silva/thermocord/internal/management"
	"github.com/josimar-silva/thermocord/internal/middleware"
)

// NewMux routes the probe endpoints. Only GET is accepted.
func NewMux(provider StatusProvider, versionInfo VersionInfo, log *logger.Logger, startTime time.Time) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /health", NewHealthHandler(provider, versionInfo, log, startTime))
	mux.Handle("GET /live", NewLiveHandler(log))
	mux.Handle("GET /ready", NewReadyHandler(provider, log))
	mux.Handle("GET /version", NewVersionHandler(versionInfo, log))

	return middleware.Chain(
		middleware.NewLoggingMiddleware(log),
		middleware.NewRecoveryMiddleware(log),
	)(mux)
}

// NewServer creates the management server exposing /health, /live, /ready and /version on port.
func NewServer(port int, provider StatusProvider, versionInfo VersionInfo, log *logger.Logger) *management.Server {
	return management.NewServer("management", port, NewMux(provider, versionInfo, log, time.Now()), log)
}
