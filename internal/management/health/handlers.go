package health

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/josimar-silva/thermocord/internal/infrastructure/logger"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

// NewHealthHandler creates the /health handler.
// Status is "starting" before the first cycle, "healthy" when the last cycle
// delivered the activity and "degraded" when it failed.
func NewHealthHandler(provider StatusProvider, versionInfo VersionInfo, log *logger.Logger, startTime time.Time) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stats := provider.Stats()
		response := ApplicationHealth{
			Status:  StatusStarting,
			Version: versionInfo.Version,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Cycles: CycleTotal{
				Total:  stats.Total,
				Sent:   stats.Sent,
				Failed: stats.Failed,
			},
		}

		if last, ok := provider.LastCycle(); ok {
			response.Status = StatusHealthy
			if !last.Sent || last.Error != "" {
				response.Status = StatusDegraded
			}
			response.LastPoll = &PollInfo{
				CycleID:    last.CycleID,
				FinishedAt: last.FinishedAt,
				Duration:   last.Duration().String(),
				Sent:       last.Sent,
				Error:      last.Error,
			}
		}

		writeJSON(w, http.StatusOK, response, log)
	})
}

// NewLiveHandler creates the /live handler. It answers as long as the process serves HTTP.
func NewLiveHandler(log *logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, LivenessResponse{Status: "alive"}, log)
	})
}

// NewReadyHandler creates the /ready handler.
// Returns 503 Service Unavailable until an activity has been delivered.
func NewReadyHandler(provider StatusProvider, log *logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sentAt, ok := provider.LastSentAt()
		if !ok {
			writeJSON(w, http.StatusServiceUnavailable, ReadinessResponse{Status: "not ready"}, log)
			return
		}
		writeJSON(w, http.StatusOK, ReadinessResponse{Status: "ready", LastSentAt: &sentAt}, log)
	})
}

// NewVersionHandler creates the /version handler.
func NewVersionHandler(versionInfo VersionInfo, log *logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, versionInfo, log)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any, log *logger.Logger) {
	w.Header().Set(headerContentType, contentTypeJSON)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("failed to encode management response", "error", err)
	}
}
