package health

import (
	"time"

	"github.com/josimar-silva/thermocord/internal/presence"
	"github.com/josimar-silva/thermocord/internal/store"
)

const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
	StatusStarting = "starting"
)

// ApplicationHealth represents the overall health status of the application.
type ApplicationHealth struct {
	Status   string     `json:"status"`
	Version  string     `json:"version"`
	Uptime   string     `json:"uptime"`
	LastPoll *PollInfo  `json:"lastPoll,omitempty"`
	Cycles   CycleTotal `json:"cycles"`
}

// PollInfo summarises the most recent poll cycle.
type PollInfo struct {
	CycleID    string    `json:"cycleId"`
	FinishedAt time.Time `json:"finishedAt"`
	Duration   string    `json:"duration"`
	Sent       bool      `json:"sent"`
	Error      string    `json:"error,omitempty"`
}

// CycleTotal mirrors the status store counters.
type CycleTotal struct {
	Total  uint64 `json:"total"`
	Sent   uint64 `json:"sent"`
	Failed uint64 `json:"failed"`
}

// LivenessResponse represents the response for the liveness probe.
type LivenessResponse struct {
	Status string `json:"status"`
}

// ReadinessResponse represents the response for the readiness probe.
// The process is ready once an activity has been delivered.
type ReadinessResponse struct {
	Status     string     `json:"status"`
	LastSentAt *time.Time `json:"lastSentAt,omitempty"`
}

// VersionInfo contains build version information.
type VersionInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"buildTime"`
	GitCommit string `json:"gitCommit"`
}

// StatusProvider exposes poll cycle outcomes to the probes.
// Implemented by store.InMemoryStatusStore.
type StatusProvider interface {
	LastCycle() (presence.CycleStatus, bool)
	LastSentAt() (time.Time, bool)
	Stats() store.CycleStats
}
