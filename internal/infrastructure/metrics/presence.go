package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// PresenceMetrics tracks calls made to the chat client over IPC.
// Provides histograms for call duration and counters for operation outcomes.
type PresenceMetrics struct {
	callDurationSeconds *prometheus.HistogramVec
	callsTotal          *prometheus.CounterVec
}

// NewPresenceMetrics creates and registers presence client metrics with the provided registry.
func NewPresenceMetrics(reg *prometheus.Registry) (*PresenceMetrics, error) {
	callDurationSeconds := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "thermocord_presence_call_duration_seconds",
			Help:    "Presence IPC call duration in seconds by operation and success status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "success"},
	)

	callsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thermocord_presence_calls_total",
			Help: "Total number of presence IPC calls by operation and success status",
		},
		[]string{"operation", "success"},
	)

	if err := registerCollector(reg, callDurationSeconds); err != nil {
		return nil, fmt.Errorf("failed to register thermocord_presence_call_duration_seconds: %w", err)
	}
	if err := registerCollector(reg, callsTotal); err != nil {
		return nil, fmt.Errorf("failed to register thermocord_presence_calls_total: %w", err)
	}

	return &PresenceMetrics{
		callDurationSeconds: callDurationSeconds,
		callsTotal:          callsTotal,
	}, nil
}

// RecordCall records a presence call with its duration.
// operation should be the IPC operation name (e.g., "authenticate", "set_activity").
// Does not return errors; metric recording is fail-safe.
func (p *PresenceMetrics) RecordCall(operation string, success bool, durationSeconds float64) {
	if p == nil {
		return
	}

	defer func() {
		_ = recover()
	}()

	successStr := successLabel(success)
	p.callDurationSeconds.WithLabelValues(operation, successStr).Observe(durationSeconds)
	p.callsTotal.WithLabelValues(operation, successStr).Inc()
}
