package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Poll cycle outcomes used as the "outcome" label.
const (
	OutcomeSent    = "sent"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
	OutcomePanic   = "panic"
)

// PollMetrics tracks the scheduler's poll cycles.
type PollMetrics struct {
	cyclesTotal     *prometheus.CounterVec
	durationSeconds prometheus.Histogram
}

// NewPollMetrics creates and registers poll cycle metrics with the provided registry.
func NewPollMetrics(reg *prometheus.Registry) (*PollMetrics, error) {
	cyclesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thermocord_poll_cycles_total",
			Help: "Total number of poll cycles by outcome (sent, error, skipped, panic)",
		},
		[]string{"outcome"},
	)

	durationSeconds := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "thermocord_poll_duration_seconds",
			Help:    "Duration of completed poll cycles in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	if err := registerCollector(reg, cyclesTotal); err != nil {
		return nil, fmt.Errorf("failed to register thermocord_poll_cycles_total: %w", err)
	}
	if err := registerCollector(reg, durationSeconds); err != nil {
		return nil, fmt.Errorf("failed to register thermocord_poll_duration_seconds: %w", err)
	}

	return &PollMetrics{
		cyclesTotal:     cyclesTotal,
		durationSeconds: durationSeconds,
	}, nil
}

// RecordCycle records a finished poll cycle.
// Does not return errors; metric recording is fail-safe.
func (p *PollMetrics) RecordCycle(outcome string, durationSeconds float64) {
	if p == nil {
		return
	}

	defer func() {
		_ = recover()
	}()

	p.cyclesTotal.WithLabelValues(outcome).Inc()
	p.durationSeconds.Observe(durationSeconds)
}

// RecordSkipped records a tick dropped because a cycle was still running.
func (p *PollMetrics) RecordSkipped() {
	if p == nil {
		return
	}

	defer func() {
		_ = recover()
	}()

	p.cyclesTotal.WithLabelValues(OutcomeSkipped).Inc()
}
