package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// ReadingMetrics tracks sensor API fetches per reading (temperature, humidity).
type ReadingMetrics struct {
	fetchTotal           *prometheus.CounterVec
	fetchDurationSeconds *prometheus.HistogramVec
}

// NewReadingMetrics creates and registers reading fetch metrics with the provided registry.
func NewReadingMetrics(reg *prometheus.Registry) (*ReadingMetrics, error) {
	fetchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thermocord_reading_fetch_total",
			Help: "Total number of sensor API fetches by reading and success status",
		},
		[]string{"reading", "success"},
	)

	fetchDurationSeconds := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "thermocord_reading_fetch_duration_seconds",
			Help:    "Sensor API fetch duration in seconds by reading",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"reading"},
	)

	if err := registerCollector(reg, fetchTotal); err != nil {
		return nil, fmt.Errorf("failed to register thermocord_reading_fetch_total: %w", err)
	}
	if err := registerCollector(reg, fetchDurationSeconds); err != nil {
		return nil, fmt.Errorf("failed to register thermocord_reading_fetch_duration_seconds: %w", err)
	}

	return &ReadingMetrics{
		fetchTotal:           fetchTotal,
		fetchDurationSeconds: fetchDurationSeconds,
	}, nil
}

// RecordFetch records one fetch of a reading.
// A fetch that fell back to the sentinel counts as unsuccessful.
// Does not return errors; metric recording is fail-safe.
func (r *ReadingMetrics) RecordFetch(reading string, success bool, durationSeconds float64) {
	if r == nil {
		return
	}

	defer func() {
		_ = recover()
	}()

	r.fetchTotal.WithLabelValues(reading, successLabel(success)).Inc()
	r.fetchDurationSeconds.WithLabelValues(reading).Observe(durationSeconds)
}
