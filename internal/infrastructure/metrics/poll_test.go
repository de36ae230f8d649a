package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollMetricsRecordCycleCountsByOutcome(t *testing.T) {
	// Given
	reg := prometheus.NewRegistry()
	metrics, err := NewPollMetrics(reg)
	require.NoError(t, err)

	// When
	metrics.RecordCycle(OutcomeSent, 0.1)
	metrics.RecordCycle(OutcomeSent, 0.3)
	metrics.RecordCycle(OutcomeError, 0.05)

	// Then
	assert.Equal(t, 2.0, counterValue(t, reg, "thermocord_poll_cycles_total", map[string]string{"outcome": OutcomeSent}))
	assert.Equal(t, 1.0, counterValue(t, reg, "thermocord_poll_cycles_total", map[string]string{"outcome": OutcomeError}))
	assert.Equal(t, uint64(3), histogramCount(t, reg, "thermocord_poll_duration_seconds", map[string]string{}))
}

func TestPollMetricsRecordSkippedDoesNotObserveDuration(t *testing.T) {
	// Given
	reg := prometheus.NewRegistry()
	metrics, err := NewPollMetrics(reg)
	require.NoError(t, err)

	// When
	metrics.RecordSkipped()
	metrics.RecordSkipped()

	// Then
	assert.Equal(t, 2.0, counterValue(t, reg, "thermocord_poll_cycles_total", map[string]string{"outcome": OutcomeSkipped}))
	assert.Equal(t, uint64(0), histogramCount(t, reg, "thermocord_poll_duration_seconds", map[string]string{}))
}

func TestPollMetricsWithNilMetricsSafe(t *testing.T) {
	// Given
	var metrics *PollMetrics

	// When (should not panic)
	metrics.RecordCycle(OutcomeSent, 1)
	metrics.RecordSkipped()

	// Then (no error expected)
}
