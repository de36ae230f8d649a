package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// ConfigMetrics exposes the outcome of the startup configuration check.
type ConfigMetrics struct {
	configValid prometheus.Gauge
}

// NewConfigMetrics creates and registers configuration metrics with the provided registry.
func NewConfigMetrics(reg *prometheus.Registry) (*ConfigMetrics, error) {
	configValid := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "thermocord_config_valid",
			Help: "Whether the presence configuration passed validation (1=valid, 0=invalid)",
		},
	)

	if err := registerCollector(reg, configValid); err != nil {
		return nil, fmt.Errorf("failed to register thermocord_config_valid: %w", err)
	}

	return &ConfigMetrics{
		configValid: configValid,
	}, nil
}

// SetValid records the validation verdict.
// Does not return errors; metric recording is fail-safe.
func (c *ConfigMetrics) SetValid(valid bool) {
	if c == nil {
		return
	}

	defer func() {
		_ = recover()
	}()

	value := 0.0
	if valid {
		value = 1.0
	}
	c.configValid.Set(value)
}
