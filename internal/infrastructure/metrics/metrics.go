package metrics

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	successTrue  = "true"
	successFalse = "false"
)

var (
	// ErrMetricRegistrationFailed is returned when a metric fails to register with the Prometheus registry.
	ErrMetricRegistrationFailed = errors.New("metric registration failed")
)

type Registry struct {
	registry *prometheus.Registry
	Poll     *PollMetrics
	Reading  *ReadingMetrics
	Presence *PresenceMetrics
	Config   *ConfigMetrics
}

// New creates a new Registry and initializes all metrics.
// Returns an error if metric registration fails.
func New() (*Registry, error) {
	reg := prometheus.NewRegistry()

	pollMetrics, err := NewPollMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize poll metrics: %w", err)
	}

	readingMetrics, err := NewReadingMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize reading metrics: %w", err)
	}

	presenceMetrics, err := NewPresenceMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize presence metrics: %w", err)
	}

	configMetrics, err := NewConfigMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config metrics: %w", err)
	}

	return &Registry{
		registry: reg,
		Poll:     pollMetrics,
		Reading:  readingMetrics,
		Presence: presenceMetrics,
		Config:   configMetrics,
	}, nil
}

// Handler returns an HTTP handler that exposes metrics in Prometheus format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer returns the underlying prometheus.Gatherer for testing.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

func registerCollector(reg *prometheus.Registry, collector prometheus.Collector) error {
	if err := reg.Register(collector); err != nil {
		return fmt.Errorf("%w: %w", ErrMetricRegistrationFailed, err)
	}
	return nil
}

func successLabel(success bool) string {
	if success {
		return successTrue
	}
	return successFalse
}
