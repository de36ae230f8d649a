package config

import (
	"time"
)

// Config represents the root configuration structure for thermocord.
//
// Key names follow the historical config.json layout so existing files load
// unchanged. The struct is read-only once Load returns.
type Config struct {
	ClientID       string             `yaml:"clientId" toml:"clientId"`
	APIBaseURL     string             `yaml:"apiBaseURL" toml:"apiBaseURL"`
	UpdateInterval float64            `yaml:"updateInterval" toml:"updateInterval"` // seconds
	RichPresence   RichPresenceConfig `yaml:"rich_presence" toml:"rich_presence"`
	Settings       SettingsConfig     `yaml:"settings" toml:"settings"`
}

// RichPresenceConfig holds the text shown in the chat client's status card.
type RichPresenceConfig struct {
	Details          string       `yaml:"details" toml:"details"`
	State            string       `yaml:"state" toml:"state"`
	TemperatureLabel string       `yaml:"temperature" toml:"temperature"`
	HumidityLabel    string       `yaml:"humidity" toml:"humidity"`
	Button           ButtonConfig `yaml:"button" toml:"button"`
}

// ButtonConfig defines the single action button attached to the activity.
type ButtonConfig struct {
	LabelText   string `yaml:"buttonLabelText" toml:"buttonLabelText"`
	RedirectURL string `yaml:"buttonRedirectUrl" toml:"buttonRedirectUrl"`
}

// SettingsConfig defines process-level settings that are not part of the
// presence itself.
type SettingsConfig struct {
	Logging       LoggingConfig       `yaml:"logging" toml:"logging"`
	Fetch         FetchConfig         `yaml:"fetch" toml:"fetch"`
	Observability ObservabilityConfig `yaml:"observability" toml:"observability"`
}

// LoggingConfig defines logging configuration for structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // console, json or text
}

// FetchConfig tunes the sensor API client.
type FetchConfig struct {
	Timeout time.Duration `yaml:"timeout" toml:"timeout"` // 0 disables the timeout
}

// ObservabilityConfig defines observability settings including health checks and metrics.
type ObservabilityConfig struct {
	HealthCheck HealthCheckConfig `yaml:"healthCheck" toml:"healthCheck"`
	Metrics     MetricsConfig     `yaml:"metrics" toml:"metrics"`
}

// HealthCheckConfig defines health check endpoint configuration.
type HealthCheckConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"` // Enable /health, /live, /ready, /version endpoints
	Port    int  `yaml:"port" toml:"port"`
}

// MetricsConfig defines metrics endpoint configuration.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"` // Enable /metrics endpoint (Prometheus format)
	Port    int  `yaml:"port" toml:"port"`
}

// Interval returns UpdateInterval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.UpdateInterval * float64(time.Second))
}
