package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Presence rule violations. A *ValidationError wraps exactly one of these.
var (
	ErrBadAPIBaseURL  = errors.New("bad apiBaseURL")
	ErrBadInterval    = errors.New("bad interval")
	ErrBadDetails     = errors.New("bad details")
	ErrBadState       = errors.New("bad state")
	ErrBadButtonLabel = errors.New("bad button label")
	ErrBadButtonURL   = errors.New("bad button redirect url")
)

const (
	minTextLength        = 2
	maxTextLength        = 128
	minButtonLabelLength = 1
)

var (
	protocolRegex = regexp.MustCompile(`^(http|https)://`)

	validLogLevels = map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	validLogFormats = map[string]bool{
		"console": true,
		"json":    true,
		"text":    true,
	}
)

// ValidationError reports the first presence rule a configuration breaks.
type ValidationError struct {
	Field  string
	Reason error
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

type ValidationErrors struct {
	errors []error
}

func (v *ValidationErrors) Add(err error) {
	if err != nil {
		v.errors = append(v.errors, err)
	}
}

func (v *ValidationErrors) Error() string {
	if len(v.errors) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range v.errors {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.errors) > 0
}

func (v *ValidationErrors) Unwrap() []error {
	return v.errors
}

// ErrorCount returns the number of errors collected.
func (v *ValidationErrors) ErrorCount() int {
	return len(v.errors)
}

type presenceRule func(c *Config) error

// presenceRules run in this order; Validate stops at the first failure.
var presenceRules = []presenceRule{
	checkAPIBaseURL,
	checkInterval,
	checkDetails,
	checkState,
	checkButtonLabel,
	checkButtonURL,
}

// Validate checks the presence rules and returns the first violation as a
// *ValidationError, or nil when the configuration is valid.
func (c *Config) Validate() error {
	for _, rule := range presenceRules {
		if err := rule(c); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAll runs every presence rule and returns all violations at once.
// It is meant for diagnostics; Validate gives the verdict.
func (c *Config) ValidateAll() error {
	errs := &ValidationErrors{}
	for _, rule := range presenceRules {
		errs.Add(rule(c))
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}

func checkAPIBaseURL(c *Config) error {
	if !protocolRegex.MatchString(c.APIBaseURL) {
		return &ValidationError{
			Field:  "apiBaseURL",
			Reason: ErrBadAPIBaseURL,
			Detail: `apiBaseURL provided does not contain either "http://" OR "https://"`,
		}
	}
	return nil
}

func checkInterval(c *Config) error {
	if c.UpdateInterval <= 0 {
		return &ValidationError{
			Field:  "updateInterval",
			Reason: ErrBadInterval,
			Detail: fmt.Sprintf("updateInterval provided is not greater than 0, got %v", c.UpdateInterval),
		}
	}
	return nil
}

func checkDetails(c *Config) error {
	return checkOptionalText(c.RichPresence.Details, "rich_presence.details", "Details", ErrBadDetails)
}

func checkState(c *Config) error {
	return checkOptionalText(c.RichPresence.State, "rich_presence.state", "State", ErrBadState)
}

// checkOptionalText treats an empty value as absent.
func checkOptionalText(value, field, name string, reason error) error {
	if value == "" {
		return nil
	}
	length := utf8.RuneCountInString(value)
	if length > maxTextLength {
		return &ValidationError{
			Field:  field,
			Reason: reason,
			Detail: fmt.Sprintf("%s provided exceeds the maximum character length of %d", name, maxTextLength),
		}
	}
	if length < minTextLength {
		return &ValidationError{
			Field:  field,
			Reason: reason,
			Detail: fmt.Sprintf("%s provided does not meet the minimum character length of %d", name, minTextLength),
		}
	}
	return nil
}

func checkButtonLabel(c *Config) error {
	length := utf8.RuneCountInString(c.RichPresence.Button.LabelText)
	if length < minButtonLabelLength {
		return &ValidationError{
			Field:  "rich_presence.button.buttonLabelText",
			Reason: ErrBadButtonLabel,
			Detail: fmt.Sprintf("buttonLabelText provided does not meet the minimum character length of %d", minButtonLabelLength),
		}
	}
	if length > maxTextLength {
		return &ValidationError{
			Field:  "rich_presence.button.buttonLabelText",
			Reason: ErrBadButtonLabel,
			Detail: fmt.Sprintf("buttonLabelText provided exceeds the maximum character length of %d", maxTextLength),
		}
	}
	return nil
}

func checkButtonURL(c *Config) error {
	if !protocolRegex.MatchString(c.RichPresence.Button.RedirectURL) {
		return &ValidationError{
			Field:  "rich_presence.button.buttonRedirectUrl",
			Reason: ErrBadButtonURL,
			Detail: `buttonRedirectUrl provided does not contain either "http://" OR "https://"`,
		}
	}
	return nil
}

// ValidateSettings checks the process settings and accumulates every
// violation. Unlike the presence rules these are fatal at load time: the
// process cannot bind a port of 0 or pick an unknown log format.
func (c *Config) ValidateSettings() error {
	errs := &ValidationErrors{}

	c.validateLogging(errs)
	c.validateFetch(errs)
	c.validateObservability(errs)

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func (c *Config) validateLogging(errs *ValidationErrors) {
	if c.Settings.Logging.Level != "" {
		if !validLogLevels[c.Settings.Logging.Level] {
			errs.Add(fmt.Errorf("settings.logging.level: invalid level '%s', must be one of: debug, info, warn, error", c.Settings.Logging.Level))
		}
	}
	if c.Settings.Logging.Format != "" {
		if !validLogFormats[c.Settings.Logging.Format] {
			errs.Add(fmt.Errorf("settings.logging.format: invalid format '%s', must be one of: console, json, text", c.Settings.Logging.Format))
		}
	}
}

func (c *Config) validateFetch(errs *ValidationErrors) {
	if c.Settings.Fetch.Timeout < 0 {
		errs.Add(fmt.Errorf("settings.fetch.timeout: timeout must not be negative, got %s", c.Settings.Fetch.Timeout))
	}
}

func (c *Config) validateObservability(errs *ValidationErrors) {
	if c.Settings.Observability.HealthCheck.Enabled {
		errs.Add(validatePort(c.Settings.Observability.HealthCheck.Port, "settings.observability.healthCheck.port"))
	}
	if c.Settings.Observability.Metrics.Enabled {
		errs.Add(validatePort(c.Settings.Observability.Metrics.Port, "settings.observability.metrics.port"))
	}
	if c.Settings.Observability.HealthCheck.Enabled && c.Settings.Observability.Metrics.Enabled &&
		c.Settings.Observability.HealthCheck.Port == c.Settings.Observability.Metrics.Port {
		errs.Add(fmt.Errorf("settings.observability: healthCheck and metrics cannot share port %d", c.Settings.Observability.Metrics.Port))
	}
}

func validatePort(port int, field string) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s: port must be between 1 and 65535, got %d", field, port)
	}
	return nil
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	var validationErrs *ValidationErrors
	return errors.As(err, &validationErr) || errors.As(err, &validationErrs)
}
