package sensor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/josimar-silva/thermocord/internal/infrastructure/logger"
	"github.com/josimar-silva/thermocord/internal/infrastructure/metrics"
)

// NotAvailable replaces any reading that could not be fetched.
const NotAvailable = "N/A"

// Reading names, appended to the base URL as "/<name>".
const (
	Temperature = "temperature"
	Humidity    = "humidity"
)

// maxResponseBodySize is the maximum allowed size for response bodies (1 MB).
const maxResponseBodySize = 1 * 1024 * 1024

const (
	logFieldURL        = "url"
	logFieldReading    = "reading"
	logFieldError      = "error"
	logFieldStatusCode = "status_code"
)

// ClientConfig defines the configuration for the sensor API client.
type ClientConfig struct {
	BaseURL string        // Used verbatim as the prefix of "/temperature" and "/humidity"
	Timeout time.Duration // Per-request timeout; zero waits indefinitely
}

// Client fetches plain-text readings from the sensor HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
	metrics    *metrics.Registry
}

// NewClient creates a sensor API client.
// The base URL is not checked here: a malformed URL surfaces as a failed fetch.
//
// Possible errors:
//   - ErrInvalidTimeout if config.Timeout is negative
//   - ErrNilLogger if logger is nil
func NewClient(config ClientConfig, log *logger.Logger) (*Client, error) {
	if config.Timeout < 0 {
		return nil, ErrInvalidTimeout
	}
	if log == nil {
		return nil, ErrNilLogger
	}

	return &Client{
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: log,
	}, nil
}

// SetMetrics sets the metrics registry for recording fetch metrics.
// Should be called before the client is actively used.
func (c *Client) SetMetrics(reg *metrics.Registry) {
	c.metrics = reg
}

// Fetch returns the body of GET {baseURL}/{reading}, or NotAvailable on any failure.
// Failures are logged at warn level and never returned.
func (c *Client) Fetch(ctx context.Context, reading string) string {
	startTime := time.Now()
	value, err := c.FetchReading(ctx, reading)
	duration := time.Since(startTime).Seconds()

	if c.metrics != nil {
		c.metrics.Reading.RecordFetch(reading, err == nil, duration)
	}

	if err != nil {
		c.logger.WarnContext(ctx, "failed to fetch reading",
			logFieldReading, reading,
			logFieldError, err,
		)
		return NotAvailable
	}
	return value
}

// FetchReading performs GET {baseURL}/{reading} and returns the raw body text.
//
// Returns:
//   - ErrFetchNetwork (wrapped) if the request cannot be built or sent
//   - ErrFetchStatus (wrapped) on a non-2xx response
//   - ErrFetchBody (wrapped) if the body cannot be read or exceeds 1 MB
func (c *Client) FetchReading(ctx context.Context, reading string) (string, error) {
	url := c.baseURL + "/" + reading

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrFetchNetwork, url, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrFetchNetwork, url, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close response body", logFieldError, closeErr)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize+1))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetchBody, err)
	}
	if len(body) > maxResponseBodySize {
		return "", fmt.Errorf("%w: response exceeds %d bytes", ErrFetchBody, maxResponseBodySize)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %d", ErrFetchStatus, resp.StatusCode)
	}

	c.logger.DebugContext(ctx, "fetched reading",
		logFieldURL, url,
		logFieldReading, reading,
		logFieldStatusCode, resp.StatusCode,
	)
	return string(body), nil
}
