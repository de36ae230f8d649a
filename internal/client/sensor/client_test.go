package sensor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josimar-silva/thermocord/internal/infrastructure/logger"
	"github.com/josimar-silva/thermocord/internal/infrastructure/metrics"
)

func newTestLogger() *logger.Logger {
	return logger.New(logger.LevelError, logger.TEXT, nil)
}

func newTestClient(t *testing.T, baseURL string, timeout time.Duration) *Client {
	t.Helper()

	client, err := NewClient(ClientConfig{BaseURL: baseURL, Timeout: timeout}, newTestLogger())
	require.NoError(t, err)
	return client
}

// sensorServer answers /temperature and /humidity with the given bodies and status.
func sensorServer(status int, bodies map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestNewClientValidParameters(t *testing.T) {
	// When
	client, err := NewClient(ClientConfig{BaseURL: "http://sensor.local", Timeout: 2 * time.Second}, newTestLogger())

	// Then
	require.NoError(t, err)
	assert.Equal(t, "http://sensor.local", client.baseURL)
	assert.Equal(t, 2*time.Second, client.httpClient.Timeout)
}

func TestNewClientAcceptsAnyBaseURL(t *testing.T) {
	for _, baseURL := range []string{"", "ftp://sensor.local", "not a url"} {
		t.Run(baseURL, func(t *testing.T) {
			client, err := NewClient(ClientConfig{BaseURL: baseURL}, newTestLogger())
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestNewClientInvalidParameters(t *testing.T) {
	tests := []struct {
		name     string
		config   ClientConfig
		log      *logger.Logger
		expected error
	}{
		{"negative timeout", ClientConfig{Timeout: -time.Second}, newTestLogger(), ErrInvalidTimeout},
		{"nil logger", ClientConfig{}, nil, ErrNilLogger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config, tt.log)
			assert.Nil(t, client)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestFetchReturnsBodyVerbatim(t *testing.T) {
	// Given
	server := sensorServer(http.StatusOK, map[string]string{
		"/temperature": "21.5",
		"/humidity":    " 40\n",
	})
	defer server.Close()
	client := newTestClient(t, server.URL, 0)

	// When
	temperature := client.Fetch(context.Background(), Temperature)
	humidity := client.Fetch(context.Background(), Humidity)

	// Then
	assert.Equal(t, "21.5", temperature)
	assert.Equal(t, " 40\n", humidity)
}

func TestFetchAcceptsAnySuccessStatus(t *testing.T) {
	// Given
	server := sensorServer(http.StatusAccepted, map[string]string{"/temperature": "19"})
	defer server.Close()
	client := newTestClient(t, server.URL, 0)

	// When
	value := client.Fetch(context.Background(), Temperature)

	// Then
	assert.Equal(t, "19", value)
}

func TestFetchFallsBackToNotAvailable(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"server error", http.StatusInternalServerError},
		{"not found", http.StatusNotFound},
		{"redirect without location", http.StatusMultipleChoices},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			server := sensorServer(tt.status, map[string]string{"/temperature": "oops"})
			defer server.Close()
			client := newTestClient(t, server.URL, 0)

			// When
			value := client.Fetch(context.Background(), Temperature)

			// Then
			assert.Equal(t, NotAvailable, value)
		})
	}
}

func TestFetchReadingWrapsStatusError(t *testing.T) {
	// Given
	server := sensorServer(http.StatusServiceUnavailable, map[string]string{"/humidity": ""})
	defer server.Close()
	client := newTestClient(t, server.URL, 0)

	// When
	_, err := client.FetchReading(context.Background(), Humidity)

	// Then
	assert.ErrorIs(t, err, ErrFetchStatus)
	assert.Contains(t, err.Error(), "503")
}

func TestFetchReadingRejectsOversizedBody(t *testing.T) {
	// Given: a body one byte over the cap
	server := sensorServer(http.StatusOK, map[string]string{
		"/temperature": strings.Repeat("1", maxResponseBodySize+1),
	})
	defer server.Close()
	client := newTestClient(t, server.URL, 0)

	// When
	_, err := client.FetchReading(context.Background(), Temperature)

	// Then
	assert.ErrorIs(t, err, ErrFetchBody)
	assert.Equal(t, NotAvailable, client.Fetch(context.Background(), Temperature))
}

func TestFetchReadingAcceptsBodyAtCap(t *testing.T) {
	// Given
	body := strings.Repeat("2", maxResponseBodySize)
	server := sensorServer(http.StatusOK, map[string]string{"/humidity": body})
	defer server.Close()
	client := newTestClient(t, server.URL, 0)

	// When
	value, err := client.FetchReading(context.Background(), Humidity)

	// Then
	require.NoError(t, err)
	assert.Len(t, value, maxResponseBodySize)
}

func TestFetchUnreachableHost(t *testing.T) {
	// Given: a server that is already gone
	server := sensorServer(http.StatusOK, map[string]string{"/temperature": "20"})
	baseURL := server.URL
	server.Close()
	client := newTestClient(t, baseURL, time.Second)

	// When
	_, err := client.FetchReading(context.Background(), Temperature)
	value := client.Fetch(context.Background(), Temperature)

	// Then
	assert.ErrorIs(t, err, ErrFetchNetwork)
	assert.Equal(t, NotAvailable, value)
}

func TestFetchUnsupportedScheme(t *testing.T) {
	// Given
	client := newTestClient(t, "ftp://sensor.local", 0)

	// When
	value := client.Fetch(context.Background(), Temperature)

	// Then
	assert.Equal(t, NotAvailable, value)
}

func TestFetchConcatenatesBaseURLLiterally(t *testing.T) {
	// Given: a base URL with a trailing slash is not normalised
	var path atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		_, _ = w.Write([]byte("1"))
	}))
	defer server.Close()
	client := newTestClient(t, server.URL+"/api/", 0)

	// When
	_ = client.Fetch(context.Background(), Temperature)

	// Then
	assert.Equal(t, "/api//temperature", path.Load())
}

func TestFetchTimesOut(t *testing.T) {
	// Given
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)
	client := newTestClient(t, server.URL, 50*time.Millisecond)

	// When
	_, err := client.FetchReading(context.Background(), Temperature)

	// Then
	assert.ErrorIs(t, err, ErrFetchNetwork)
}

func TestFetchRecordsMetrics(t *testing.T) {
	// Given
	server := sensorServer(http.StatusOK, map[string]string{"/temperature": "20"})
	defer server.Close()
	reg, err := metrics.New()
	require.NoError(t, err)
	client := newTestClient(t, server.URL, 0)
	client.SetMetrics(reg)

	// When
	_ = client.Fetch(context.Background(), Temperature)
	_ = client.Fetch(context.Background(), Humidity)

	// Then
	families, err := reg.Gatherer().Gather()
	require.NoError(t, err)

	outcomes := map[string]string{}
	for _, mf := range families {
		if mf.GetName() != "thermocord_reading_fetch_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			outcomes[labels["reading"]] = labels["success"]
		}
	}
	assert.Equal(t, "true", outcomes[Temperature])
	assert.Equal(t, "false", outcomes[Humidity])
}
