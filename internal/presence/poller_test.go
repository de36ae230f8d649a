package presence

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josimar-silva/thermocord/internal/client/discord"
	"github.com/josimar-silva/thermocord/internal/client/sensor"
	"github.com/josimar-silva/thermocord/internal/config"
	"github.com/josimar-silva/thermocord/internal/infrastructure/logger"
)

func newTestLogger() *logger.Logger {
	return logger.New(logger.LevelError, logger.TEXT, nil)
}

func testConfig() *config.Config {
	return &config.Config{
		ClientID:       "1087654321012345678",
		APIBaseURL:     "http://sensor.local",
		UpdateInterval: 10,
		RichPresence: config.RichPresenceConfig{
			TemperatureLabel: "Temperature",
			HumidityLabel:    "Humidity",
			Button: config.ButtonConfig{
				LabelText:   "Dashboard",
				RedirectURL: "https://example.com/dashboard",
			},
		},
	}
}

type stubFetcher struct {
	mu       sync.Mutex
	values   map[string]string
	requests []string
}

func (f *stubFetcher) Fetch(_ context.Context, reading string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, reading)
	if v, ok := f.values[reading]; ok {
		return v
	}
	return sensor.NotAvailable
}

type stubPresence struct {
	mu         sync.Mutex
	err        error
	pids       []int
	activities []discord.Activity
}

func (p *stubPresence) SetActivity(_ context.Context, pid int, activity discord.Activity) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pids = append(p.pids, pid)
	p.activities = append(p.activities, activity)
	return p.err
}

func (p *stubPresence) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.activities)
}

func TestNewPollerPanicsOnNilCollaborators(t *testing.T) {
	cfg := testConfig()
	fetcher := &stubFetcher{}
	presence := &stubPresence{}
	clock := clockwork.NewFakeClock()
	log := newTestLogger()

	assert.Panics(t, func() { NewPoller(nil, fetcher, presence, clock, log) })
	assert.Panics(t, func() { NewPoller(cfg, nil, presence, clock, log) })
	assert.Panics(t, func() { NewPoller(cfg, fetcher, nil, clock, log) })
	assert.Panics(t, func() { NewPoller(cfg, fetcher, presence, nil, log) })
	assert.Panics(t, func() { NewPoller(cfg, fetcher, presence, clock, nil) })
}

func TestBuildActivityFormatsReadings(t *testing.T) {
	// Given
	poller := NewPoller(testConfig(), &stubFetcher{}, &stubPresence{}, clockwork.NewFakeClock(), newTestLogger())
	now := time.Date(2026, 10, 17, 20, 30, 5, 0, time.UTC)

	// When
	activity := poller.BuildActivity(Reading{Temperature: "21.5", Humidity: "40"}, now)

	// Then
	assert.Equal(t, "Temperature: 21.5 °C", activity.Details)
	assert.Equal(t, "Humidity: 40 %", activity.State)
	require.NotNil(t, activity.Timestamps)
	assert.Equal(t, now.UnixMilli(), activity.Timestamps.Start)
	assert.Equal(t, int64(10000), activity.Timestamps.End-activity.Timestamps.Start)
	assert.Equal(t, []discord.Button{{Label: "Dashboard", URL: "https://example.com/dashboard"}}, activity.Buttons)
	assert.True(t, activity.Instance)
}

func TestBuildActivityFractionalInterval(t *testing.T) {
	// Given
	cfg := testConfig()
	cfg.UpdateInterval = 0.5
	poller := NewPoller(cfg, &stubFetcher{}, &stubPresence{}, clockwork.NewFakeClock(), newTestLogger())

	// When
	activity := poller.BuildActivity(Reading{}, time.Unix(100, 0))

	// Then
	assert.Equal(t, int64(500), activity.Timestamps.End-activity.Timestamps.Start)
}

func TestPollOnceSendsActivityFromReadings(t *testing.T) {
	// Given
	fetcher := &stubFetcher{values: map[string]string{
		sensor.Temperature: "22.1",
		sensor.Humidity:    "55",
	}}
	presence := &stubPresence{}
	clock := clockwork.NewFakeClockAt(time.Unix(1_700_000_000, 0))
	poller := NewPoller(testConfig(), fetcher, presence, clock, newTestLogger())
	poller.SetUserTag("ana#0420")

	// When
	sent, err := poller.PollOnce(context.Background())

	// Then
	require.NoError(t, err)
	assert.True(t, sent)
	require.Equal(t, 1, presence.calls())
	assert.Equal(t, os.Getpid(), presence.pids[0])
	assert.Equal(t, "Temperature: 22.1 °C", presence.activities[0].Details)
	assert.Equal(t, "Humidity: 55 %", presence.activities[0].State)
	assert.Equal(t, int64(1_700_000_000_000), presence.activities[0].Timestamps.Start)
	assert.ElementsMatch(t, []string{sensor.Temperature, sensor.Humidity}, fetcher.requests)
}

func TestPollOnceKeepsHumidityWhenTemperatureFails(t *testing.T) {
	// Given: /temperature answers 500 and /humidity answers "55"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/humidity" {
			_, _ = w.Write([]byte("55"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher, err := sensor.NewClient(sensor.ClientConfig{BaseURL: server.URL}, newTestLogger())
	require.NoError(t, err)
	presence := &stubPresence{}
	poller := NewPoller(testConfig(), fetcher, presence, clockwork.NewFakeClock(), newTestLogger())

	// When
	reading := poller.FetchReadings(context.Background())
	sent, err := poller.PollOnce(context.Background())

	// Then: only the failed reading falls back
	assert.Equal(t, Reading{Temperature: sensor.NotAvailable, Humidity: "55"}, reading)
	require.NoError(t, err)
	assert.True(t, sent)
	require.Equal(t, 1, presence.calls())
	assert.Equal(t, "Temperature: N/A °C", presence.activities[0].Details)
	assert.Equal(t, "Humidity: 55 %", presence.activities[0].State)
}

func TestPollOnceSendsNotAvailableReadings(t *testing.T) {
	// Given: the sensor API is down
	presence := &stubPresence{}
	poller := NewPoller(testConfig(), &stubFetcher{}, presence, clockwork.NewFakeClock(), newTestLogger())

	// When
	sent, err := poller.PollOnce(context.Background())

	// Then
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, "Temperature: N/A °C", presence.activities[0].Details)
	assert.Equal(t, "Humidity: N/A %", presence.activities[0].State)
}

func TestPollOnceReturnsSetActivityError(t *testing.T) {
	// Given
	rejected := errors.New("rejected")
	presence := &stubPresence{err: rejected}
	poller := NewPoller(testConfig(), &stubFetcher{}, presence, clockwork.NewFakeClock(), newTestLogger())

	// When
	sent, err := poller.PollOnce(context.Background())

	// Then
	assert.True(t, sent)
	assert.ErrorIs(t, err, ErrSetActivityFailed)
	assert.ErrorIs(t, err, rejected)
}

// rendezvousFetcher only answers once both readings have been requested,
// so a sequential caller times out.
type rendezvousFetcher struct {
	arrived sync.WaitGroup
	both    chan struct{}
}

func newRendezvousFetcher() *rendezvousFetcher {
	f := &rendezvousFetcher{both: make(chan struct{})}
	f.arrived.Add(2)
	go func() {
		f.arrived.Wait()
		close(f.both)
	}()
	return f
}

func (f *rendezvousFetcher) Fetch(_ context.Context, reading string) string {
	f.arrived.Done()
	select {
	case <-f.both:
		return reading + "-ok"
	case <-time.After(time.Second):
		return "timeout"
	}
}

func TestFetchReadingsRunsConcurrently(t *testing.T) {
	// Given
	poller := NewPoller(testConfig(), newRendezvousFetcher(), &stubPresence{}, clockwork.NewFakeClock(), newTestLogger())

	// When
	reading := poller.FetchReadings(context.Background())

	// Then
	assert.Equal(t, "temperature-ok", reading.Temperature)
	assert.Equal(t, "humidity-ok", reading.Humidity)
}
