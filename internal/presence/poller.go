package presence

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/josimar-silva/thermocord/internal/client/discord"
	"github.com/josimar-silva/thermocord/internal/client/sensor"
	"github.com/josimar-silva/thermocord/internal/config"
	"github.com/josimar-silva/thermocord/internal/infrastructure/logger"
)

// Poller runs one fetch-and-publish cycle per call to PollOnce.
// It holds no state between cycles besides the user tag used in logs.
type Poller struct {
	config   *config.Config
	fetcher  ReadingFetcher
	presence ActivitySetter
	clock    clockwork.Clock
	logger   *logger.Logger
	pid      int

	mu      sync.RWMutex
	userTag string
}

// NewPoller creates a Poller for the given configuration.
// Panics if any parameter is nil.
func NewPoller(cfg *config.Config, fetcher ReadingFetcher, presence ActivitySetter, clock clockwork.Clock, log *logger.Logger) *Poller {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if fetcher == nil {
		panic("fetcher cannot be nil")
	}
	if presence == nil {
		panic("presence client cannot be nil")
	}
	if clock == nil {
		panic("clock cannot be nil")
	}
	if log == nil {
		panic("logger cannot be nil")
	}

	return &Poller{
		config:   cfg,
		fetcher:  fetcher,
		presence: presence,
		clock:    clock,
		logger:   log,
		pid:      os.Getpid(),
	}
}

// SetUserTag sets the account name reported in success logs.
func (p *Poller) SetUserTag(tag string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.userTag = tag
}

func (p *Poller) tag() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.userTag
}

// PollOnce fetches both readings, builds the activity and publishes it.
// sent is true once SetActivity has been issued, even if it then failed;
// the failure is returned to the caller.
func (p *Poller) PollOnce(ctx context.Context) (bool, error) {
	reading := p.FetchReadings(ctx)
	p.logger.InfoContext(ctx, fmt.Sprintf("Temperature: %s, Humidity: %s", reading.Temperature, reading.Humidity),
		"temperature", reading.Temperature,
		"humidity", reading.Humidity,
	)

	activity := p.BuildActivity(reading, p.clock.Now())
	if err := p.presence.SetActivity(ctx, p.pid, activity); err != nil {
		return true, fmt.Errorf("%w: %w", ErrSetActivityFailed, err)
	}

	p.logger.SuccessContext(ctx, "Successfully updated rich presence", "user", p.tag())
	return true, nil
}

// FetchReadings requests temperature and humidity concurrently and joins on both.
// Unavailable readings come back as the fetcher's sentinel.
func (p *Poller) FetchReadings(ctx context.Context) Reading {
	var reading Reading

	var g errgroup.Group
	g.Go(func() error {
		reading.Temperature = p.fetcher.Fetch(ctx, sensor.Temperature)
		return nil
	})
	g.Go(func() error {
		reading.Humidity = p.fetcher.Fetch(ctx, sensor.Humidity)
		return nil
	})
	_ = g.Wait()

	return reading
}

// BuildActivity renders reading into the activity shown until the next cycle.
func (p *Poller) BuildActivity(reading Reading, now time.Time) discord.Activity {
	rp := p.config.RichPresence
	start := now.UnixMilli()
	end := start + int64(p.config.UpdateInterval*1000)

	return discord.Activity{
		Details: fmt.Sprintf("%s: %s °C", rp.TemperatureLabel, reading.Temperature),
		State:   fmt.Sprintf("%s: %s %%", rp.HumidityLabel, reading.Humidity),
		Timestamps: &discord.Timestamps{
			Start: start,
			End:   end,
		},
		Buttons: []discord.Button{
			{Label: rp.Button.LabelText, URL: rp.Button.RedirectURL},
		},
		Instance: true,
	}
}
