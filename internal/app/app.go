package app

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/josimar-silva/thermocord/internal/client/discord"
	"github.com/josimar-silva/thermocord/internal/config"
	"github.com/josimar-silva/thermocord/internal/infrastructure/logger"
	"github.com/josimar-silva/thermocord/internal/infrastructure/metrics"
	"github.com/josimar-silva/thermocord/internal/presence"
)

var (
	// ErrLoginFailed is returned when the chat client cannot be reached or refuses the handshake.
	ErrLoginFailed = errors.New("failed to connect to the chat client")

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("app already started")

	// ErrNotStarted is returned when Stop is called before Start succeeded.
	ErrNotStarted = errors.New("app not started")
)

const connectHint = `Attempting to connect, please wait... (if it fails, "CTRL+R" in Discord and try again)`

// App runs the startup sequence: login, validate, then poll on a schedule.
type App struct {
	config  *config.Config
	session discord.Session
	fetcher presence.ReadingFetcher
	clock   clockwork.Clock
	store   presence.StatusRecorder
	logger  *logger.Logger
	metrics *metrics.Registry

	mu        sync.Mutex
	scheduler *presence.Scheduler
	user      discord.User
}

// New creates an App.
// Panics if any parameter is nil.
func New(cfg *config.Config, session discord.Session, fetcher presence.ReadingFetcher, clock clockwork.Clock, store presence.StatusRecorder, log *logger.Logger) *App {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if session == nil {
		panic("session cannot be nil")
	}
	if fetcher == nil {
		panic("fetcher cannot be nil")
	}
	if clock == nil {
		panic("clock cannot be nil")
	}
	if store == nil {
		panic("store cannot be nil")
	}
	if log == nil {
		panic("logger cannot be nil")
	}

	return &App{
		config:  cfg,
		session: session,
		fetcher: fetcher,
		clock:   clock,
		store:   store,
		logger:  log,
	}
}

// SetMetrics sets the metrics registry passed on to the scheduler and used for the config gauge.
// Should be called before Start.
func (a *App) SetMetrics(reg *metrics.Registry) {
	a.metrics = reg
}

// Start logs in, validates the configuration and arms the poll schedule.
// A login failure is terminal and returned; a configuration violation is only logged.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.scheduler != nil {
		return ErrAlreadyStarted
	}

	a.logger.InfoContext(ctx, connectHint)

	user, err := a.session.Login(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to connect", "error", err)
		return fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	a.user = user
	a.logger.SuccessContext(ctx, fmt.Sprintf("Successfully authorised as %s", user.Tag()), "user", user.Tag())

	a.validateConfig()

	poller := presence.NewPoller(a.config, a.fetcher, a.session, a.clock, a.logger)
	poller.SetUserTag(user.Tag())

	scheduler := presence.NewScheduler(poller, presence.SchedulerConfig{
		InitialDelay: presence.DefaultInitialDelay,
		Interval:     a.config.Interval(),
	}, a.clock, a.store, a.logger)
	scheduler.SetMetrics(a.metrics)

	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start poll scheduler: %w", err)
	}
	a.scheduler = scheduler
	return nil
}

// validateConfig reports the presence configuration verdict. It never stops startup.
func (a *App) validateConfig() {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("configuration check panicked",
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()

	a.logger.Info("Validating configuration...")

	if err := a.config.Validate(); err != nil {
		a.logger.Error(fmt.Sprintf("Invalid configuration: %v", err), "error", err)
		if all := a.config.ValidateAll(); all != nil {
			a.logger.Debug("all configuration violations", "errors", all.Error())
		}
		a.setConfigValid(false)
		return
	}

	a.logger.Success(fmt.Sprintf("Configuration is valid, authorised as %s", a.user.Tag()), "user", a.user.Tag())
	a.setConfigValid(true)
}

func (a *App) setConfigValid(valid bool) {
	if a.metrics != nil {
		a.metrics.Config.SetValid(valid)
	}
}

// User returns the account the app logged in with.
func (a *App) User() discord.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user
}

// Stop cancels the schedule, waits for a running cycle and closes the session.
func (a *App) Stop() error {
	a.mu.Lock()
	scheduler := a.scheduler
	a.scheduler = nil
	a.mu.Unlock()

	if scheduler == nil {
		return ErrNotStarted
	}

	var errs []error
	if err := scheduler.Stop(); err != nil {
		errs = append(errs, err)
	}
	if err := a.session.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
