package presence

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/josimar-silva/thermocord/internal/infrastructure/logger"
	"github.com/josimar-silva/thermocord/internal/infrastructure/metrics"
)

const stopTimeout = 5 * time.Second

// Scheduler runs a Cycle once after an initial delay and then on a fixed period.
// Both timers are armed together by Start, and Stop cancels them.
// A tick that fires while the previous cycle is still running is skipped.
type Scheduler struct {
	cycle   Cycle
	config  SchedulerConfig
	clock   clockwork.Clock
	store   StatusRecorder
	logger  *logger.Logger
	metrics *metrics.Registry

	inFlight atomic.Bool
	cycles   sync.WaitGroup

	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex
}

// NewScheduler creates a new Scheduler.
// Panics if any parameter is nil.
func NewScheduler(cycle Cycle, cfg SchedulerConfig, clock clockwork.Clock, store StatusRecorder, log *logger.Logger) *Scheduler {
	if cycle == nil {
		panic("cycle cannot be nil")
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

	return &Scheduler{
		cycle:  cycle,
		config: cfg,
		clock:  clock,
		store:  store,
		logger: log,
	}
}

// SetMetrics sets the metrics registry for recording cycle metrics.
// Should be called before Start.
func (s *Scheduler) SetMetrics(reg *metrics.Registry) {
	s.metrics = reg
}

// Start arms the initial timer and the periodic ticker and begins dispatching cycles.
// Cancelling ctx has the same effect as Stop, without waiting.
//
// Returns ErrSchedulerAlreadyRunning if the scheduler is already running.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return ErrSchedulerAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)

	timer := s.clock.NewTimer(s.config.InitialDelay)
	var ticker clockwork.Ticker
	if s.config.Interval > 0 {
		ticker = s.clock.NewTicker(s.config.Interval)
	} else {
		s.logger.Warn("periodic polling disabled: interval is not positive",
			"interval", s.config.Interval,
		)
	}

	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(runCtx, timer, ticker, s.done)

	s.logger.Info("poll scheduler started",
		"initial_delay", s.config.InitialDelay,
		"interval", s.config.Interval,
	)
	return nil
}

// Stop cancels both timers and waits for the dispatcher and any running cycle to exit.
//
// Returns ErrSchedulerNotRunning if the scheduler is not running,
// or ErrSchedulerStopTimeout if shutdown takes longer than 5 seconds.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if s.cancel == nil {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}

	cancel := s.cancel
	dispatcherDone := s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	s.logger.Info("stopping poll scheduler")
	cancel()

	done := make(chan struct{})
	go func() {
		<-dispatcherDone
		s.cycles.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("poll scheduler stopped successfully")
		return nil
	case <-time.After(stopTimeout):
		s.logger.Warn("poll scheduler shutdown timed out")
		return ErrSchedulerStopTimeout
	}
}

// InFlight reports whether a cycle is currently running.
func (s *Scheduler) InFlight() bool {
	return s.inFlight.Load()
}

func (s *Scheduler) run(ctx context.Context, timer clockwork.Timer, ticker clockwork.Ticker, done chan struct{}) {
	defer close(done)
	defer timer.Stop()

	var tickC <-chan time.Time
	if ticker != nil {
		defer ticker.Stop()
		tickC = ticker.Chan()
	}
	timerC := timer.Chan()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("poll scheduler dispatcher stopping")
			return
		case <-timerC:
			timerC = nil
			s.dispatch(ctx)
		case <-tickC:
			s.dispatch(ctx)
		}
	}
}

// dispatch starts a cycle on its own goroutine unless one is already running.
func (s *Scheduler) dispatch(ctx context.Context) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.logger.Warn("previous poll cycle still running, skipping tick")
		if s.metrics != nil {
			s.metrics.Poll.RecordSkipped()
		}
		return
	}

	s.cycles.Add(1)
	go func() {
		defer s.cycles.Done()
		s.runCycle(ctx)
	}()
}

// runCycle is the top-level handler of a poll cycle.
// The in-flight flag is cleared before the outcome is recorded.
func (s *Scheduler) runCycle(ctx context.Context) {
	status := CycleStatus{
		CycleID:   uuid.NewString(),
		StartedAt: s.clock.Now(),
	}
	log := s.logger.With("cycle_id", status.CycleID)
	outcome := metrics.OutcomeSent

	defer func() {
		if r := recover(); r != nil {
			outcome = metrics.OutcomePanic
			status.Error = fmt.Sprintf("panic: %v", r)
			log.Error("poll cycle panicked",
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}

		status.FinishedAt = s.clock.Now()
		s.inFlight.Store(false)
		s.store.Record(status)
		if s.metrics != nil {
			s.metrics.Poll.RecordCycle(outcome, status.Duration().Seconds())
		}
	}()

	sent, err := s.cycle.PollOnce(ctx)
	status.Sent = sent
	if err != nil {
		outcome = metrics.OutcomeError
		status.Error = err.Error()
		log.ErrorContext(ctx, "poll cycle failed", "error", err)
		return
	}

	log.DebugContext(ctx, "poll cycle finished", "sent", sent)
}
