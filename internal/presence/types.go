package presence

import (
	"context"
	"time"

	"github.com/josimar-silva/thermocord/internal/client/discord"
)

// ReadingFetcher returns the text of a named reading, or a sentinel when it is unavailable.
type ReadingFetcher interface {
	Fetch(ctx context.Context, reading string) string
}

// ActivitySetter publishes a rich presence activity for a process.
type ActivitySetter interface {
	SetActivity(ctx context.Context, pid int, activity discord.Activity) error
}

// Cycle is one unit of scheduled work.
type Cycle interface {
	PollOnce(ctx context.Context) (bool, error)
}

// StatusRecorder receives the outcome of every finished poll cycle.
type StatusRecorder interface {
	Record(status CycleStatus)
}

// Reading is the pair of values fetched during one cycle.
type Reading struct {
	Temperature string
	Humidity    string
}

// CycleStatus describes a finished poll cycle.
type CycleStatus struct {
	CycleID    string
	StartedAt  time.Time
	FinishedAt time.Time
	Sent       bool
	Error      string
}

// Duration returns how long the cycle ran.
func (s CycleStatus) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// SchedulerConfig controls when poll cycles run.
type SchedulerConfig struct {
	InitialDelay time.Duration // One-shot delay before the first cycle
	Interval     time.Duration // Period of the repeating schedule; not armed when <= 0
}

// DefaultInitialDelay is the delay before the first poll after startup.
const DefaultInitialDelay = 5 * time.Second
