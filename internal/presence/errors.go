package presence

import "errors"

var (
	// ErrSchedulerAlreadyRunning is returned when Start is called on a running scheduler.
	ErrSchedulerAlreadyRunning = errors.New("scheduler already running")

	// ErrSchedulerNotRunning is returned when Stop is called on a stopped scheduler.
	ErrSchedulerNotRunning = errors.New("scheduler not running")

	// ErrSchedulerStopTimeout is returned when the dispatcher does not exit in time.
	ErrSchedulerStopTimeout = errors.New("timeout waiting for scheduler to stop")

	// ErrSetActivityFailed wraps the presence client's error for a cycle.
	ErrSetActivityFailed = errors.New("failed to set activity")
)
