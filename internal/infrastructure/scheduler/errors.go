package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when submitting to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobQueueFull is returned when the job queue is full
	ErrJobQueueFull = errors.New("job queue is full")

	// ErrUnknownJob is returned when triggering a job that was never registered
	ErrUnknownJob = errors.New("unknown scheduled job")

	// ErrInvalidSchedule is returned for an unparsable cron expression
	ErrInvalidSchedule = errors.New("invalid cron expression")
)
