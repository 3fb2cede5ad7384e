package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// AccountProvider lists the accounts jobs run for
type AccountProvider interface {
	ListAccountIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Guard decides whether a firing should run, e.g. only on the invoice day
type Guard func(now time.Time) bool

type cronJob struct {
	name  string
	spec  string
	task  Task
	guard Guard
}

// CronTrigger fans cron firings out to one job per account
type CronTrigger struct {
	cron      *cron.Cron
	scheduler *Scheduler
	accounts  AccountProvider
	logger    *zap.Logger
	now       func() time.Time

	mu   sync.Mutex
	jobs map[string]cronJob
}

// NewCronTrigger creates a trigger evaluating expressions in loc
func NewCronTrigger(scheduler *Scheduler, accounts AccountProvider, loc *time.Location, logger *zap.Logger) *CronTrigger {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := cronLogger{logger.Sugar()}
	return &CronTrigger{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		scheduler: scheduler,
		accounts:  accounts,
		logger:    logger,
		now:       func() time.Time { return time.Now().In(loc) },
		jobs:      make(map[string]cronJob),
	}
}

// Register adds a named job on a standard five-field cron expression. An
// empty spec leaves the job registered for manual triggering only.
func (c *CronTrigger) Register(name, spec string, task Task, guard Guard) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	job := cronJob{name: name, spec: spec, task: task, guard: guard}
	if spec != "" {
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("%w %q for %s: %v", ErrInvalidSchedule, spec, name, err)
		}
		if _, err := c.cron.AddFunc(spec, func() { c.fire(context.Background(), job, false) }); err != nil {
			return err
		}
	}
	c.jobs[name] = job
	return nil
}

// Jobs lists the registered job names with their expressions
func (c *CronTrigger) Jobs() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.jobs))
	for name, j := range c.jobs {
		out[name] = j.spec
	}
	return out
}

// Trigger runs a registered job now for every account, ignoring its guard
func (c *CronTrigger) Trigger(ctx context.Context, name string) (int, error) {
	c.mu.Lock()
	job, ok := c.jobs[name]
	c.mu.Unlock()
	if !ok {
		return 0, ErrUnknownJob
	}
	return c.fire(ctx, job, true), nil
}

// fire submits one job per account and returns how many were queued
func (c *CronTrigger) fire(ctx context.Context, job cronJob, force bool) int {
	if !force && job.guard != nil && !job.guard(c.now()) {
		c.logger.Debug("Scheduled job skipped by guard", zap.String("job", job.name))
		return 0
	}
	ids, err := c.accounts.ListAccountIDs(ctx)
	if err != nil {
		c.logger.Error("Failed to list accounts for scheduled job", zap.String("job", job.name), zap.Error(err))
		return 0
	}
	queued := 0
	for _, id := range ids {
		if err := c.scheduler.Schedule(job.name, id, job.task); err != nil {
			c.logger.Warn("Failed to queue scheduled job",
				zap.String("job", job.name),
				zap.String("account_id", id.String()),
				zap.Error(err))
			continue
		}
		queued++
	}
	c.logger.Info("Scheduled job fired", zap.String("job", job.name), zap.Int("accounts", queued))
	return queued
}

// Start starts the cron loop
func (c *CronTrigger) Start() {
	c.cron.Start()
}

// Stop stops the cron loop and waits for running firings
func (c *CronTrigger) Stop(ctx context.Context) error {
	select {
	case <-c.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
