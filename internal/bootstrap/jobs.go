package bootstrap

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/infrastructure/scheduler"
	"go.uber.org/zap"
)

// JobSpec is a background job with its cron expression and guard
type JobSpec struct {
	Name  string
	Cron  string
	Task  scheduler.Task
	Guard scheduler.Guard
}

// Jobs returns the scheduled jobs sorted by name
func (a *App) Jobs() []JobSpec {
	cfg := a.Config.Scheduler
	log := a.Logger.Named("jobs")
	s := a.Services
	jobs := []JobSpec{
		{
			Name:  scheduler.JobRentInvoices,
			Cron:  cfg.RentInvoiceCron,
			Task:  scheduler.RentInvoiceTask(s.RentInvoice, time.Now, log),
			Guard: scheduler.GenerationDayGuard(a.Config.Billing.InvoiceGenerationDay),
		},
		{
			Name: scheduler.JobOverdue,
			Cron: cfg.OverdueCron,
			Task: scheduler.OverdueTask(s.RentInvoice, log),
		},
		{
			Name: scheduler.JobExpiry,
			Cron: cfg.ContractExpiryCron,
			Task: scheduler.ExpiryTask(s.Contract, s.Quotation, s.ExpiryNotifier, log),
		},
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })
	return jobs
}

// NewJobScheduler builds the worker pool and the cron trigger with every
// job registered. Neither is started.
func (a *App) NewJobScheduler() (*scheduler.Scheduler, *scheduler.CronTrigger, error) {
	cfg := a.Config.Scheduler
	log := a.Logger.Named("scheduler")
	pool := scheduler.NewScheduler(scheduler.Config{
		MaxConcurrentJobs: cfg.MaxConcurrentJobs,
		QueueSize:         cfg.QueueSize,
		JobTimeout:        cfg.JobTimeout,
		RetryAttempts:     cfg.RetryAttempts,
		RetryDelay:        cfg.RetryDelay,
	}, a.Metrics, log)

	trigger := scheduler.NewCronTrigger(pool, a.Accounts, time.Local, log)
	for _, job := range a.Jobs() {
		if err := trigger.Register(job.Name, job.Cron, job.Task, job.Guard); err != nil {
			return nil, nil, err
		}
	}
	return pool, trigger, nil
}

// RunJob runs a job synchronously for the given accounts, or for every
// account when none are given. Guards are ignored. It returns the number of
// accounts that failed.
func (a *App) RunJob(ctx context.Context, name string, accountIDs ...uuid.UUID) (int, error) {
	var job *JobSpec
	for _, j := range a.Jobs() {
		if j.Name == name {
			job = &j
			break
		}
	}
	if job == nil {
		return 0, fmt.Errorf("%w: %s", scheduler.ErrUnknownJob, name)
	}

	if len(accountIDs) == 0 {
		ids, err := a.Accounts.ListAccountIDs(ctx)
		if err != nil {
			return 0, err
		}
		accountIDs = ids
	}

	failed := 0
	for _, id := range accountIDs {
		start := time.Now()
		err := job.Task(ctx, id)
		a.Metrics.ObserveJob(job.Name, err, time.Since(start))
		if err != nil {
			failed++
			a.Logger.Error("Job failed",
				zap.String("job", job.Name),
				zap.String("account_id", id.String()),
				zap.Error(err))
		}
	}
	return failed, nil
}
