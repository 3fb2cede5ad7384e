// Package scheduler runs the recurring per-account jobs: rent invoice
// generation, overdue marking and contract and quotation expiry.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// JobStatus represents the status of a scheduled job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Task is the work of a job for one account
type Task func(ctx context.Context, accountID uuid.UUID) error

// Job is one run of a task for one account
type Job struct {
	ID          uuid.UUID
	Name        string
	AccountID   uuid.UUID
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int

	task Task
}

// NewJob creates a pending job
func NewJob(name string, accountID uuid.UUID, task Task, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Name:       name,
		AccountID:  accountID,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
		task:       task,
	}
}

// Start marks the job as running
func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as successful
func (j *Job) Complete() {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

// Fail marks the job as failed
func (j *Job) Fail(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ShouldRetry returns true if the job should be retried
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// Observer is told the outcome of every job run
type Observer interface {
	ObserveJob(job string, err error, d time.Duration)
}

// Config holds worker pool configuration
type Config struct {
	MaxConcurrentJobs int
	QueueSize         int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

// DefaultConfig returns the default worker pool configuration
func DefaultConfig() Config {
	return Config{
		MaxConcurrentJobs: 3,
		QueueSize:         100,
		JobTimeout:        10 * time.Minute,
		RetryAttempts:     3,
		RetryDelay:        time.Minute,
	}
}

// Scheduler is a bounded worker pool executing jobs with a timeout and
// delayed retries
type Scheduler struct {
	config   Config
	logger   *zap.Logger
	observer Observer

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	retries   sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a new scheduler instance
func NewScheduler(config Config, observer Observer, logger *zap.Logger) *Scheduler {
	def := DefaultConfig()
	if config.MaxConcurrentJobs <= 0 {
		config.MaxConcurrentJobs = def.MaxConcurrentJobs
	}
	if config.QueueSize <= 0 {
		config.QueueSize = def.QueueSize
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = def.JobTimeout
	}
	if config.RetryAttempts < 0 {
		config.RetryAttempts = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		config:   config,
		logger:   logger,
		observer: observer,
		jobs:     make(chan *Job, config.QueueSize),
	}
}

// Start starts the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Job scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.config.JobTimeout))
	return nil
}

// Stop cancels running jobs and waits for the workers to exit
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.retries.Wait()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Job scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Job scheduler stop timed out")
		return ctx.Err()
	}
}

// Submit queues a job
func (s *Scheduler) Submit(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return ErrSchedulerNotRunning
	}

	select {
	case s.jobs <- job:
		s.logger.Debug("Job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("job", job.Name),
			zap.String("account_id", job.AccountID.String()))
		return nil
	default:
		return ErrJobQueueFull
	}
}

// Schedule creates and queues a job for one account
func (s *Scheduler) Schedule(name string, accountID uuid.UUID, task Task) error {
	return s.Submit(NewJob(name, accountID, task, s.config.RetryAttempts))
}

func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.jobs:
			s.processJob(ctx, job, workerID)
		}
	}
}

func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	job.Start()
	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()
	jobCtx, span := telemetry.StartSpan(jobCtx, "job."+job.Name,
		telemetry.Attr("account_id", job.AccountID),
		telemetry.Attr("retry_count", job.RetryCount))

	err := job.task(jobCtx, job.AccountID)
	telemetry.End(span, err)
	duration := time.Since(*job.StartedAt)
	if s.observer != nil {
		s.observer.ObserveJob(job.Name, err, duration)
	}
	if err == nil {
		job.Complete()
		s.logger.Info("Job completed",
			zap.Int("worker_id", workerID),
			zap.String("job", job.Name),
			zap.String("account_id", job.AccountID.String()),
			zap.Duration("duration", duration))
		return
	}

	job.Fail(err.Error())
	s.logger.Error("Job failed",
		zap.Int("worker_id", workerID),
		zap.String("job", job.Name),
		zap.String("account_id", job.AccountID.String()),
		zap.Int("retry_count", job.RetryCount),
		zap.Error(err))
	if job.ShouldRetry() && ctx.Err() == nil {
		s.retryLater(ctx, job)
	}
}

// retryLater resubmits the job after the retry delay without holding a worker
func (s *Scheduler) retryLater(ctx context.Context, job *Job) {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.retries.Add(1)
	s.mu.Unlock()

	job.RetryCount++
	job.Status = JobStatusPending
	go func() {
		defer s.retries.Done()
		timer := time.NewTimer(s.config.RetryDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if err := s.Submit(job); err != nil {
			s.logger.Warn("Failed to re-queue job for retry",
				zap.String("job", job.Name),
				zap.String("account_id", job.AccountID.String()),
				zap.Error(err))
		}
	}()
}
