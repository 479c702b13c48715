package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/printflowhq/printflow-backend/pkg/logger"
	"github.com/printflowhq/printflow-backend/pkg/metrics"
)

// Job is a unit of scheduled maintenance work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Service runs registered jobs on a fixed interval, one replica at a time.
type Service struct {
	logg     *logger.Logger
	locker   Locker
	jobStats *metrics.JobMetrics
	interval time.Duration
	lockTTL  time.Duration
	jobs     []Job
}

type ServiceParams struct {
	Logger   *logger.Logger
	Locker   Locker
	Metrics  *metrics.JobMetrics
	Interval time.Duration
	LockTTL  time.Duration
}

// NewService builds the job runner.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Locker == nil {
		return nil, fmt.Errorf("locker required")
	}
	if params.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive")
	}
	return &Service{
		logg:     params.Logger,
		locker:   params.Locker,
		jobStats: params.Metrics,
		interval: params.Interval,
		lockTTL:  params.LockTTL,
	}, nil
}

// Register adds a job to the schedule. Not safe to call once Run has started.
func (s *Service) Register(job Job) {
	s.jobs = append(s.jobs, job)
}

// Run executes the job loop until the context is canceled. Jobs run once at
// startup, then every interval.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.process(ctx); err != nil {
		s.logg.Error(ctx, "cron run failed", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "cron worker context canceled")
			return ctx.Err()
		case <-ticker.C:
			if err := s.process(ctx); err != nil {
				s.logg.Error(ctx, "cron run failed", err)
			}
		}
	}
}

func (s *Service) process(ctx context.Context) error {
	var errs []error
	for _, job := range s.jobs {
		if err := s.runJob(ctx, job); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", job.Name(), err))
		}
	}
	return multierr.Combine(errs...)
}

// runJob takes the distributed lock for the job, executes it, and records
// metrics. A lock held elsewhere skips the run silently; the owning replica
// covers it.
func (s *Service) runJob(ctx context.Context, job Job) error {
	acquired, err := s.locker.Acquire(ctx, job.Name(), s.lockTTL)
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !acquired {
		return nil
	}
	defer func() {
		if err := s.locker.Release(ctx, job.Name()); err != nil {
			s.logg.Error(ctx, "release cron lock", err)
		}
	}()

	started := time.Now()
	runErr := job.Run(ctx)
	s.jobStats.ObserveDuration(job.Name(), time.Since(started))
	if runErr != nil {
		s.jobStats.IncFailure(job.Name())
		return runErr
	}
	s.jobStats.IncSuccess(job.Name())
	return nil
}
