package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/pkg/logger"
	"github.com/gaze-network/distributor-network/pkg/logger/slogx"
)

// RunAtLayout is the time-of-day format of daily schedules.
const RunAtLayout = "15:04"

const shutdownTimeout = 180 * time.Second

// Job is a unit of work fired by the scheduler.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobFunc adapts a function to a named Job.
func JobFunc(name string, fn func(ctx context.Context) error) Job {
	return jobFunc{name: name, fn: fn}
}

type jobFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func (j jobFunc) Name() string                  { return j.name }
func (j jobFunc) Run(ctx context.Context) error { return j.fn(ctx) }

// Scheduler fires a job on a fixed schedule until it is shut down.
// A failed run is logged and the next run is still scheduled.
type Scheduler struct {
	job  Job
	next func(now time.Time) time.Time
	now  func() time.Time

	started  atomic.Bool
	quitOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

// NewDaily creates a scheduler that fires job every day at runAt ("15:04", UTC).
func NewDaily(job Job, runAt string) (*Scheduler, error) {
	at, err := time.Parse(RunAtLayout, runAt)
	if err != nil {
		return nil, errors.Wrapf(errs.InvalidArgument, "invalid run at %q, expected format %s", runAt, RunAtLayout)
	}
	return newScheduler(job, func(now time.Time) time.Time {
		return nextDaily(now, at.Hour(), at.Minute())
	}), nil
}

// NewInterval creates a scheduler that fires job every interval.
func NewInterval(job Job, interval time.Duration) (*Scheduler, error) {
	if interval <= 0 {
		return nil, errors.Wrapf(errs.InvalidArgument, "interval must be positive, got %s", interval)
	}
	return newScheduler(job, func(now time.Time) time.Time {
		return now.Add(interval)
	}), nil
}

func newScheduler(job Job, next func(now time.Time) time.Time) *Scheduler {
	return &Scheduler{
		job:  job,
		next: next,
		now:  time.Now,
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// nextDaily returns the first hour:minute UTC strictly after now.
func nextDaily(now time.Time, hour, minute int) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *Scheduler) Shutdown() error {
	return s.ShutdownWithContext(context.Background())
}

func (s *Scheduler) ShutdownWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.ShutdownWithContext(ctx)
}

// ShutdownWithContext stops scheduling and waits for an in-flight run to finish.
func (s *Scheduler) ShutdownWithContext(ctx context.Context) (err error) {
	s.quitOnce.Do(func() {
		close(s.quit)
		if !s.started.Load() {
			return
		}
		select {
		case <-s.done:
		case <-time.After(shutdownTimeout):
			err = errors.Wrap(errs.Timeout, "scheduler shutdown timeout")
		case <-ctx.Done():
			err = errors.Wrap(ctx.Err(), "scheduler shutdown context canceled")
		}
	})
	return
}

// Run blocks, firing the job on schedule, until ctx is done or the scheduler is shut down.
// A scheduler runs at most once.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return errors.Wrap(errs.Conflict, "scheduler already started")
	}
	defer close(s.done)

	ctx = logger.WithContext(ctx,
		slog.String("package", "scheduler"),
		slog.String("job", s.job.Name()),
	)

	for {
		nextRun := s.next(s.now())
		logger.InfoContext(ctx, "Scheduled next run", slogx.Time("next_run", nextRun))

		timer := time.NewTimer(time.Until(nextRun))
		select {
		case <-s.quit:
			timer.Stop()
			logger.InfoContext(ctx, "Got quit signal, stopping scheduler")
			return nil
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
			s.fire(ctx)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context) {
	startAt := time.Now()
	logger.InfoContext(ctx, "Running scheduled job")
	if err := s.job.Run(ctx); err != nil {
		logger.ErrorContext(ctx, "Scheduled job failed", slogx.Error(err), slogx.Duration("duration", time.Since(startAt)))
		return
	}
	logger.InfoContext(ctx, "Scheduled job finished", slogx.Duration("duration", time.Since(startAt)))
}
