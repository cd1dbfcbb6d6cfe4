package cron

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/lock"
)

// acquireWait is how long a tick waits for the job lock before assuming
// another replica is already running the job.
const acquireWait = time.Second

// Job is a function run on a fixed interval.
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error
}

// Scheduler runs jobs on tickers. Each run holds a per-job lock, so with a
// shared Redis locker only one replica executes a given tick.
type Scheduler struct {
	locker lock.Locker
	jobs   []Job

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.Mutex
	started  bool
	stopOnce sync.Once
}

func NewScheduler(locker lock.Locker) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		locker: locker,
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob registers a job. Jobs added after Start are ignored.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		slog.Warn("cron job registered after start, ignoring", "name", name)
		return
	}
	s.jobs = append(s.jobs, Job{Name: name, Interval: interval, Fn: fn})
	slog.Info("cron job registered", "name", name, "interval", interval)
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(job)
	}

	slog.Info("cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels running jobs and waits for them to return. Safe to call twice.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		slog.Info("stopping cron scheduler")
		s.cancel()
		s.wg.Wait()
		slog.Info("cron scheduler stopped")
	})
}

func (s *Scheduler) runJob(job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	s.executeJob(s.ctx, job)

	for {
		select {
		case <-s.ctx.Done():
			slog.Debug("cron job stopping", "name", job.Name)
			return
		case <-ticker.C:
			s.executeJob(s.ctx, job)
		}
	}
}

// executeJob runs one tick of job. It reports whether the job ran; false
// means another holder had the lock.
func (s *Scheduler) executeJob(ctx context.Context, job Job) bool {
	acquireCtx, cancel := context.WithTimeout(ctx, acquireWait)
	unlock, err := s.locker.Lock(acquireCtx, "cron:"+job.Name, job.Interval)
	cancel()
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			slog.Debug("cron job skipped, lock held elsewhere", "name", job.Name)
		} else {
			slog.Error("cron job lock failed", "name", job.Name, "error", err)
		}
		return false
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("failed to release cron lock", "name", job.Name, "error", err)
		}
	}()

	// A run may not outlast its interval.
	runCtx, cancelRun := context.WithTimeout(ctx, job.Interval)
	defer cancelRun()

	start := time.Now()
	if err := job.Fn(runCtx); err != nil {
		slog.Error("cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
	} else {
		slog.Debug("cron job completed", "name", job.Name, "duration", time.Since(start))
	}
	return true
}

// RunOnce executes every registered job once and returns how many ran.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	ran := 0
	for _, job := range jobs {
		if s.executeJob(ctx, job) {
			ran++
		}
	}
	return ran
}
