package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/lock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler(lock.NewLocalLocker())

	var a, b atomic.Int32
	s.AddJob("a", time.Minute, func(context.Context) error { a.Add(1); return nil })
	s.AddJob("b", time.Minute, func(context.Context) error { b.Add(1); return errors.New("boom") })

	assert.Equal(t, 2, s.RunOnce(context.Background()))
	assert.EqualValues(t, 1, a.Load())
	assert.EqualValues(t, 1, b.Load())
}

func TestScheduler_SkipsWhenLockHeld(t *testing.T) {
	locker := lock.NewLocalLocker()
	unlock, err := locker.Lock(context.Background(), "cron:sweep", time.Minute)
	require.NoError(t, err)

	s := NewScheduler(locker)
	var runs atomic.Int32
	s.AddJob("sweep", time.Minute, func(context.Context) error { runs.Add(1); return nil })

	assert.Equal(t, 0, s.RunOnce(context.Background()))
	assert.EqualValues(t, 0, runs.Load())

	require.NoError(t, unlock(context.Background()))
	assert.Equal(t, 1, s.RunOnce(context.Background()))
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(lock.NewLocalLocker())

	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})
	s.Start()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}

	s.Stop()
	s.Stop()
}

type absenceCounter struct {
	attendance.AttendanceService
	calls []time.Time
	err   error
}

func (a *absenceCounter) MarkAbsent(ctx context.Context, now time.Time) (int, error) {
	a.calls = append(a.calls, now)
	return len(a.calls), a.err
}

func TestAttendanceJobs_MarkAbsentEmployees(t *testing.T) {
	svc := &absenceCounter{}
	jobs := NewAttendanceJobs(svc, 15*time.Minute)
	fixed := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	jobs.now = func() time.Time { return fixed }

	s := NewScheduler(lock.NewLocalLocker())
	jobs.RegisterJobs(s)
	assert.Equal(t, 1, s.RunOnce(context.Background()))
	require.Len(t, svc.calls, 1)
	assert.Equal(t, fixed, svc.calls[0])

	svc.err = errors.New("db down")
	err := jobs.MarkAbsentEmployees(context.Background())
	assert.ErrorContains(t, err, "db down")
}
