package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
)

// AttendanceJobs holds the periodic ledger maintenance.
type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	sweepEvery        time.Duration
	now               func() time.Time
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService, sweepEvery time.Duration) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		sweepEvery:        sweepEvery,
		now:               time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_absent_employees", j.sweepEvery, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees records ABSENT for every required shift that ended
// without a check-in. Re-running it is harmless.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	marked, err := j.attendanceService.MarkAbsent(ctx, j.now())
	if err != nil {
		return fmt.Errorf("mark absent: %w", err)
	}
	if marked > 0 {
		slog.Info("cron: marked employees absent", "count", marked)
	}
	return nil
}
