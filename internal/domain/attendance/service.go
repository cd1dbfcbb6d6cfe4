package attendance

import (
	"context"
	"time"
)

// AttendanceService records and reads attendance events.
type AttendanceService interface {
	// Check records a check-in or check-out for the authenticated employee.
	Check(ctx context.Context, req CheckRequest) (EventResponse, error)

	// ListEvents returns ledger events for supervisors and admins.
	ListEvents(ctx context.Context, filter ListFilter) (ListEventResponse, error)

	// MyEvents returns the caller's own events.
	MyEvents(ctx context.Context, employeeID string, filter ListFilter) (ListEventResponse, error)

	// MarkAbsent appends ABSENT events for employees whose shift ended without an IN.
	MarkAbsent(ctx context.Context, now time.Time) (int, error)
}
