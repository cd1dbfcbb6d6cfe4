package attendance

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
)

// Ledger is the append-only attendance log. It enforces one event per kind
// per employee per shift window and serves ordered queries.
type Ledger struct {
	repo attendance.EventRepository
}

func NewLedger(repo attendance.EventRepository) *Ledger {
	return &Ledger{repo: repo}
}

// Record appends event after stamping its shift window. A second event of the
// same kind in the same window fails with ErrDuplicateEvent and stores nothing.
func (l *Ledger) Record(ctx context.Context, event attendance.Event, shift attendance.ShiftWindow) (attendance.Event, error) {
	event.WindowStart, _ = shift.Bounds(event.Timestamp)

	exists, err := l.repo.ExistsInWindow(ctx, event.EmployeeID, event.Kind, event.WindowStart)
	if err != nil {
		return attendance.Event{}, fmt.Errorf("check shift window: %w", err)
	}
	if exists {
		return attendance.Event{}, attendance.ErrDuplicateEvent
	}

	saved, err := l.repo.Append(ctx, event)
	if err != nil {
		return attendance.Event{}, fmt.Errorf("append event: %w", err)
	}
	return saved, nil
}

// Query returns the matching events, most recent first. The store does the
// ordering and paging, so only filter.Limit rows are read when a limit is set.
// The sequence can be ranged over any number of times.
func (l *Ledger) Query(ctx context.Context, filter attendance.Filter) (iter.Seq[attendance.Event], error) {
	events, err := l.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return slices.Values(events), nil
}

// Count returns the number of events matching filter, ignoring paging.
func (l *Ledger) Count(ctx context.Context, filter attendance.Filter) (int, error) {
	n, err := l.repo.Count(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}
