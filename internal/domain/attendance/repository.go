package attendance

import (
	"context"
	"time"
)

// EventRepository persists ledger events. Implementations must reject a second
// event with the same (employee, kind, window start) with ErrDuplicateEvent.
type EventRepository interface {
	// Append stores a new event.
	Append(ctx context.Context, event Event) (Event, error)

	// List returns events matching filter, newest first by timestamp then id,
	// honouring filter.Limit and filter.Offset.
	List(ctx context.Context, filter Filter) ([]Event, error)

	// Count returns how many events match filter, ignoring paging.
	Count(ctx context.Context, filter Filter) (int, error)

	// ExistsInWindow reports whether the employee already has an event of kind
	// with the given window start.
	ExistsInWindow(ctx context.Context, employeeID string, kind Kind, windowStart time.Time) (bool, error)
}
