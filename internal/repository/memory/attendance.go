package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/google/uuid"
)

type EventRepository struct {
	store *Store
}

func (r *EventRepository) Append(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, e := range r.store.events {
		if e.EmployeeID == event.EmployeeID && e.Kind == event.Kind && e.WindowStart.Equal(event.WindowStart) {
			return attendance.Event{}, attendance.ErrDuplicateEvent
		}
	}

	if event.ID == "" {
		event.ID = uuid.Must(uuid.NewV7()).String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	r.store.events = append(r.store.events, event)
	return event, nil
}

func (r *EventRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Event, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []attendance.Event
	for _, e := range r.store.events {
		if filter.Match(e) {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b attendance.Event) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	out = out[min(filter.Offset, len(out)):]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *EventRepository) Count(ctx context.Context, filter attendance.Filter) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	n := 0
	for _, e := range r.store.events {
		if filter.Match(e) {
			n++
		}
	}
	return n, nil
}

func (r *EventRepository) ExistsInWindow(ctx context.Context, employeeID string, kind attendance.Kind, windowStart time.Time) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, e := range r.store.events {
		if e.EmployeeID == employeeID && e.Kind == kind && e.WindowStart.Equal(windowStart) {
			return true, nil
		}
	}
	return false, nil
}

// Len is the number of stored events.
func (r *EventRepository) Len() int {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.events)
}
