package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const eventColumns = `
	id, employee_id, employee_name, department_id, kind, occurred_at,
	photo_ref, latitude, longitude, distance_meters, status, window_start, created_at`

type eventRepositoryImpl struct {
	db *database.DB
}

// NewEventRepository relies on the uq_attendance_events_window index for the
// one-event-per-kind-per-window rule.
func NewEventRepository(db *database.DB) attendance.EventRepository {
	return &eventRepositoryImpl{db: db}
}

func (r *eventRepositoryImpl) Append(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	if event.ID == "" {
		event.ID = uuid.Must(uuid.NewV7()).String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var lat, lng *float64
	if event.Position != nil {
		lat, lng = &event.Position.Latitude, &event.Position.Longitude
	}

	_, err := q.Exec(ctx, `
		INSERT INTO attendance_events (`+eventColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		event.ID, event.EmployeeID, event.EmployeeName, event.DepartmentID, string(event.Kind), event.Timestamp,
		event.PhotoRef, lat, lng, event.DistanceMeters, string(event.Status), event.WindowStart, event.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "uq_attendance_events_window") {
			return attendance.Event{}, attendance.ErrDuplicateEvent
		}
		return attendance.Event{}, fmt.Errorf("failed to append attendance event: %w", err)
	}

	return event, nil
}

func (r *eventRepositoryImpl) List(ctx context.Context, filter attendance.Filter) ([]attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	where, args := eventWhere(filter)
	query := `SELECT ` + eventColumns + ` FROM attendance_events` + where +
		` ORDER BY occurred_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance events: %w", err)
	}
	events, err := pgx.CollectRows(rows, scanEvent)
	if err != nil {
		return nil, fmt.Errorf("failed to scan attendance events: %w", err)
	}
	return events, nil
}

func (r *eventRepositoryImpl) Count(ctx context.Context, filter attendance.Filter) (int, error) {
	q := GetQuerier(ctx, r.db)

	where, args := eventWhere(filter)
	var n int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendance_events`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count attendance events: %w", err)
	}
	return n, nil
}

// eventWhere renders the filter's predicates; paging is left to the caller.
func eventWhere(filter attendance.Filter) (string, []any) {
	var conditions []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}
	if filter.EmployeeID != nil {
		add("employee_id = $%d", *filter.EmployeeID)
	}
	if filter.DepartmentID != nil {
		add("department_id = $%d", *filter.DepartmentID)
	}
	if filter.Status != nil {
		add("status = $%d", string(*filter.Status))
	}
	if filter.From != nil {
		add("occurred_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("occurred_at < $%d", *filter.To)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *eventRepositoryImpl) ExistsInWindow(ctx context.Context, employeeID string, kind attendance.Kind, windowStart time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM attendance_events
			WHERE employee_id = $1 AND kind = $2 AND window_start = $3
		)
	`, employeeID, string(kind), windowStart).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check attendance window: %w", err)
	}
	return exists, nil
}

func scanEvent(row pgx.CollectableRow) (attendance.Event, error) {
	var (
		e        attendance.Event
		lat, lng *float64
	)
	err := row.Scan(
		&e.ID, &e.EmployeeID, &e.EmployeeName, &e.DepartmentID, &e.Kind, &e.Timestamp,
		&e.PhotoRef, &lat, &lng, &e.DistanceMeters, &e.Status, &e.WindowStart, &e.CreatedAt,
	)
	if lat != nil && lng != nil {
		e.Position = &attendance.Position{Latitude: *lat, Longitude: *lng}
	}
	return e, err
}
