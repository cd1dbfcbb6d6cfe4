package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/service/file"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const photoURLExpiry = time.Hour

type AttendanceServiceImpl struct {
	ledger      *Ledger
	classifier  Classifier
	employees   employee.Reader
	fileService file.FileService

	radiusMeters float64
	location     *time.Location
	tracer       trace.Tracer
	now          func() time.Time
}

func NewAttendanceService(
	ledger *Ledger,
	classifier Classifier,
	employees employee.Reader,
	fileService file.FileService,
	radiusMeters float64,
	location *time.Location,
) attendance.AttendanceService {
	if location == nil {
		location = time.UTC
	}
	return &AttendanceServiceImpl{
		ledger:       ledger,
		classifier:   classifier,
		employees:    employees,
		fileService:  fileService,
		radiusMeters: radiusMeters,
		location:     location,
		tracer:       otel.Tracer("fieldforce/attendance"),
		now:          time.Now,
	}
}

// Check implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Check(ctx context.Context, req attendance.CheckRequest) (attendance.EventResponse, error) {
	ctx, span := s.tracer.Start(ctx, "attendance.check", trace.WithAttributes(
		attribute.String("attendance.kind", string(req.Kind)),
	))
	defer span.End()

	if !req.HasLocation() {
		return attendance.EventResponse{}, attendance.ErrLocationUnavailable
	}
	if err := req.Validate(); err != nil {
		return attendance.EventResponse{}, err
	}

	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.EventResponse{}, err
	}

	now := s.now().In(s.location)
	shift := emp.Shift()
	position := attendance.Position{Latitude: *req.Latitude, Longitude: *req.Longitude}

	result := s.classifier.Classify(Observation{
		Kind:     req.Kind,
		Position: position,
		Site:     emp.Site(s.radiusMeters),
		Shift:    shift,
		At:       now,
	})

	photoRef, err := s.fileService.UploadAttendancePhoto(ctx, emp.ID, now, string(req.Kind), req.File, req.FileHeader.Filename)
	if err != nil {
		return attendance.EventResponse{}, fmt.Errorf("failed to upload attendance photo: %w", err)
	}

	saved, err := s.ledger.Record(ctx, attendance.Event{
		ID:             uuid.Must(uuid.NewV7()).String(),
		EmployeeID:     emp.ID,
		EmployeeName:   emp.FullName,
		DepartmentID:   emp.DepartmentID,
		Kind:           req.Kind,
		Timestamp:      now,
		PhotoRef:       &photoRef,
		Position:       &position,
		DistanceMeters: result.DistanceMeters,
		Status:         result.Status,
		CreatedAt:      now,
	}, shift)
	if err != nil {
		// nothing references the photo once the event is rejected
		if delErr := s.fileService.DeleteFile(context.WithoutCancel(ctx), photoRef); delErr != nil {
			slog.Warn("failed to delete orphaned attendance photo", "path", photoRef, "error", delErr)
		}
		return attendance.EventResponse{}, err
	}

	slog.Info("attendance recorded",
		"employee_id", saved.EmployeeID,
		"kind", saved.Kind,
		"status", saved.Status,
	)
	return s.toResponse(ctx, saved), nil
}

// ListEvents implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListEvents(ctx context.Context, filter attendance.ListFilter) (attendance.ListEventResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListEventResponse{}, err
	}

	ledgerFilter, err := filter.ToFilter(s.location)
	if err != nil {
		return attendance.ListEventResponse{}, err
	}

	total, err := s.ledger.Count(ctx, ledgerFilter)
	if err != nil {
		return attendance.ListEventResponse{}, fmt.Errorf("failed to count attendance: %w", err)
	}

	ledgerFilter.Offset = (filter.Page - 1) * filter.Limit
	ledgerFilter.Limit = filter.Limit
	seq, err := s.ledger.Query(ctx, ledgerFilter)
	if err != nil {
		return attendance.ListEventResponse{}, fmt.Errorf("failed to query attendance: %w", err)
	}

	responses := make([]attendance.EventResponse, 0, filter.Limit)
	for e := range seq {
		responses = append(responses, s.toResponse(ctx, e))
	}

	start := min(ledgerFilter.Offset, total)
	end := start + len(responses)

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", start+1, end, total)
	if total == 0 || start == end {
		showing = fmt.Sprintf("0 of %d", total)
	}

	return attendance.ListEventResponse{
		TotalCount: int64(total),
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Events:     responses,
	}, nil
}

// MyEvents implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MyEvents(ctx context.Context, employeeID string, filter attendance.ListFilter) (attendance.ListEventResponse, error) {
	filter.EmployeeID = &employeeID
	filter.DepartmentID = nil
	return s.ListEvents(ctx, filter)
}

// MarkAbsent implements attendance.AttendanceService. An employee is absent
// for a shift window when the shift has ended and no IN was recorded. The
// ABSENT event takes the IN slot of that window, so a repeated sweep finds
// it as a duplicate and skips it.
func (s *AttendanceServiceImpl) MarkAbsent(ctx context.Context, now time.Time) (int, error) {
	ctx, span := s.tracer.Start(ctx, "attendance.mark_absent")
	defer span.End()

	employees, err := s.employees.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list employees: %w", err)
	}

	now = now.In(s.location)
	marked := 0
	for _, emp := range employees {
		if !emp.ShiftRequired {
			continue
		}
		shift := emp.Shift()

		// the previous window has always ended; the current one only after its shift end
		current, _ := shift.Bounds(now)
		candidates := []time.Time{current.Add(-time.Second)}
		if !now.Before(shift.ScheduledEnd(now)) {
			candidates = append(candidates, now)
		}

		for _, at := range candidates {
			start := shift.ScheduledStart(at)
			if emp.CreatedAt.After(start) {
				continue
			}

			_, err := s.ledger.Record(ctx, attendance.Event{
				ID:           uuid.Must(uuid.NewV7()).String(),
				EmployeeID:   emp.ID,
				EmployeeName: emp.FullName,
				DepartmentID: emp.DepartmentID,
				Kind:         attendance.KindIn,
				Timestamp:    start,
				Status:       attendance.StatusAbsent,
				CreatedAt:    now,
			}, shift)
			if errors.Is(err, attendance.ErrDuplicateEvent) {
				continue
			}
			if err != nil {
				return marked, fmt.Errorf("failed to mark %s absent: %w", emp.ID, err)
			}
			marked++
		}
	}

	span.SetAttributes(attribute.Int("attendance.marked_absent", marked))
	return marked, nil
}

func (s *AttendanceServiceImpl) toResponse(ctx context.Context, e attendance.Event) attendance.EventResponse {
	resp := attendance.EventResponse{
		ID:             e.ID,
		EmployeeID:     e.EmployeeID,
		EmployeeName:   e.EmployeeName,
		DepartmentID:   e.DepartmentID,
		Kind:           string(e.Kind),
		Timestamp:      e.Timestamp.Format(time.RFC3339),
		DistanceMeters: e.DistanceMeters,
		Status:         string(e.Status),
		WindowStart:    e.WindowStart.Format(time.RFC3339),
	}
	if e.Position != nil {
		resp.Latitude = &e.Position.Latitude
		resp.Longitude = &e.Position.Longitude
	}
	if e.PhotoRef != nil {
		url, err := s.fileService.GetFileURL(ctx, *e.PhotoRef, photoURLExpiry)
		if err != nil {
			slog.Warn("failed to resolve attendance photo url", "event_id", e.ID, "error", err)
		} else {
			resp.PhotoURL = &url
		}
	}
	return resp
}
