package attendance

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/validator"
)

// CheckRequest is shared by check-in and check-out. EmployeeID and Kind are
// filled from the access token and the route, never from the body.
type CheckRequest struct {
	EmployeeID string                `json:"-"`
	Kind       Kind                  `json:"-"`
	Latitude   *float64              `json:"latitude"`
	Longitude  *float64              `json:"longitude"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

// HasLocation reports whether the client captured a position at all.
func (r *CheckRequest) HasLocation() bool {
	return r.Latitude != nil && r.Longitude != nil
}

func (r *CheckRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !r.Kind.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: ErrInvalidKind.Error(),
		})
	}

	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.FileHeader == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "photo",
			Message: ErrPhotoMissing.Error(),
		})
	} else {
		ext := strings.ToLower(filepath.Ext(r.FileHeader.Filename))
		if !validator.IsInSlice(ext, []string{".jpg", ".jpeg", ".png", ".webp"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "photo",
				Message: "invalid file type: only jpg, jpeg, png, webp allowed",
			})
		} else if r.FileHeader.Size > 10<<20 {
			errs = append(errs, validator.ValidationError{
				Field:   "photo",
				Message: "attendance photo size must not exceed 10MB",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EventResponse struct {
	ID             string   `json:"id"`
	EmployeeID     string   `json:"employee_id"`
	EmployeeName   string   `json:"employee_name"`
	DepartmentID   string   `json:"department_id"`
	Kind           string   `json:"kind"`
	Timestamp      string   `json:"timestamp"`
	PhotoURL       *string  `json:"photo_url,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
	Status         string   `json:"status"`
	WindowStart    string   `json:"window_start"`
}

// ListFilter is the query-string form of Filter.
type ListFilter struct {
	EmployeeID   *string `json:"employee_id,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status       *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil {
		valid := []string{string(StatusPresent), string(StatusOutOfBounds), string(StatusLate), string(StatusAbsent)}
		if !validator.IsInSlice(strings.ToUpper(*f.Status), valid) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: PRESENT, OUT_OF_BOUNDS, LATE, ABSENT",
			})
		}
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToFilter turns the query-string dates into a half-open range in loc;
// end_date is inclusive. Paging is left to the caller.
func (f ListFilter) ToFilter(loc *time.Location) (Filter, error) {
	out := Filter{
		EmployeeID:   f.EmployeeID,
		DepartmentID: f.DepartmentID,
	}
	if f.Status != nil && *f.Status != "" {
		status := Status(strings.ToUpper(*f.Status))
		out.Status = &status
	}

	if f.StartDate != nil && *f.StartDate != "" {
		from, err := time.ParseInLocation("2006-01-02", *f.StartDate, loc)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid start_date: %w", err)
		}
		out.From = &from
	}
	if f.EndDate != nil && *f.EndDate != "" {
		end, err := time.ParseInLocation("2006-01-02", *f.EndDate, loc)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid end_date: %w", err)
		}
		to := end.AddDate(0, 0, 1)
		out.To = &to
	}
	return out, nil
}

type ListEventResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Showing    string          `json:"showing"`
	Events     []EventResponse `json:"events"`
}
