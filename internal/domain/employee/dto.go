package employee

import (
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	FullName           string   `json:"full_name" validate:"required,max=100"`
	PhoneNumber        string   `json:"phone_number" validate:"required,phone"`
	Password           string   `json:"password" validate:"required,min=6"`
	DepartmentID       string   `json:"department_id" validate:"required"`
	Role               Role     `json:"role" validate:"omitempty,oneof=WORKER SUPERVISOR DEPT_HEAD ADMIN"`
	ShiftRequired      bool     `json:"shift_required"`
	ShiftStart         *string  `json:"shift_start,omitempty" validate:"omitempty,hhmm"`
	ShiftEnd           *string  `json:"shift_end,omitempty" validate:"omitempty,hhmm"`
	Workplace          *string  `json:"workplace,omitempty" validate:"omitempty,max=200"`
	WorkplaceLatitude  *float64 `json:"workplace_latitude,omitempty" validate:"omitempty,latitude"`
	WorkplaceLongitude *float64 `json:"workplace_longitude,omitempty" validate:"omitempty,longitude"`
	Responsibilities   *string  `json:"responsibilities,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	errs := validator.Struct(r)

	if (r.WorkplaceLatitude == nil) != (r.WorkplaceLongitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "workplace_latitude",
			Message: ErrInvalidWorkplace.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateEmployeeRequest patches an employee; nil fields are left unchanged.
type UpdateEmployeeRequest struct {
	ID                 string   `json:"-" validate:"required"`
	FullName           *string  `json:"full_name,omitempty" validate:"omitempty,max=100"`
	PhoneNumber        *string  `json:"phone_number,omitempty" validate:"omitempty,phone"`
	Password           *string  `json:"password,omitempty" validate:"omitempty,min=6"`
	DepartmentID       *string  `json:"department_id,omitempty"`
	Role               *Role    `json:"role,omitempty" validate:"omitempty,oneof=WORKER SUPERVISOR DEPT_HEAD ADMIN"`
	ShiftRequired      *bool    `json:"shift_required,omitempty"`
	ShiftStart         *string  `json:"shift_start,omitempty" validate:"omitempty,hhmm"`
	ShiftEnd           *string  `json:"shift_end,omitempty" validate:"omitempty,hhmm"`
	Workplace          *string  `json:"workplace,omitempty" validate:"omitempty,max=200"`
	WorkplaceLatitude  *float64 `json:"workplace_latitude,omitempty" validate:"omitempty,latitude"`
	WorkplaceLongitude *float64 `json:"workplace_longitude,omitempty" validate:"omitempty,longitude"`
	Responsibilities   *string  `json:"responsibilities,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	errs := validator.Struct(r)

	if (r.WorkplaceLatitude == nil) != (r.WorkplaceLongitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "workplace_latitude",
			Message: ErrInvalidWorkplace.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID                 string   `json:"id"`
	FullName           string   `json:"full_name"`
	PhoneNumber        string   `json:"phone_number"`
	DepartmentID       string   `json:"department_id"`
	Role               string   `json:"role"`
	ShiftRequired      bool     `json:"shift_required"`
	ShiftStart         string   `json:"shift_start"`
	ShiftEnd           string   `json:"shift_end"`
	Workplace          *string  `json:"workplace,omitempty"`
	WorkplaceLatitude  *float64 `json:"workplace_latitude,omitempty"`
	WorkplaceLongitude *float64 `json:"workplace_longitude,omitempty"`
	Responsibilities   *string  `json:"responsibilities,omitempty"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                 e.ID,
		FullName:           e.FullName,
		PhoneNumber:        e.PhoneNumber,
		DepartmentID:       e.DepartmentID,
		Role:               string(e.Role),
		ShiftRequired:      e.ShiftRequired,
		ShiftStart:         e.ShiftStart,
		ShiftEnd:           e.ShiftEnd,
		Workplace:          e.Workplace,
		WorkplaceLatitude:  e.WorkplaceLatitude,
		WorkplaceLongitude: e.WorkplaceLongitude,
		Responsibilities:   e.Responsibilities,
		CreatedAt:          e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:          e.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
