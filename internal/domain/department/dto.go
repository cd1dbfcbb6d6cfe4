package department

import (
	"strings"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/validator"
)

type CreateDepartmentRequest struct {
	ID     string `json:"id" validate:"required,max=50"`
	Name   string `json:"name" validate:"required,max=100"`
	NameEn string `json:"name_en" validate:"omitempty,max=100"`
	Color  string `json:"color" validate:"omitempty,hexcolor"`
}

func (r *CreateDepartmentRequest) Validate() error {
	errs := validator.Struct(r)
	if strings.ContainsAny(r.ID, " \t\n") {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must not contain whitespace"})
	}
	if r.ID == UnassignedID {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is reserved"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateDepartmentRequest struct {
	ID     string  `json:"-" validate:"required"`
	Name   *string `json:"name,omitempty" validate:"omitempty,max=100"`
	NameEn *string `json:"name_en,omitempty" validate:"omitempty,max=100"`
	Color  *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

func (r *UpdateDepartmentRequest) Validate() error {
	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

// AssignHeadRequest sets or clears (nil EmployeeID) a department head.
type AssignHeadRequest struct {
	DepartmentID string  `json:"-" validate:"required"`
	EmployeeID   *string `json:"employee_id"`
}

func (r *AssignHeadRequest) Validate() error {
	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

type DepartmentResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	NameEn      string  `json:"name_en"`
	Color       string  `json:"color"`
	HeadID      *string `json:"head_id,omitempty"`
	HeadName    *string `json:"head_name,omitempty"`
	MemberCount int     `json:"member_count"`
}
