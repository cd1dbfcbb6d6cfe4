package report

import (
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/validator"
)

type SubmitReportRequest struct {
	EmployeeID string                `json:"-" validate:"required"`
	Content    string                `json:"content" validate:"max=5000"`
	Kind       Kind                  `json:"kind" validate:"required,oneof=text link file"`
	Link       string                `json:"link" validate:"max=2000"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *SubmitReportRequest) Validate() error {
	errs := validator.Struct(r)

	switch r.Kind {
	case KindText:
		if validator.IsEmpty(r.Content) {
			errs = append(errs, validator.ValidationError{Field: "content", Message: "content is required"})
		}
	case KindLink:
		u, err := url.Parse(strings.TrimSpace(r.Link))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, validator.ValidationError{Field: "link", Message: ErrInvalidLink.Error()})
		}
	case KindFile:
		if r.FileHeader == nil {
			errs = append(errs, validator.ValidationError{Field: "file", Message: ErrAttachmentRequired.Error()})
		} else if r.FileHeader.Size > 20<<20 {
			errs = append(errs, validator.ValidationError{Field: "file", Message: "attachment size must not exceed 20MB"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReportResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	DepartmentID  string  `json:"department_id"`
	Content       string  `json:"content"`
	Kind          string  `json:"kind"`
	AttachmentURL *string `json:"attachment_url,omitempty"`
	CreatedAt     string  `json:"created_at"`
}
