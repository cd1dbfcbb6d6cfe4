package identity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/identity"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/validator"
	"github.com/skip2/go-qrcode"
)

// qrSize is the edge of the rendered card in pixels.
const qrSize = 512

type IdentityServiceImpl struct {
	employees employee.Reader
}

func NewIdentityService(employees employee.Reader) identity.Service {
	return &IdentityServiceImpl{employees: employees}
}

// QRCode implements identity.Service.
func (s *IdentityServiceImpl) QRCode(ctx context.Context, employeeID string) ([]byte, error) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	phone := emp.PhoneNumber
	content, err := identity.Payload{
		ID:           emp.ID,
		Name:         emp.FullName,
		DepartmentID: emp.DepartmentID,
		Phone:        &phone,
	}.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode identity payload: %w", err)
	}

	png, err := qrcode.Encode(string(content), qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}
	return png, nil
}

// Scan implements identity.Service. Only the id of the payload is trusted; the
// card returned reflects the current roster.
func (s *IdentityServiceImpl) Scan(ctx context.Context, req identity.ScanRequest) (identity.CardResponse, error) {
	if errs := validator.Struct(&req); len(errs) > 0 {
		return identity.CardResponse{}, errs
	}

	payload, err := identity.Decode(req.Payload)
	if err != nil {
		return identity.CardResponse{}, validator.ValidationErrors{{Field: "payload", Message: err.Error()}}
	}

	emp, err := s.employees.GetByID(ctx, payload.ID)
	if err != nil {
		return identity.CardResponse{}, err
	}
	if payload.Name != "" && payload.Name != emp.FullName {
		slog.Info("scanned identity card is outdated", "employee_id", emp.ID)
	}

	return identity.CardResponse{
		EmployeeID:   emp.ID,
		FullName:     emp.FullName,
		Role:         string(emp.Role),
		DepartmentID: emp.DepartmentID,
		Phone:        &emp.PhoneNumber,
		Workplace:    emp.Workplace,
	}, nil
}
