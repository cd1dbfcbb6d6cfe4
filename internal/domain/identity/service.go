package identity

import "context"

type ScanRequest struct {
	Payload string `json:"payload" validate:"required"`
}

type CardResponse struct {
	EmployeeID   string  `json:"employee_id"`
	FullName     string  `json:"full_name"`
	Role         string  `json:"role"`
	DepartmentID string  `json:"department_id"`
	Phone        *string `json:"phone,omitempty"`
	Workplace    *string `json:"workplace,omitempty"`
}

type Service interface {
	// QRCode renders the employee's identity card as a PNG.
	QRCode(ctx context.Context, employeeID string) ([]byte, error)

	// Scan resolves a scanned payload to the current employee record.
	Scan(ctx context.Context, req ScanRequest) (CardResponse, error)
}
