package roster

import (
	"context"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
)

// RosterService owns every write to employees and departments.
type RosterService interface {
	ListEmployees(ctx context.Context, departmentID *string) ([]employee.EmployeeResponse, error)
	GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error)
	CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error)
	DeleteEmployee(ctx context.Context, actorID, id string) error

	ListDepartments(ctx context.Context) ([]department.DepartmentResponse, error)
	CreateDepartment(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error)
	UpdateDepartment(ctx context.Context, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error)
	DeleteDepartment(ctx context.Context, id string) error
	AssignHead(ctx context.Context, req department.AssignHeadRequest) (department.DepartmentResponse, error)

	// EnsureAdmin seeds the configured bootstrap admin when no admin exists.
	EnsureAdmin(ctx context.Context) error
}
