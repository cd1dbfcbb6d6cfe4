package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.Reader {
	return &employeeRepositoryImpl{db: db}
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.getOne(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
}

func (r *employeeRepositoryImpl) GetByPhone(ctx context.Context, phone string) (employee.Employee, error) {
	return r.getOne(ctx, `SELECT `+employeeColumns+` FROM employees WHERE phone_number = $1`, phone)
}

// List returns every employee ordered by name then id.
func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	return queryEmployees(ctx, GetQuerier(ctx, r.db), `SELECT `+employeeColumns+` FROM employees ORDER BY full_name, id`)
}

func (r *employeeRepositoryImpl) getOne(ctx context.Context, query string, arg string) (employee.Employee, error) {
	employees, err := queryEmployees(ctx, GetQuerier(ctx, r.db), query, arg)
	if err != nil {
		return employee.Employee{}, err
	}
	if len(employees) == 0 {
		return employee.Employee{}, fmt.Errorf("lookup %q: %w", arg, employee.ErrUnknownEmployee)
	}
	return employees[0], nil
}
