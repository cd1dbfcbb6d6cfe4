package memory

import (
	"context"
	"maps"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/roster"
)

type RosterRepository struct {
	store *Store
}

func (r *RosterRepository) Load(ctx context.Context) (roster.Snapshot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return roster.Snapshot{
		Employees:   maps.Clone(r.store.employees),
		Departments: maps.Clone(r.store.departments),
		Version:     r.store.rosterVersion,
	}, nil
}

func (r *RosterRepository) Save(ctx context.Context, prev, next roster.Snapshot) (roster.Snapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if prev.Version != r.store.rosterVersion {
		return roster.Snapshot{}, roster.ErrStaleSnapshot
	}

	r.store.employees = maps.Clone(next.Employees)
	r.store.departments = maps.Clone(next.Departments)
	r.store.rosterVersion++

	saved := next.Clone()
	saved.Version = r.store.rosterVersion
	return saved, nil
}

type EmployeeRepository struct {
	store *Store
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrUnknownEmployee
	}
	return e, nil
}

func (r *EmployeeRepository) GetByPhone(ctx context.Context, phone string) (employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, e := range r.store.employees {
		if e.PhoneNumber == phone {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrUnknownEmployee
}

func (r *EmployeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	snap := roster.Snapshot{Employees: r.store.employees}
	return snap.EmployeeList(), nil
}
