package roster

import (
	"fmt"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/roster"
)

// The functions in this file keep department heads and employee roles in
// step. Each takes a snapshot and returns its successor; the input is never
// modified and on error no successor is produced.

// AssignHead sets (or clears, when employeeID is nil) the head of a
// department. The previous head loses DEPT_HEAD unless they still head
// another department; the new head becomes DEPT_HEAD.
func AssignHead(s roster.Snapshot, departmentID string, employeeID *string) (roster.Snapshot, error) {
	dept, ok := s.Departments[departmentID]
	if !ok {
		return roster.Snapshot{}, department.ErrUnknownDepartment
	}

	if employeeID != nil {
		candidate, ok := s.Employees[*employeeID]
		if !ok {
			return roster.Snapshot{}, employee.ErrUnknownEmployee
		}
		if candidate.DepartmentID != departmentID {
			return roster.Snapshot{}, department.ErrCrossDepartmentAssignment
		}
	}

	next := s.Clone()
	previous := dept.HeadID
	dept.HeadID = copyID(employeeID)
	next.Departments[departmentID] = dept

	if previous != nil {
		syncRole(next, *previous)
	}
	if employeeID != nil {
		syncRole(next, *employeeID)
	}
	return next, nil
}

// RemoveEmployee deletes an employee and clears any headship they held.
func RemoveEmployee(s roster.Snapshot, employeeID string) (roster.Snapshot, error) {
	if _, ok := s.Employees[employeeID]; !ok {
		return roster.Snapshot{}, employee.ErrUnknownEmployee
	}

	next := s.Clone()
	delete(next.Employees, employeeID)
	for id, d := range next.Departments {
		if d.HeadID != nil && *d.HeadID == employeeID {
			d.HeadID = nil
			next.Departments[id] = d
		}
	}
	return next, nil
}

// RemoveDepartment deletes a department. Its members move to
// department.UnassignedID and its head loses DEPT_HEAD.
func RemoveDepartment(s roster.Snapshot, departmentID string) (roster.Snapshot, error) {
	dept, ok := s.Departments[departmentID]
	if !ok {
		return roster.Snapshot{}, department.ErrUnknownDepartment
	}

	next := s.Clone()
	delete(next.Departments, departmentID)
	for id, e := range next.Employees {
		if e.DepartmentID == departmentID {
			e.DepartmentID = department.UnassignedID
			next.Employees[id] = e
		}
	}
	if dept.HeadID != nil {
		syncRole(next, *dept.HeadID)
	}
	return next, nil
}

// UpsertEmployee creates or replaces an employee. Moving a head to another
// department ends their headship. The stored role is corrected to match
// headship, so DEPT_HEAD cannot be granted directly.
func UpsertEmployee(s roster.Snapshot, e employee.Employee) (roster.Snapshot, error) {
	if e.DepartmentID != department.UnassignedID {
		if _, ok := s.Departments[e.DepartmentID]; !ok {
			return roster.Snapshot{}, department.ErrUnknownDepartment
		}
	}

	next := s.Clone()
	next.Employees[e.ID] = e

	if headed, ok := s.HeadOf(e.ID); ok && headed.ID != e.DepartmentID {
		headed.HeadID = nil
		next.Departments[headed.ID] = headed
	}
	syncRole(next, e.ID)
	return next, nil
}

// UpsertDepartment creates or replaces a department. A change of HeadID goes
// through AssignHead so the same membership and role rules apply.
func UpsertDepartment(s roster.Snapshot, d department.Department) (roster.Snapshot, error) {
	if d.ID == department.UnassignedID {
		return roster.Snapshot{}, department.ErrUnknownDepartment
	}

	wantHead := d.HeadID
	d.HeadID = nil
	if existing, ok := s.Departments[d.ID]; ok {
		d.HeadID = existing.HeadID
	}

	next := s.Clone()
	next.Departments[d.ID] = d

	if sameID(wantHead, d.HeadID) {
		return next, nil
	}
	return AssignHead(next, d.ID, wantHead)
}

// Reconcile repairs a snapshot loaded from storage: members of missing
// departments become unassigned, heads that no longer exist or sit in another
// department are cleared, then every role is recomputed from headship.
func Reconcile(s roster.Snapshot) roster.Snapshot {
	next := s.Clone()
	for id, e := range next.Employees {
		if e.DepartmentID == department.UnassignedID {
			continue
		}
		if _, ok := next.Departments[e.DepartmentID]; !ok {
			e.DepartmentID = department.UnassignedID
			next.Employees[id] = e
		}
	}
	for id, d := range next.Departments {
		if d.HeadID == nil {
			continue
		}
		head, ok := next.Employees[*d.HeadID]
		if !ok || head.DepartmentID != id {
			d.HeadID = nil
			next.Departments[id] = d
		}
	}
	for id := range next.Employees {
		syncRole(next, id)
	}
	return next
}

// Validate checks both roster invariants and reports the first violation.
func Validate(s roster.Snapshot) error {
	for id, d := range s.Departments {
		if d.HeadID == nil {
			continue
		}
		head, ok := s.Employees[*d.HeadID]
		if !ok {
			return fmt.Errorf("department %s: %w", id, employee.ErrUnknownEmployee)
		}
		if head.DepartmentID != id {
			return fmt.Errorf("department %s: %w", id, department.ErrCrossDepartmentAssignment)
		}
	}

	for id, e := range s.Employees {
		if e.DepartmentID != department.UnassignedID {
			if _, ok := s.Departments[e.DepartmentID]; !ok {
				return fmt.Errorf("employee %s: %w", id, department.ErrUnknownDepartment)
			}
		}
		_, isHead := s.HeadOf(id)
		if isHead != (e.Role == employee.RoleDeptHead) {
			return fmt.Errorf("employee %s: %w", id, roster.ErrRoleMismatch)
		}
	}
	return nil
}

// syncRole makes the employee's role agree with headship. A new head becomes
// DEPT_HEAD whatever they held before, and a former head drops to WORKER.
// ADMIN and SUPERVISOR only survive while not heading anything.
func syncRole(s roster.Snapshot, employeeID string) {
	e, ok := s.Employees[employeeID]
	if !ok {
		return
	}

	_, isHead := s.HeadOf(employeeID)
	switch {
	case isHead && e.Role != employee.RoleDeptHead:
		e.Role = employee.RoleDeptHead
	case !isHead && e.Role == employee.RoleDeptHead:
		e.Role = employee.RoleWorker
	default:
		return
	}
	s.Employees[employeeID] = e
}

func copyID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
