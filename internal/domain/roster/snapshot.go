package roster

import (
	"maps"
	"slices"
	"strings"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
)

// Snapshot is a consistent view of the employee and department sets. Values
// are treated as immutable: every change produces a new Snapshot.
type Snapshot struct {
	Employees   map[string]employee.Employee
	Departments map[string]department.Department
	// Version is bumped by the repository on every successful save.
	Version int64
}

func NewSnapshot(employees []employee.Employee, departments []department.Department, version int64) Snapshot {
	s := Snapshot{
		Employees:   make(map[string]employee.Employee, len(employees)),
		Departments: make(map[string]department.Department, len(departments)),
		Version:     version,
	}
	for _, e := range employees {
		s.Employees[e.ID] = e
	}
	for _, d := range departments {
		s.Departments[d.ID] = d
	}
	return s
}

// Clone returns a snapshot whose maps can be modified without touching s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Employees:   maps.Clone(s.Employees),
		Departments: maps.Clone(s.Departments),
		Version:     s.Version,
	}
}

// EmployeeList returns employees ordered by name then id.
func (s Snapshot) EmployeeList() []employee.Employee {
	list := slices.Collect(maps.Values(s.Employees))
	slices.SortFunc(list, func(a, b employee.Employee) int {
		if c := strings.Compare(a.FullName, b.FullName); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return list
}

// DepartmentList returns departments ordered by name then id.
func (s Snapshot) DepartmentList() []department.Department {
	list := slices.Collect(maps.Values(s.Departments))
	slices.SortFunc(list, func(a, b department.Department) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return list
}

// Members returns the employees of a department ordered by name.
func (s Snapshot) Members(departmentID string) []employee.Employee {
	var members []employee.Employee
	for _, e := range s.EmployeeList() {
		if e.DepartmentID == departmentID {
			members = append(members, e)
		}
	}
	return members
}

// HeadOf returns the department the employee heads, if any.
func (s Snapshot) HeadOf(employeeID string) (department.Department, bool) {
	for _, d := range s.Departments {
		if d.HeadID != nil && *d.HeadID == employeeID {
			return d, true
		}
	}
	return department.Department{}, false
}
