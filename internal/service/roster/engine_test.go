package roster

import (
	"testing"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func worker(id, dept string) employee.Employee {
	return employee.Employee{ID: id, FullName: id, DepartmentID: dept, Role: employee.RoleWorker}
}

// fixture: department D headed by e1 with members e2, and e3 in department O.
func fixture() roster.Snapshot {
	e1 := worker("e1", "D")
	e1.Role = employee.RoleDeptHead
	return roster.NewSnapshot(
		[]employee.Employee{e1, worker("e2", "D"), worker("e3", "O")},
		[]department.Department{
			{ID: "D", Name: "Distribution", HeadID: ptr("e1")},
			{ID: "O", Name: "Operations"},
		},
		7,
	)
}

func deptHeads(s roster.Snapshot, deptID string) []string {
	var heads []string
	for _, e := range s.Members(deptID) {
		if e.Role == employee.RoleDeptHead {
			heads = append(heads, e.ID)
		}
	}
	return heads
}

func TestAssignHead_EndToEndScenario(t *testing.T) {
	s := fixture()
	require.NoError(t, Validate(s))

	next, err := AssignHead(s, "D", ptr("e2"))
	require.NoError(t, err)
	assert.Equal(t, "e2", *next.Departments["D"].HeadID)
	assert.Equal(t, employee.RoleDeptHead, next.Employees["e2"].Role)
	assert.Equal(t, employee.RoleWorker, next.Employees["e1"].Role)
	assert.NoError(t, Validate(next))

	_, err = AssignHead(next, "D", ptr("e3"))
	assert.ErrorIs(t, err, department.ErrCrossDepartmentAssignment)
	assert.True(t, apperror.IsKind(err, apperror.KindCrossDepartmentAssignment))
	assert.Equal(t, "e2", *next.Departments["D"].HeadID)
	assert.Equal(t, employee.RoleWorker, next.Employees["e3"].Role)
}

func TestAssignHead_DoesNotMutateInput(t *testing.T) {
	s := fixture()

	_, err := AssignHead(s, "D", ptr("e2"))
	require.NoError(t, err)

	assert.Equal(t, "e1", *s.Departments["D"].HeadID)
	assert.Equal(t, employee.RoleDeptHead, s.Employees["e1"].Role)
	assert.Equal(t, employee.RoleWorker, s.Employees["e2"].Role)
}

func TestAssignHead_TwiceLeavesSingleHead(t *testing.T) {
	s := roster.NewSnapshot(
		[]employee.Employee{worker("e", "D"), worker("f", "D")},
		[]department.Department{{ID: "D", Name: "D"}},
		0,
	)

	s, err := AssignHead(s, "D", ptr("e"))
	require.NoError(t, err)
	s, err = AssignHead(s, "D", ptr("f"))
	require.NoError(t, err)

	assert.Equal(t, employee.RoleWorker, s.Employees["e"].Role)
	assert.Equal(t, employee.RoleDeptHead, s.Employees["f"].Role)
	assert.Equal(t, []string{"f"}, deptHeads(s, "D"))
}

func TestAssignHead_ClearAndReassignSame(t *testing.T) {
	s := fixture()

	cleared, err := AssignHead(s, "D", nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.Departments["D"].HeadID)
	assert.Equal(t, employee.RoleWorker, cleared.Employees["e1"].Role)

	same, err := AssignHead(s, "D", ptr("e1"))
	require.NoError(t, err)
	assert.Equal(t, employee.RoleDeptHead, same.Employees["e1"].Role)
}

func TestAssignHead_ProtectedRolesSurviveWhenNotHeading(t *testing.T) {
	sup := worker("sup", "D")
	sup.Role = employee.RoleSupervisor
	admin := worker("adm", "D")
	admin.Role = employee.RoleAdmin
	s := roster.NewSnapshot(
		[]employee.Employee{sup, admin, worker("w", "D")},
		[]department.Department{{ID: "D", Name: "D"}},
		0,
	)

	next, err := AssignHead(s, "D", ptr("w"))
	require.NoError(t, err)
	assert.Equal(t, employee.RoleSupervisor, next.Employees["sup"].Role)
	assert.Equal(t, employee.RoleAdmin, next.Employees["adm"].Role)
}

func TestAssignHead_HeadshipReplacesAdminAndSupervisorRoles(t *testing.T) {
	sup := worker("sup", "D")
	sup.Role = employee.RoleSupervisor
	admin := worker("adm", "D")
	admin.Role = employee.RoleAdmin
	s := roster.NewSnapshot(
		[]employee.Employee{sup, admin},
		[]department.Department{{ID: "D", Name: "D"}},
		0,
	)

	next, err := AssignHead(s, "D", ptr("adm"))
	require.NoError(t, err)
	assert.Equal(t, employee.RoleDeptHead, next.Employees["adm"].Role)
	assert.Equal(t, employee.RoleAdmin, s.Employees["adm"].Role, "input untouched")

	// the replaced head drops to WORKER, not back to ADMIN
	next, err = AssignHead(next, "D", ptr("sup"))
	require.NoError(t, err)
	assert.Equal(t, employee.RoleWorker, next.Employees["adm"].Role)
	assert.Equal(t, employee.RoleDeptHead, next.Employees["sup"].Role)

	next, err = AssignHead(next, "D", nil)
	require.NoError(t, err)
	assert.Equal(t, employee.RoleWorker, next.Employees["sup"].Role)
	assert.NoError(t, Validate(next))
}

func TestAssignHead_UnknownIDs(t *testing.T) {
	s := fixture()

	_, err := AssignHead(s, "missing", ptr("e1"))
	assert.ErrorIs(t, err, department.ErrUnknownDepartment)

	_, err = AssignHead(s, "D", ptr("ghost"))
	assert.ErrorIs(t, err, employee.ErrUnknownEmployee)
}

func TestRemoveEmployee_ClearsHeadship(t *testing.T) {
	s := fixture()

	next, err := RemoveEmployee(s, "e1")
	require.NoError(t, err)
	assert.NotContains(t, next.Employees, "e1")
	assert.Nil(t, next.Departments["D"].HeadID)
	assert.NoError(t, Validate(next))

	assert.Contains(t, s.Employees, "e1", "input untouched")

	_, err = RemoveEmployee(s, "ghost")
	assert.ErrorIs(t, err, employee.ErrUnknownEmployee)
}

func TestRemoveDepartment_MovesMembersToUnassigned(t *testing.T) {
	s := fixture()

	next, err := RemoveDepartment(s, "D")
	require.NoError(t, err)
	assert.NotContains(t, next.Departments, "D")
	assert.Equal(t, department.UnassignedID, next.Employees["e1"].DepartmentID)
	assert.Equal(t, department.UnassignedID, next.Employees["e2"].DepartmentID)
	assert.Equal(t, employee.RoleWorker, next.Employees["e1"].Role)
	assert.Equal(t, "O", next.Employees["e3"].DepartmentID)
	assert.NoError(t, Validate(next))

	_, err = RemoveDepartment(s, department.UnassignedID)
	assert.ErrorIs(t, err, department.ErrUnknownDepartment)
}

func TestUpsertEmployee_MovingHeadEndsHeadship(t *testing.T) {
	s := fixture()
	moved := s.Employees["e1"]
	moved.DepartmentID = "O"

	next, err := UpsertEmployee(s, moved)
	require.NoError(t, err)
	assert.Nil(t, next.Departments["D"].HeadID)
	assert.Equal(t, employee.RoleWorker, next.Employees["e1"].Role)
	assert.NoError(t, Validate(next))
}

func TestUpsertEmployee_CannotGrantDeptHeadDirectly(t *testing.T) {
	s := fixture()
	e := worker("e4", "O")
	e.Role = employee.RoleDeptHead

	next, err := UpsertEmployee(s, e)
	require.NoError(t, err)
	assert.Equal(t, employee.RoleWorker, next.Employees["e4"].Role)

	e.DepartmentID = "nowhere"
	_, err = UpsertEmployee(s, e)
	assert.ErrorIs(t, err, department.ErrUnknownDepartment)
}

func TestUpsertDepartment_HeadGoesThroughAssignment(t *testing.T) {
	s := fixture()

	next, err := UpsertDepartment(s, department.Department{ID: "O", Name: "Ops", HeadID: ptr("e3")})
	require.NoError(t, err)
	assert.Equal(t, "Ops", next.Departments["O"].Name)
	assert.Equal(t, employee.RoleDeptHead, next.Employees["e3"].Role)

	_, err = UpsertDepartment(s, department.Department{ID: "O", Name: "Ops", HeadID: ptr("e2")})
	assert.ErrorIs(t, err, department.ErrCrossDepartmentAssignment)

	renamed, err := UpsertDepartment(s, department.Department{ID: "D", Name: "Delivery", HeadID: ptr("e1")})
	require.NoError(t, err)
	assert.Equal(t, "Delivery", renamed.Departments["D"].Name)
	assert.Equal(t, "e1", *renamed.Departments["D"].HeadID)
}

func TestReconcile_RepairsDanglingState(t *testing.T) {
	stray := worker("e9", "O")
	stray.Role = employee.RoleDeptHead
	s := roster.NewSnapshot(
		[]employee.Employee{worker("e1", "D"), stray, worker("e5", "closed")},
		[]department.Department{
			{ID: "D", Name: "D", HeadID: ptr("e1")},
			{ID: "O", Name: "O", HeadID: ptr("gone")},
		},
		3,
	)
	require.Error(t, Validate(s))

	fixed := Reconcile(s)
	assert.NoError(t, Validate(fixed))
	assert.Equal(t, employee.RoleDeptHead, fixed.Employees["e1"].Role)
	assert.Equal(t, employee.RoleWorker, fixed.Employees["e9"].Role)
	assert.Nil(t, fixed.Departments["O"].HeadID)
	assert.Equal(t, department.UnassignedID, fixed.Employees["e5"].DepartmentID)
	assert.Equal(t, int64(3), fixed.Version)
}

func TestValidate_ReportsViolations(t *testing.T) {
	s := fixture()
	bad := s.Clone()
	bad.Departments["O"] = department.Department{ID: "O", HeadID: ptr("e2")}
	assert.ErrorIs(t, Validate(bad), department.ErrCrossDepartmentAssignment)

	bad = s.Clone()
	e2 := bad.Employees["e2"]
	e2.Role = employee.RoleDeptHead
	bad.Employees["e2"] = e2
	assert.ErrorIs(t, Validate(bad), roster.ErrRoleMismatch)
}
