package roster

import (
	"context"
	"sync"
	"testing"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/lock"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// staleOnce fails the first Save as if another replica had written first.
type staleOnce struct {
	roster.Repository
	mu     sync.Mutex
	failed bool
	saves  int
}

func (r *staleOnce) Save(ctx context.Context, prev, next roster.Snapshot) (roster.Snapshot, error) {
	r.mu.Lock()
	r.saves++
	if !r.failed {
		r.failed = true
		r.mu.Unlock()
		return roster.Snapshot{}, roster.ErrStaleSnapshot
	}
	r.mu.Unlock()
	return r.Repository.Save(ctx, prev, next)
}

// alwaysStale never lets a save through.
type alwaysStale struct {
	roster.Repository
}

func (alwaysStale) Save(ctx context.Context, prev, next roster.Snapshot) (roster.Snapshot, error) {
	return roster.Snapshot{}, roster.ErrStaleSnapshot
}

func newService(t *testing.T) (*RosterServiceImpl, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewRosterService(store.Roster(), lock.NewLocalLocker(), BootstrapAdmin{}).(*RosterServiceImpl)
	return svc, store
}

func createEmployee(t *testing.T, svc roster.RosterService, name, phone, dept string) employee.EmployeeResponse {
	t.Helper()
	resp, err := svc.CreateEmployee(context.Background(), employee.CreateEmployeeRequest{
		FullName:     name,
		PhoneNumber:  phone,
		Password:     "secret123",
		DepartmentID: dept,
	})
	require.NoError(t, err)
	return resp
}

func TestRosterService_HeadLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.CreateDepartment(ctx, department.CreateDepartmentRequest{ID: "field", Name: "Field"})
	require.NoError(t, err)
	_, err = svc.CreateDepartment(ctx, department.CreateDepartmentRequest{ID: "office", Name: "Office"})
	require.NoError(t, err)

	e1 := createEmployee(t, svc, "Ani", "081200000001", "field")
	e2 := createEmployee(t, svc, "Budi", "081200000002", "field")
	e3 := createEmployee(t, svc, "Citra", "081200000003", "office")

	d, err := svc.AssignHead(ctx, department.AssignHeadRequest{DepartmentID: "field", EmployeeID: &e1.ID})
	require.NoError(t, err)
	assert.Equal(t, "Ani", *d.HeadName)
	assert.Equal(t, 2, d.MemberCount)

	_, err = svc.AssignHead(ctx, department.AssignHeadRequest{DepartmentID: "field", EmployeeID: &e2.ID})
	require.NoError(t, err)

	got1, err := svc.GetEmployee(ctx, e1.ID)
	require.NoError(t, err)
	got2, err := svc.GetEmployee(ctx, e2.ID)
	require.NoError(t, err)
	assert.Equal(t, string(employee.RoleWorker), got1.Role)
	assert.Equal(t, string(employee.RoleDeptHead), got2.Role)

	_, err = svc.AssignHead(ctx, department.AssignHeadRequest{DepartmentID: "field", EmployeeID: &e3.ID})
	assert.ErrorIs(t, err, department.ErrCrossDepartmentAssignment)

	depts, err := svc.ListDepartments(ctx)
	require.NoError(t, err)
	require.Len(t, depts, 2)
	assert.Equal(t, e2.ID, *depts[0].HeadID)

	require.NoError(t, svc.DeleteEmployee(ctx, "someone-else", e2.ID))
	depts, err = svc.ListDepartments(ctx)
	require.NoError(t, err)
	assert.Nil(t, depts[0].HeadID)
}

func TestRosterService_CreateEmployeeHashesPasswordAndChecksPhone(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)
	_, err := svc.CreateDepartment(ctx, department.CreateDepartmentRequest{ID: "field", Name: "Field"})
	require.NoError(t, err)

	resp := createEmployee(t, svc, "Ani", "081200000001", "field")
	assert.Equal(t, string(employee.RoleWorker), resp.Role)
	assert.Equal(t, employee.DefaultShiftStart, resp.ShiftStart)

	stored, err := store.Employees().GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))

	_, err = svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{
		FullName: "Dup", PhoneNumber: "081200000001", Password: "secret123", DepartmentID: "field",
	})
	assert.ErrorIs(t, err, employee.ErrPhoneExists)

	_, err = svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{
		FullName: "Lost", PhoneNumber: "081200000009", Password: "secret123", DepartmentID: "nowhere",
	})
	assert.ErrorIs(t, err, department.ErrUnknownDepartment)

	_, err = svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{FullName: "Bad"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestRosterService_DeleteDepartmentUnassignsMembers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	_, err := svc.CreateDepartment(ctx, department.CreateDepartmentRequest{ID: "field", Name: "Field"})
	require.NoError(t, err)
	e1 := createEmployee(t, svc, "Ani", "081200000001", "field")
	_, err = svc.AssignHead(ctx, department.AssignHeadRequest{DepartmentID: "field", EmployeeID: &e1.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDepartment(ctx, "field"))

	got, err := svc.GetEmployee(ctx, e1.ID)
	require.NoError(t, err)
	assert.Equal(t, department.UnassignedID, got.DepartmentID)
	assert.Equal(t, string(employee.RoleWorker), got.Role)

	assert.ErrorIs(t, svc.DeleteDepartment(ctx, "field"), department.ErrUnknownDepartment)
}

func TestRosterService_ConcurrentAssignmentsStayConsistent(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)
	_, err := svc.CreateDepartment(ctx, department.CreateDepartmentRequest{ID: "field", Name: "Field"})
	require.NoError(t, err)

	var ids []string
	for i, phone := range []string{"081200000001", "081200000002", "081200000003", "081200000004"} {
		ids = append(ids, createEmployee(t, svc, string(rune('A'+i)), phone, "field").ID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AssignHead(ctx, department.AssignHeadRequest{DepartmentID: "field", EmployeeID: &id})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap, err := store.Roster().Load(ctx)
	require.NoError(t, err)
	assert.NoError(t, Validate(snap))
	assert.Len(t, deptHeads(snap, "field"), 1)
}

func TestRosterService_RetriesStaleSave(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := &staleOnce{Repository: store.Roster()}
	svc := NewRosterService(repo, lock.NewLocalLocker(), BootstrapAdmin{})

	_, err := svc.CreateDepartment(ctx, department.CreateDepartmentRequest{ID: "field", Name: "Field"})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.saves)

	svc = NewRosterService(alwaysStale{Repository: store.Roster()}, lock.NewLocalLocker(), BootstrapAdmin{})
	_, err = svc.CreateDepartment(ctx, department.CreateDepartmentRequest{ID: "office", Name: "Office"})
	assert.ErrorIs(t, err, roster.ErrStaleSnapshot)
}

func TestRosterService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewRosterService(store.Roster(), lock.NewLocalLocker(), BootstrapAdmin{
		Name: "Root", Phone: "081299999999", Password: "changeme",
	})

	require.NoError(t, svc.EnsureAdmin(ctx))
	require.NoError(t, svc.EnsureAdmin(ctx))

	list, err := svc.ListEmployees(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, string(employee.RoleAdmin), list[0].Role)
	assert.Equal(t, department.UnassignedID, list[0].DepartmentID)

	// the only admin cannot be removed
	err = svc.DeleteEmployee(ctx, "another-admin", list[0].ID)
	assert.ErrorIs(t, err, employee.ErrLastAdmin)

	assert.ErrorIs(t, svc.DeleteEmployee(ctx, list[0].ID, list[0].ID), employee.ErrCannotDeleteSelf)
}

func TestRosterService_UpdateEmployeeMovesHead(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	_, err := svc.CreateDepartment(ctx, department.CreateDepartmentRequest{ID: "field", Name: "Field"})
	require.NoError(t, err)
	_, err = svc.CreateDepartment(ctx, department.CreateDepartmentRequest{ID: "office", Name: "Office"})
	require.NoError(t, err)
	e1 := createEmployee(t, svc, "Ani", "081200000001", "field")
	_, err = svc.AssignHead(ctx, department.AssignHeadRequest{DepartmentID: "field", EmployeeID: &e1.ID})
	require.NoError(t, err)

	office := "office"
	start := "22:00"
	end := "06:00"
	required := true
	updated, err := svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{
		ID: e1.ID, DepartmentID: &office, ShiftStart: &start, ShiftEnd: &end, ShiftRequired: &required,
	})
	require.NoError(t, err)
	assert.Equal(t, "office", updated.DepartmentID)
	assert.Equal(t, string(employee.RoleWorker), updated.Role)
	assert.Equal(t, "22:00", updated.ShiftStart)
	assert.True(t, updated.ShiftRequired)

	fieldOnly := "field"
	members, err := svc.ListEmployees(ctx, &fieldOnly)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestRosterService_LastAdminCannotBecomeHead(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	_, err := svc.CreateDepartment(ctx, department.CreateDepartmentRequest{ID: "field", Name: "Field"})
	require.NoError(t, err)
	admin, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{
		FullName: "Root", PhoneNumber: "081200000010", Password: "secret123", DepartmentID: "field", Role: employee.RoleAdmin,
	})
	require.NoError(t, err)

	_, err = svc.AssignHead(ctx, department.AssignHeadRequest{DepartmentID: "field", EmployeeID: &admin.ID})
	assert.ErrorIs(t, err, employee.ErrLastAdmin)

	_, err = svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{
		FullName: "Second", PhoneNumber: "081200000011", Password: "secret123", DepartmentID: "field", Role: employee.RoleAdmin,
	})
	require.NoError(t, err)

	_, err = svc.AssignHead(ctx, department.AssignHeadRequest{DepartmentID: "field", EmployeeID: &admin.ID})
	require.NoError(t, err)
	head, err := svc.GetEmployee(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, string(employee.RoleDeptHead), head.Role)
}
