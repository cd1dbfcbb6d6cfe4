package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/lock"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
)

const (
	lockKey     = "roster"
	lockTTL     = 10 * time.Second
	maxAttempts = 3
)

// errUnchanged lets a mutation decline to write anything.
var errUnchanged = errors.New("roster unchanged")

// BootstrapAdmin is the administrator created on an empty roster.
type BootstrapAdmin struct {
	Name     string
	Phone    string
	Password string
}

type RosterServiceImpl struct {
	repo      roster.Repository
	locker    lock.Locker
	bootstrap BootstrapAdmin
	tracer    trace.Tracer
	now       func() time.Time
}

func NewRosterService(repo roster.Repository, locker lock.Locker, bootstrap BootstrapAdmin) roster.RosterService {
	return &RosterServiceImpl{
		repo:      repo,
		locker:    locker,
		bootstrap: bootstrap,
		tracer:    otel.Tracer("fieldforce/roster"),
		now:       time.Now,
	}
}

// mutate applies fn to the latest snapshot and stores the result. Writers are
// serialized by the lock; the version check catches writers that bypass it
// (another replica without Redis, a manual migration) and the whole
// read-apply-save is retried.
func (s *RosterServiceImpl) mutate(ctx context.Context, op string, fn func(roster.Snapshot) (roster.Snapshot, error)) (roster.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "roster."+op)
	defer span.End()

	unlock, err := s.locker.Lock(ctx, lockKey, lockTTL)
	if err != nil {
		return roster.Snapshot{}, fmt.Errorf("lock roster: %w", err)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("failed to release roster lock", "op", op, "error", err)
		}
	}()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		span.SetAttributes(attribute.Int("roster.attempt", attempt))

		current, err := s.repo.Load(ctx)
		if err != nil {
			return roster.Snapshot{}, fmt.Errorf("load roster: %w", err)
		}

		next, err := fn(Reconcile(current))
		if errors.Is(err, errUnchanged) {
			return current, nil
		}
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return roster.Snapshot{}, err
		}

		if err := Validate(next); err != nil {
			return roster.Snapshot{}, fmt.Errorf("roster %s produced an inconsistent snapshot: %w", op, err)
		}
		if countAdmins(current) > 0 && countAdmins(next) == 0 {
			return roster.Snapshot{}, employee.ErrLastAdmin
		}

		saved, err := s.repo.Save(ctx, current, next)
		if errors.Is(err, roster.ErrStaleSnapshot) {
			slog.Warn("roster snapshot changed concurrently, retrying", "op", op, "attempt", attempt)
			continue
		}
		if err != nil {
			return roster.Snapshot{}, fmt.Errorf("save roster: %w", err)
		}

		slog.Info("roster updated", "op", op, "version", saved.Version)
		return saved, nil
	}

	span.SetStatus(codes.Error, "stale snapshot")
	return roster.Snapshot{}, roster.ErrStaleSnapshot
}

func countAdmins(s roster.Snapshot) int {
	n := 0
	for _, e := range s.Employees {
		if e.Role == employee.RoleAdmin {
			n++
		}
	}
	return n
}

func phoneTaken(s roster.Snapshot, phone, exceptID string) bool {
	for _, e := range s.Employees {
		if e.ID != exceptID && e.PhoneNumber == phone {
			return true
		}
	}
	return false
}

func (s *RosterServiceImpl) ListEmployees(ctx context.Context, departmentID *string) ([]employee.EmployeeResponse, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	list := snap.EmployeeList()
	if departmentID != nil {
		list = snap.Members(*departmentID)
	}

	out := make([]employee.EmployeeResponse, 0, len(list))
	for _, e := range list {
		out = append(out, employee.ToResponse(e))
	}
	return out, nil
}

func (s *RosterServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("load roster: %w", err)
	}
	e, ok := snap.Employees[id]
	if !ok {
		return employee.EmployeeResponse{}, employee.ErrUnknownEmployee
	}
	return employee.ToResponse(e), nil
}

func (s *RosterServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	e := employee.Employee{
		ID:                 uuid.Must(uuid.NewV7()).String(),
		FullName:           req.FullName,
		PhoneNumber:        req.PhoneNumber,
		DepartmentID:       req.DepartmentID,
		Role:               req.Role,
		ShiftRequired:      req.ShiftRequired,
		ShiftStart:         employee.DefaultShiftStart,
		ShiftEnd:           employee.DefaultShiftEnd,
		Workplace:          req.Workplace,
		WorkplaceLatitude:  req.WorkplaceLatitude,
		WorkplaceLongitude: req.WorkplaceLongitude,
		PasswordHash:       string(hash),
		Responsibilities:   req.Responsibilities,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if e.Role == "" {
		e.Role = employee.RoleWorker
	}
	if req.ShiftStart != nil {
		e.ShiftStart = *req.ShiftStart
	}
	if req.ShiftEnd != nil {
		e.ShiftEnd = *req.ShiftEnd
	}

	saved, err := s.mutate(ctx, "create_employee", func(snap roster.Snapshot) (roster.Snapshot, error) {
		if phoneTaken(snap, e.PhoneNumber, "") {
			return roster.Snapshot{}, employee.ErrPhoneExists
		}
		return UpsertEmployee(snap, e)
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(saved.Employees[e.ID]), nil
}

func (s *RosterServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var hash *string
	if req.Password != nil {
		b, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
		}
		h := string(b)
		hash = &h
	}

	saved, err := s.mutate(ctx, "update_employee", func(snap roster.Snapshot) (roster.Snapshot, error) {
		e, ok := snap.Employees[req.ID]
		if !ok {
			return roster.Snapshot{}, employee.ErrUnknownEmployee
		}

		if req.FullName != nil {
			e.FullName = *req.FullName
		}
		if req.PhoneNumber != nil {
			if phoneTaken(snap, *req.PhoneNumber, e.ID) {
				return roster.Snapshot{}, employee.ErrPhoneExists
			}
			e.PhoneNumber = *req.PhoneNumber
		}
		if hash != nil {
			e.PasswordHash = *hash
		}
		if req.DepartmentID != nil {
			e.DepartmentID = *req.DepartmentID
		}
		if req.Role != nil {
			e.Role = *req.Role
		}
		if req.ShiftRequired != nil {
			e.ShiftRequired = *req.ShiftRequired
		}
		if req.ShiftStart != nil {
			e.ShiftStart = *req.ShiftStart
		}
		if req.ShiftEnd != nil {
			e.ShiftEnd = *req.ShiftEnd
		}
		if req.Workplace != nil {
			e.Workplace = req.Workplace
		}
		if req.WorkplaceLatitude != nil {
			e.WorkplaceLatitude = req.WorkplaceLatitude
			e.WorkplaceLongitude = req.WorkplaceLongitude
		}
		if req.Responsibilities != nil {
			e.Responsibilities = req.Responsibilities
		}
		e.UpdatedAt = s.now()

		return UpsertEmployee(snap, e)
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(saved.Employees[req.ID]), nil
}

func (s *RosterServiceImpl) DeleteEmployee(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return employee.ErrCannotDeleteSelf
	}
	_, err := s.mutate(ctx, "remove_employee", func(snap roster.Snapshot) (roster.Snapshot, error) {
		return RemoveEmployee(snap, id)
	})
	return err
}

func (s *RosterServiceImpl) ListDepartments(ctx context.Context) ([]department.DepartmentResponse, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	list := snap.DepartmentList()
	out := make([]department.DepartmentResponse, 0, len(list))
	for _, d := range list {
		out = append(out, departmentResponse(snap, d))
	}
	return out, nil
}

func (s *RosterServiceImpl) CreateDepartment(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	now := s.now()
	d := department.Department{
		ID:        req.ID,
		Name:      req.Name,
		NameEn:    req.NameEn,
		Color:     req.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	saved, err := s.mutate(ctx, "create_department", func(snap roster.Snapshot) (roster.Snapshot, error) {
		if _, exists := snap.Departments[d.ID]; exists {
			return roster.Snapshot{}, department.ErrDepartmentExists
		}
		return UpsertDepartment(snap, d)
	})
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return departmentResponse(saved, saved.Departments[d.ID]), nil
}

func (s *RosterServiceImpl) UpdateDepartment(ctx context.Context, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	saved, err := s.mutate(ctx, "update_department", func(snap roster.Snapshot) (roster.Snapshot, error) {
		d, ok := snap.Departments[req.ID]
		if !ok {
			return roster.Snapshot{}, department.ErrUnknownDepartment
		}
		if req.Name != nil {
			d.Name = *req.Name
		}
		if req.NameEn != nil {
			d.NameEn = *req.NameEn
		}
		if req.Color != nil {
			d.Color = *req.Color
		}
		d.UpdatedAt = s.now()
		return UpsertDepartment(snap, d)
	})
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return departmentResponse(saved, saved.Departments[req.ID]), nil
}

func (s *RosterServiceImpl) DeleteDepartment(ctx context.Context, id string) error {
	_, err := s.mutate(ctx, "remove_department", func(snap roster.Snapshot) (roster.Snapshot, error) {
		return RemoveDepartment(snap, id)
	})
	return err
}

func (s *RosterServiceImpl) AssignHead(ctx context.Context, req department.AssignHeadRequest) (department.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	saved, err := s.mutate(ctx, "assign_head", func(snap roster.Snapshot) (roster.Snapshot, error) {
		return AssignHead(snap, req.DepartmentID, req.EmployeeID)
	})
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return departmentResponse(saved, saved.Departments[req.DepartmentID]), nil
}

func (s *RosterServiceImpl) EnsureAdmin(ctx context.Context) error {
	if s.bootstrap.Phone == "" {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.bootstrap.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.mutate(ctx, "bootstrap_admin", func(snap roster.Snapshot) (roster.Snapshot, error) {
		if countAdmins(snap) > 0 || phoneTaken(snap, s.bootstrap.Phone, "") {
			return roster.Snapshot{}, errUnchanged
		}

		now := s.now()
		admin := employee.Employee{
			ID:           uuid.Must(uuid.NewV7()).String(),
			FullName:     s.bootstrap.Name,
			PhoneNumber:  s.bootstrap.Phone,
			DepartmentID: department.UnassignedID,
			Role:         employee.RoleAdmin,
			ShiftStart:   employee.DefaultShiftStart,
			ShiftEnd:     employee.DefaultShiftEnd,
			PasswordHash: string(hash),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		slog.Info("seeding bootstrap admin", "employee_id", admin.ID)
		return UpsertEmployee(snap, admin)
	})
	return err
}

func departmentResponse(snap roster.Snapshot, d department.Department) department.DepartmentResponse {
	resp := department.DepartmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		NameEn:      d.NameEn,
		Color:       d.Color,
		HeadID:      d.HeadID,
		MemberCount: len(snap.Members(d.ID)),
	}
	if d.HeadID != nil {
		if head, ok := snap.Employees[*d.HeadID]; ok {
			resp.HeadName = &head.FullName
		}
	}
	return resp
}
