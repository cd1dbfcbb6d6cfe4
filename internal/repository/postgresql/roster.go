package postgresql

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `
	id, full_name, phone_number, department_id, role,
	shift_required, shift_start, shift_end,
	workplace, workplace_latitude, workplace_longitude,
	password_hash, responsibilities, created_at, updated_at`

type rosterRepositoryImpl struct {
	db *database.DB
}

// NewRosterRepository stores the roster as rows plus a single version row
// that Save bumps with a compare-and-set.
func NewRosterRepository(db *database.DB) roster.Repository {
	return &rosterRepositoryImpl{db: db}
}

func (r *rosterRepositoryImpl) Load(ctx context.Context) (roster.Snapshot, error) {
	var snap roster.Snapshot

	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		var version int64
		if err := q.QueryRow(ctx, `SELECT version FROM roster_versions WHERE id = 1`).Scan(&version); err != nil {
			return fmt.Errorf("failed to read roster version: %w", err)
		}

		employees, err := queryEmployees(ctx, q, `SELECT `+employeeColumns+` FROM employees`)
		if err != nil {
			return err
		}

		rows, err := q.Query(ctx, `
			SELECT id, name, name_en, color, head_id, created_at, updated_at
			FROM departments
		`)
		if err != nil {
			return fmt.Errorf("failed to query departments: %w", err)
		}
		departments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (department.Department, error) {
			var d department.Department
			err := row.Scan(&d.ID, &d.Name, &d.NameEn, &d.Color, &d.HeadID, &d.CreatedAt, &d.UpdatedAt)
			return d, err
		})
		if err != nil {
			return fmt.Errorf("failed to scan departments: %w", err)
		}

		snap = roster.NewSnapshot(employees, departments, version)
		return nil
	})
	if err != nil {
		return roster.Snapshot{}, err
	}
	return snap, nil
}

// Save writes only the rows that differ between prev and next.
func (r *rosterRepositoryImpl) Save(ctx context.Context, prev, next roster.Snapshot) (roster.Snapshot, error) {
	saved := next.Clone()

	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		err := q.QueryRow(ctx, `
			UPDATE roster_versions SET version = version + 1
			WHERE id = 1 AND version = $1
			RETURNING version
		`, prev.Version).Scan(&saved.Version)
		if errors.Is(err, pgx.ErrNoRows) {
			return roster.ErrStaleSnapshot
		}
		if err != nil {
			return fmt.Errorf("failed to bump roster version: %w", err)
		}

		batch := &pgx.Batch{}

		for id := range prev.Employees {
			if _, ok := next.Employees[id]; !ok {
				batch.Queue(`DELETE FROM employees WHERE id = $1`, id)
			}
		}
		for id := range prev.Departments {
			if _, ok := next.Departments[id]; !ok {
				batch.Queue(`DELETE FROM departments WHERE id = $1`, id)
			}
		}
		for id, d := range next.Departments {
			if old, ok := prev.Departments[id]; ok && reflect.DeepEqual(old, d) {
				continue
			}
			batch.Queue(`
				INSERT INTO departments (id, name, name_en, color, head_id, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (id) DO UPDATE SET
					name = EXCLUDED.name, name_en = EXCLUDED.name_en, color = EXCLUDED.color,
					head_id = EXCLUDED.head_id, updated_at = EXCLUDED.updated_at
			`, d.ID, d.Name, d.NameEn, d.Color, d.HeadID, d.CreatedAt, d.UpdatedAt)
		}
		for id, e := range next.Employees {
			if old, ok := prev.Employees[id]; ok && reflect.DeepEqual(old, e) {
				continue
			}
			batch.Queue(`
				INSERT INTO employees (`+employeeColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
				ON CONFLICT (id) DO UPDATE SET
					full_name = EXCLUDED.full_name, phone_number = EXCLUDED.phone_number,
					department_id = EXCLUDED.department_id, role = EXCLUDED.role,
					shift_required = EXCLUDED.shift_required, shift_start = EXCLUDED.shift_start,
					shift_end = EXCLUDED.shift_end, workplace = EXCLUDED.workplace,
					workplace_latitude = EXCLUDED.workplace_latitude,
					workplace_longitude = EXCLUDED.workplace_longitude,
					password_hash = EXCLUDED.password_hash,
					responsibilities = EXCLUDED.responsibilities,
					updated_at = EXCLUDED.updated_at
			`, e.ID, e.FullName, e.PhoneNumber, e.DepartmentID, string(e.Role),
				e.ShiftRequired, e.ShiftStart, e.ShiftEnd,
				e.Workplace, e.WorkplaceLatitude, e.WorkplaceLongitude,
				e.PasswordHash, e.Responsibilities, e.CreatedAt, e.UpdatedAt)
		}

		if batch.Len() == 0 {
			return nil
		}

		tx, ok := q.(pgx.Tx)
		if !ok {
			return errors.New("roster save must run in a transaction")
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			if isUniqueViolation(err, "employees_phone_number_key") {
				return employee.ErrPhoneExists
			}
			return fmt.Errorf("failed to write roster rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return roster.Snapshot{}, err
	}
	return saved, nil
}

func queryEmployees(ctx context.Context, q database.Querier, query string, args ...any) ([]employee.Employee, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	employees, err := pgx.CollectRows(rows, scanEmployee)
	if err != nil {
		return nil, fmt.Errorf("failed to scan employees: %w", err)
	}
	return employees, nil
}

func scanEmployee(row pgx.CollectableRow) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.FullName, &e.PhoneNumber, &e.DepartmentID, &e.Role,
		&e.ShiftRequired, &e.ShiftStart, &e.ShiftEnd,
		&e.Workplace, &e.WorkplaceLatitude, &e.WorkplaceLongitude,
		&e.PasswordHash, &e.Responsibilities, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}
