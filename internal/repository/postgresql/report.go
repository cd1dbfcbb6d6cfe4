package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.Repository {
	return &reportRepositoryImpl{db: db}
}

func (r *reportRepositoryImpl) Create(ctx context.Context, rep report.Report) (report.Report, error) {
	q := GetQuerier(ctx, r.db)

	if rep.ID == "" {
		rep.ID = uuid.Must(uuid.NewV7()).String()
	}
	if rep.CreatedAt.IsZero() {
		rep.CreatedAt = time.Now()
	}

	_, err := q.Exec(ctx, `
		INSERT INTO reports (id, employee_id, employee_name, department_id, content, kind, attachment_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, rep.ID, rep.EmployeeID, rep.EmployeeName, rep.DepartmentID, rep.Content, string(rep.Kind), rep.AttachmentRef, rep.CreatedAt)
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to create report: %w", err)
	}
	return rep, nil
}

func (r *reportRepositoryImpl) ListCreatedSince(ctx context.Context, since time.Time) ([]report.Report, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, employee_id, employee_name, department_id, content, kind, attachment_ref, created_at
		FROM reports
		WHERE created_at >= $1
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}

	reports, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (report.Report, error) {
		var rep report.Report
		err := row.Scan(&rep.ID, &rep.EmployeeID, &rep.EmployeeName, &rep.DepartmentID,
			&rep.Content, &rep.Kind, &rep.AttachmentRef, &rep.CreatedAt)
		return rep, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan reports: %w", err)
	}
	return reports, nil
}
