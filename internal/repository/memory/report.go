package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/report"
	"github.com/google/uuid"
)

type ReportRepository struct {
	store *Store
}

func (r *ReportRepository) Create(ctx context.Context, rep report.Report) (report.Report, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if rep.ID == "" {
		rep.ID = uuid.Must(uuid.NewV7()).String()
	}
	r.store.reports = append(r.store.reports, rep)
	return rep, nil
}

func (r *ReportRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]report.Report, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []report.Report
	for _, rep := range r.store.reports {
		if !rep.CreatedAt.Before(since) {
			out = append(out, rep)
		}
	}
	return out, nil
}
