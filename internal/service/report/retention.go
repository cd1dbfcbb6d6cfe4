package report

import (
	"cmp"
	"slices"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/report"
)

// ActiveReports keeps the reports no older than report.RetentionPeriod that
// belong to departmentFilter, newest first. Older reports are only hidden.
func ActiveReports(reports []report.Report, now time.Time, departmentFilter string) []report.Report {
	cutoff := now.Add(-report.RetentionPeriod)
	everyDepartment := departmentFilter == "" || departmentFilter == report.AllDepartments

	out := make([]report.Report, 0, len(reports))
	for _, r := range reports {
		if r.CreatedAt.Before(cutoff) {
			continue
		}
		if !everyDepartment && r.DepartmentID != departmentFilter {
			continue
		}
		out = append(out, r)
	}

	slices.SortStableFunc(out, func(a, b report.Report) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out
}
