package dashboard

import "context"

type DashboardService interface {
	// Overview counts today's attendance per status, overall and per department.
	Overview(ctx context.Context, req OverviewRequest) (OverviewResponse, error)

	// Summary asks the AI collaborator to describe recent attendance.
	Summary(ctx context.Context) (SummaryResponse, error)
}
