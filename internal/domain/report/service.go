package report

import (
	"context"
)

type ReportService interface {
	Submit(ctx context.Context, req SubmitReportRequest) (ReportResponse, error)

	// ListActive returns reports inside the retention period, newest first.
	// An empty department or AllDepartments matches every department.
	ListActive(ctx context.Context, department string) ([]ReportResponse, error)
}
