package dashboard

import "github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/validator"

type OverviewRequest struct {
	Date *string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
}

func (r *OverviewRequest) Validate() error {
	if r.Date != nil && *r.Date != "" {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			return validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
		}
	}
	return nil
}

// StatusCounts counts employees by the status of their first IN of the day.
type StatusCounts struct {
	Present      int64 `json:"present"`
	Late         int64 `json:"late"`
	OutOfBounds  int64 `json:"out_of_bounds"`
	Absent       int64 `json:"absent"`
	NotCheckedIn int64 `json:"not_checked_in"`
	CheckedOut   int64 `json:"checked_out"`
}

type DepartmentOverview struct {
	DepartmentID   string       `json:"department_id"`
	DepartmentName string       `json:"department_name"`
	TotalEmployees int64        `json:"total_employees"`
	Counts         StatusCounts `json:"counts"`
}

type OverviewResponse struct {
	Date           string               `json:"date"`
	TotalEmployees int64                `json:"total_employees"`
	Counts         StatusCounts         `json:"counts"`
	Departments    []DepartmentOverview `json:"departments"`
}

type SummaryResponse struct {
	Summary     string `json:"summary"`
	EventCount  int    `json:"event_count"`
	GeneratedAt string `json:"generated_at"`
}
