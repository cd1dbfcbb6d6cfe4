package report

import "time"

// RetentionPeriod is how long a report stays in the active view.
const RetentionPeriod = 30 * 24 * time.Hour

// AllDepartments is the department filter that matches every report.
const AllDepartments = "all"

type Kind string

const (
	KindText Kind = "text"
	KindLink Kind = "link"
	KindFile Kind = "file"
)

// Report is immutable once submitted.
type Report struct {
	ID            string
	EmployeeID    string
	EmployeeName  string
	DepartmentID  string
	Content       string
	Kind          Kind
	AttachmentRef *string
	CreatedAt     time.Time
}
