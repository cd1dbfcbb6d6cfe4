package department

import "time"

// UnassignedID holds employees whose department was removed.
const UnassignedID = "unassigned"

type Department struct {
	ID        string
	Name      string
	NameEn    string
	Color     string
	HeadID    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
