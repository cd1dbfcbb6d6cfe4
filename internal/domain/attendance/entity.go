package attendance

import (
	"time"
)

// Kind is the direction of an attendance event.
type Kind string

const (
	KindIn  Kind = "IN"
	KindOut Kind = "OUT"
)

func (k Kind) Valid() bool {
	return k == KindIn || k == KindOut
}

// Status is the classification computed when an event is recorded.
type Status string

const (
	StatusPresent     Status = "PRESENT"
	StatusOutOfBounds Status = "OUT_OF_BOUNDS"
	StatusLate        Status = "LATE"
	StatusAbsent      Status = "ABSENT"
)

// Position is a WGS84 coordinate in decimal degrees.
type Position struct {
	Latitude  float64
	Longitude float64
}

// Site is a geofence: a reference position and an allowed radius.
type Site struct {
	Position     Position
	RadiusMeters float64
}

// MissingSitePolicy decides how an employee without a fixed workplace is classified.
type MissingSitePolicy string

const (
	// MissingSiteUnrestricted skips classification entirely and yields PRESENT.
	MissingSiteUnrestricted MissingSitePolicy = "unrestricted"
	// MissingSiteCompanySite geofences against the company work site.
	MissingSiteCompanySite MissingSitePolicy = "company_site"
	// MissingSiteReject yields OUT_OF_BOUNDS.
	MissingSiteReject MissingSitePolicy = "reject"
)

func (p MissingSitePolicy) Valid() bool {
	switch p {
	case MissingSiteUnrestricted, MissingSiteCompanySite, MissingSiteReject:
		return true
	}
	return false
}

// Event is an immutable ledger entry.
type Event struct {
	ID             string
	EmployeeID     string
	EmployeeName   string
	DepartmentID   string
	Kind           Kind
	Timestamp      time.Time
	PhotoRef       *string
	Position       *Position
	DistanceMeters *float64
	Status         Status
	// WindowStart is the start of the shift window the event was recorded in.
	WindowStart time.Time
	CreatedAt   time.Time
}

// Filter selects ledger events. Nil fields match everything. Limit and
// Offset page through the newest-first order; a zero Limit returns all.
type Filter struct {
	EmployeeID   *string
	DepartmentID *string
	Status       *Status
	From         *time.Time // inclusive
	To           *time.Time // exclusive

	Limit  int
	Offset int
}

// Match reports whether e passes every set filter.
func (f Filter) Match(e Event) bool {
	if f.EmployeeID != nil && e.EmployeeID != *f.EmployeeID {
		return false
	}
	if f.DepartmentID != nil && e.DepartmentID != *f.DepartmentID {
		return false
	}
	if f.Status != nil && e.Status != *f.Status {
		return false
	}
	if f.From != nil && e.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && !e.Timestamp.Before(*f.To) {
		return false
	}
	return true
}
