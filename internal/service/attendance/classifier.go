package attendance

import (
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/utils"
)

// Classifier decides the status of an attendance event. It is a value type
// with no I/O and never fails.
type Classifier struct {
	// Policy applies when the employee has no fixed workplace.
	Policy attendance.MissingSitePolicy
	// CompanySite is the fallback geofence for MissingSiteCompanySite.
	CompanySite *attendance.Site
	// Grace is the tolerance after the shift start before an IN counts as late.
	Grace time.Duration
}

// Observation is everything known about an event at capture time.
type Observation struct {
	Kind     attendance.Kind
	Position attendance.Position
	// Site is the employee's own workplace, nil when none is set.
	Site  *attendance.Site
	Shift attendance.ShiftWindow
	At    time.Time
}

type Classification struct {
	Status attendance.Status
	// DistanceMeters is nil when no geofence was checked.
	DistanceMeters *float64
}

func (c Classifier) Classify(o Observation) Classification {
	site := o.Site
	if site == nil {
		switch c.Policy {
		case attendance.MissingSiteReject:
			return Classification{Status: attendance.StatusOutOfBounds}
		case attendance.MissingSiteCompanySite:
			site = c.CompanySite
		}
		if site == nil {
			return Classification{Status: attendance.StatusPresent}
		}
	}

	distance := utils.CalculateHaversineDistance(
		o.Position.Latitude, o.Position.Longitude,
		site.Position.Latitude, site.Position.Longitude,
	)
	result := Classification{DistanceMeters: &distance}

	switch {
	case distance > site.RadiusMeters:
		result.Status = attendance.StatusOutOfBounds
	case o.Kind == attendance.KindIn && c.isLate(o.Shift, o.At):
		result.Status = attendance.StatusLate
	default:
		result.Status = attendance.StatusPresent
	}
	return result
}

func (c Classifier) isLate(shift attendance.ShiftWindow, at time.Time) bool {
	if !shift.Required {
		return false
	}
	return at.After(shift.ScheduledStart(at).Add(c.Grace))
}
