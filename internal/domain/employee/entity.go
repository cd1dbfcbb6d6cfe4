package employee

import (
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
)

type Role string

const (
	RoleWorker     Role = "WORKER"
	RoleSupervisor Role = "SUPERVISOR"
	RoleDeptHead   Role = "DEPT_HEAD"
	RoleAdmin      Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleWorker, RoleSupervisor, RoleDeptHead, RoleAdmin:
		return true
	}
	return false
}

const (
	DefaultShiftStart = "08:00"
	DefaultShiftEnd   = "16:00"
)

type Employee struct {
	ID                 string
	FullName           string
	PhoneNumber        string
	DepartmentID       string
	Role               Role
	ShiftRequired      bool
	ShiftStart         string // HH:MM
	ShiftEnd           string // HH:MM
	Workplace          *string
	WorkplaceLatitude  *float64
	WorkplaceLongitude *float64
	PasswordHash       string
	Responsibilities   *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Shift returns the employee's daily shift window. Unparseable times fall back
// to the defaults.
func (e Employee) Shift() attendance.ShiftWindow {
	start, err := attendance.ParseTimeOfDay(e.ShiftStart)
	if err != nil {
		start, _ = attendance.ParseTimeOfDay(DefaultShiftStart)
	}
	end, err := attendance.ParseTimeOfDay(e.ShiftEnd)
	if err != nil {
		end, _ = attendance.ParseTimeOfDay(DefaultShiftEnd)
	}
	return attendance.ShiftWindow{Required: e.ShiftRequired, Start: start, End: end}
}

// Site returns the employee's fixed workplace geofence, or nil when the
// employee has no workplace coordinates.
func (e Employee) Site(radiusMeters float64) *attendance.Site {
	if e.WorkplaceLatitude == nil || e.WorkplaceLongitude == nil {
		return nil
	}
	return &attendance.Site{
		Position:     attendance.Position{Latitude: *e.WorkplaceLatitude, Longitude: *e.WorkplaceLongitude},
		RadiusMeters: radiusMeters,
	}
}
