package attendance

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) offset() time.Duration {
	return time.Duration(t.Hour)*time.Hour + time.Duration(t.Minute)*time.Minute
}

// ShiftWindow is an employee's expected presence, repeated daily.
type ShiftWindow struct {
	Required bool
	Start    TimeOfDay
	End      TimeOfDay
}

// Duration of one shift. A shift whose end is not after its start crosses midnight.
func (w ShiftWindow) Duration() time.Duration {
	d := w.End.offset() - w.Start.offset()
	if d <= 0 {
		d += day
	}
	return d
}

// Bounds returns the daily window containing at. For a required shift the
// window is centred on the shift, so both edges sit in the middle of the
// off-shift gap and an overnight shift keeps its IN and OUT in one window.
// Without a required shift the window is the calendar day of at. Edges are
// wall-clock times, so a window spanning a DST change lasts 23h or 25h.
func (w ShiftWindow) Bounds(at time.Time) (from, to time.Time) {
	if !w.Required {
		y, m, d := at.Date()
		return wallClock(y, m, d, 0, at.Location()), wallClock(y, m, d+1, 0, at.Location())
	}
	from, to, _ = w.window(at)
	return from, to
}

// ScheduledStart is the shift start inside the window containing at.
func (w ShiftWindow) ScheduledStart(at time.Time) time.Time {
	if !w.Required {
		from, _ := w.Bounds(at)
		return from
	}
	_, _, shiftDay := w.window(at)
	y, m, d := shiftDay.Date()
	return wallClock(y, m, d, w.Start.offset(), at.Location())
}

// ScheduledEnd is the shift end inside the window containing at.
func (w ShiftWindow) ScheduledEnd(at time.Time) time.Time {
	if !w.Required {
		_, to := w.Bounds(at)
		return to
	}
	_, _, shiftDay := w.window(at)
	y, m, d := shiftDay.Date()
	return wallClock(y, m, d, w.Start.offset()+w.Duration(), at.Location())
}

// window finds the window holding at and the calendar day its shift starts on.
// Each edge is rebuilt from the date rather than stepped by 24h.
func (w ShiftWindow) window(at time.Time) (from, to, shiftDay time.Time) {
	loc := at.Location()
	y, m, d := at.Date()
	lead := w.Start.offset() - (day-w.Duration())/2
	edge := func(k int) time.Time {
		return wallClock(y, m, d+k, lead, loc)
	}

	k := 0
	for edge(k).After(at) {
		k--
	}
	for !at.Before(edge(k + 1)) {
		k++
	}
	return edge(k), edge(k + 1), wallClock(y, m, d+k, 0, loc)
}

// wallClock is the instant the clock in loc reads off past midnight on the
// given date. off may fall outside [0, 24h) and carries into the day.
func wallClock(y int, m time.Month, d int, off time.Duration, loc *time.Location) time.Time {
	for off < 0 {
		off += day
		d--
	}
	for off >= day {
		off -= day
		d++
	}
	return time.Date(y, m, d,
		int(off/time.Hour), int(off%time.Hour/time.Minute), int(off%time.Minute/time.Second), int(off%time.Second), loc)
}
