package attendance

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("07:45")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 7, Minute: 45}, tod)
	assert.Equal(t, "07:45", tod.String())

	_, err = ParseTimeOfDay("7.45")
	assert.Error(t, err)
}

func TestShiftWindow_DayShiftUsesCalendarDay(t *testing.T) {
	w := ShiftWindow{Required: true, Start: mustTime(t, "08:00"), End: mustTime(t, "16:00")}
	at := time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)

	from, to := w.Bounds(at)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), to)
	assert.Equal(t, time.Date(2025, 3, 4, 8, 0, 0, 0, time.UTC), w.ScheduledStart(at))
	assert.Equal(t, time.Date(2025, 3, 4, 16, 0, 0, 0, time.UTC), w.ScheduledEnd(at))
}

func TestShiftWindow_OvernightShiftKeepsInAndOutTogether(t *testing.T) {
	w := ShiftWindow{Required: true, Start: mustTime(t, "22:00"), End: mustTime(t, "06:00")}
	assert.Equal(t, 8*time.Hour, w.Duration())

	checkIn := time.Date(2025, 3, 4, 21, 55, 0, 0, time.UTC)
	checkOut := time.Date(2025, 3, 5, 6, 5, 0, 0, time.UTC)

	inFrom, _ := w.Bounds(checkIn)
	outFrom, _ := w.Bounds(checkOut)
	assert.Equal(t, inFrom, outFrom)
	assert.Equal(t, time.Date(2025, 3, 4, 14, 0, 0, 0, time.UTC), inFrom)
	assert.Equal(t, time.Date(2025, 3, 4, 22, 0, 0, 0, time.UTC), w.ScheduledStart(checkOut))
}

func TestShiftWindow_BoundsContainTimestamp(t *testing.T) {
	w := ShiftWindow{Required: true, Start: mustTime(t, "22:00"), End: mustTime(t, "06:00")}
	at := time.Date(2025, 3, 5, 13, 59, 0, 0, time.UTC)

	from, to := w.Bounds(at)
	assert.False(t, at.Before(from))
	assert.True(t, at.Before(to))
	assert.Equal(t, 24*time.Hour, to.Sub(from))
}

func TestShiftWindow_OvernightShiftAcrossDSTChange(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	w := ShiftWindow{Required: true, Start: mustTime(t, "22:00"), End: mustTime(t, "06:00")}

	// Clocks went forward at 02:00 on 30 March 2025.
	lateIn := time.Date(2025, 3, 30, 22, 5, 0, 0, paris)
	afterMidnight := time.Date(2025, 3, 31, 0, 30, 0, 0, paris)

	inFrom, inTo := w.Bounds(lateIn)
	otherFrom, otherTo := w.Bounds(afterMidnight)
	assert.True(t, inFrom.Equal(otherFrom))
	assert.True(t, inTo.Equal(otherTo))
	assert.True(t, inFrom.Equal(time.Date(2025, 3, 30, 14, 0, 0, 0, paris)))
	assert.True(t, inTo.Equal(time.Date(2025, 3, 31, 14, 0, 0, 0, paris)))
	assert.True(t, w.ScheduledStart(afterMidnight).Equal(time.Date(2025, 3, 30, 22, 0, 0, 0, paris)))
	assert.True(t, w.ScheduledEnd(lateIn).Equal(time.Date(2025, 3, 31, 6, 0, 0, 0, paris)))

	// The window over the spring-forward night is an hour short.
	from, to := w.Bounds(time.Date(2025, 3, 30, 1, 0, 0, 0, paris))
	assert.True(t, from.Equal(time.Date(2025, 3, 29, 14, 0, 0, 0, paris)))
	assert.Equal(t, 23*time.Hour, to.Sub(from))

	// Clocks went back at 03:00 on 26 October 2025; 13:30 is still the night shift's window.
	at := time.Date(2025, 10, 26, 13, 30, 0, 0, paris)
	from, to = w.Bounds(at)
	assert.True(t, from.Equal(time.Date(2025, 10, 25, 14, 0, 0, 0, paris)))
	assert.Equal(t, 25*time.Hour, to.Sub(from))
	assert.True(t, w.ScheduledStart(at).Equal(time.Date(2025, 10, 25, 22, 0, 0, 0, paris)))
}

func TestShiftWindow_NotRequiredUsesLocalCalendarDay(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	w := ShiftWindow{Start: mustTime(t, "08:00"), End: mustTime(t, "16:00")}
	at := time.Date(2025, 3, 4, 23, 30, 0, 0, jakarta)

	from, to := w.Bounds(at)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, jakarta), from)
	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, jakarta), to)
}

func TestFilter_Match(t *testing.T) {
	emp := "emp-1"
	dept := "field"
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	f := Filter{EmployeeID: &emp, DepartmentID: &dept, From: &from, To: &to}

	e := Event{EmployeeID: emp, DepartmentID: dept, Timestamp: from}
	assert.True(t, f.Match(e))

	e.Timestamp = to
	assert.False(t, f.Match(e), "upper bound is exclusive")

	e.Timestamp = from
	e.DepartmentID = "office"
	assert.False(t, f.Match(e))
}
