package aisummary

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompt_OldestFirst(t *testing.T) {
	distance := 412.4
	events := []attendance.Event{
		{EmployeeName: "Budi", DepartmentID: "field", Kind: attendance.KindIn, Status: attendance.StatusOutOfBounds,
			Timestamp: time.Date(2025, 3, 4, 2, 10, 0, 0, time.UTC), DistanceMeters: &distance},
		{EmployeeName: "Ani", DepartmentID: "field", Kind: attendance.KindIn, Status: attendance.StatusLate,
			Timestamp: time.Date(2025, 3, 4, 1, 30, 0, 0, time.UTC)},
	}

	prompt := Prompt(events, time.FixedZone("WIB", 7*60*60))
	assert.Contains(t, prompt, "2025-03-04 08:30 | Ani | field | IN | LATE | -\n2025-03-04 09:10 | Budi | field | IN | OUT_OF_BOUNDS | 412m\n")
}

func TestNewGeminiSummarizer_RequiresKey(t *testing.T) {
	_, err := NewGeminiSummarizer(context.Background(), "", "gemini-2.0-flash", nil)
	require.Error(t, err)
}
