package summary

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
)

// DefaultMaxEvents bounds how many recent events are handed to a Summarizer.
const DefaultMaxEvents = 50

var ErrUnavailable = errors.New("attendance summary is not available")

// Summarizer produces free-form text about recent attendance. The output has
// no contract; callers show it verbatim.
type Summarizer interface {
	Summarize(ctx context.Context, events []attendance.Event) (string, error)
}
