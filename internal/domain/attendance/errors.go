package attendance

import (
	"errors"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/apperror"
)

// Attendance domain errors
var (
	ErrLocationUnavailable = apperror.New(apperror.KindLocationUnavailable, "location is unavailable, enable location access and retry")
	ErrDuplicateEvent      = apperror.New(apperror.KindDuplicateEvent, "an event of this kind was already recorded in the current shift window")

	ErrInvalidKind  = errors.New("attendance kind must be IN or OUT")
	ErrPhotoMissing = errors.New("attendance photo is required")
)
