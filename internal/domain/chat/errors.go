package chat

import (
	"errors"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/apperror"
)

var (
	ErrEmptyAudience = apperror.New(apperror.KindEmptyAudience, "a direct message needs at least one recipient")

	ErrInvalidAudience = errors.New("audience must be broadcast, department or direct")
	ErrEmptyText       = errors.New("message text is required")
)
