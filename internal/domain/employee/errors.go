package employee

import (
	"errors"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/apperror"
)

var (
	ErrUnknownEmployee = apperror.New(apperror.KindUnknownEmployee, "employee not found")

	ErrPhoneExists      = errors.New("phone number already registered")
	ErrCannotDeleteSelf = errors.New("cannot delete your own employee record")
	ErrLastAdmin        = errors.New("cannot remove the last admin")
	ErrInvalidWorkplace = errors.New("workplace latitude and longitude must be set together")
)
