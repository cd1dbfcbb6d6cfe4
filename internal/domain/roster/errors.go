package roster

import (
	"errors"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/apperror"
)

var (
	ErrStaleSnapshot = apperror.New(apperror.KindStaleSnapshot, "roster was changed concurrently, please retry")

	ErrRoleMismatch = errors.New("employee role does not match department headship")
)
