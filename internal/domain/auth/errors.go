package auth

import (
	"errors"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/apperror"
)

var (
	ErrInvalidCredentials  = apperror.New(apperror.KindInvalidCredentials, "invalid phone number or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
)
