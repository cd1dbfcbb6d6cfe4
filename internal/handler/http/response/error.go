package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/chat"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/summary"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/validator"
)

// kindStatus is the HTTP status for each typed domain error.
var kindStatus = map[apperror.Kind]int{
	apperror.KindLocationUnavailable:       http.StatusUnprocessableEntity,
	apperror.KindDuplicateEvent:            http.StatusConflict,
	apperror.KindCrossDepartmentAssignment: http.StatusUnprocessableEntity,
	apperror.KindEmptyAudience:             http.StatusUnprocessableEntity,
	apperror.KindUnknownEmployee:           http.StatusNotFound,
	apperror.KindUnknownDepartment:         http.StatusNotFound,
	apperror.KindStaleSnapshot:             http.StatusConflict,
	apperror.KindInvalidCredentials:        http.StatusUnauthorized,
	apperror.KindForbidden:                 http.StatusForbidden,
	apperror.KindInvalidInput:              http.StatusBadRequest,
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		status, ok := kindStatus[appErr.Kind]
		if !ok {
			status = http.StatusBadRequest
		}
		Error(w, status, string(appErr.Kind), appErr.Message)
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, jwt.ErrInvalidClaims):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")

	// Roster
	case errors.Is(err, employee.ErrPhoneExists):
		Conflict(w, "Phone number already registered")
	case errors.Is(err, employee.ErrLastAdmin):
		Conflict(w, err.Error())
	case errors.Is(err, employee.ErrCannotDeleteSelf):
		Forbidden(w, err.Error())
	case errors.Is(err, department.ErrDepartmentExists):
		Conflict(w, "Department already exists")
	case errors.Is(err, department.ErrCannotRemoveUnassigned):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, roster.ErrRoleMismatch):
		Error(w, http.StatusUnprocessableEntity, "ROLE_MISMATCH", err.Error())

	// Chat
	case errors.Is(err, chat.ErrInvalidAudience):
		BadRequest(w, err.Error(), nil)

	// Files
	case errors.Is(err, storage.ErrNotFound):
		NotFound(w, "File not found")
	case errors.Is(err, storage.ErrInvalidPath):
		BadRequest(w, "Invalid file path", nil)

	case errors.Is(err, summary.ErrUnavailable):
		Error(w, http.StatusServiceUnavailable, "SUMMARY_UNAVAILABLE", "Attendance summary is not available right now")

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
