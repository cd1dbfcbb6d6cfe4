package apperror

import "errors"

// Kind classifies a recoverable domain failure so callers can present an
// actionable message without string matching.
type Kind string

const (
	KindLocationUnavailable       Kind = "LOCATION_UNAVAILABLE"
	KindDuplicateEvent            Kind = "DUPLICATE_EVENT"
	KindCrossDepartmentAssignment Kind = "CROSS_DEPARTMENT_ASSIGNMENT"
	KindEmptyAudience             Kind = "EMPTY_AUDIENCE"
	KindUnknownEmployee           Kind = "UNKNOWN_EMPLOYEE"
	KindUnknownDepartment         Kind = "UNKNOWN_DEPARTMENT"

	// Ambient kinds used by the persistence and auth layers
	KindStaleSnapshot      Kind = "STALE_SNAPSHOT"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindForbidden          Kind = "FORBIDDEN"
	KindInvalidInput       Kind = "INVALID_INPUT"
)

// Error is a typed domain error. Sentinels are compared by identity, so
// errors.Is keeps working through fmt.Errorf("...: %w") wrapping.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New creates a new typed error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns the kind of the first *Error found in err's chain.
func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
