package department

import (
	"errors"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/apperror"
)

var (
	ErrUnknownDepartment         = apperror.New(apperror.KindUnknownDepartment, "department not found")
	ErrCrossDepartmentAssignment = apperror.New(apperror.KindCrossDepartmentAssignment, "department head must be a member of the department")
	ErrDepartmentExists          = errors.New("department id already exists")
	ErrCannotRemoveUnassigned    = errors.New("the unassigned department cannot be removed")
)
