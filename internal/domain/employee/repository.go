package employee

import "context"

// Reader is the read side of the employee directory. Writes go through the
// roster snapshot so department invariants are checked in one place.
type Reader interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByPhone(ctx context.Context, phone string) (Employee, error)
	List(ctx context.Context) ([]Employee, error)
}
