package report

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, r Report) (Report, error)

	// ListCreatedSince returns reports created at or after since, in any order.
	ListCreatedSince(ctx context.Context, since time.Time) ([]Report, error)
}
