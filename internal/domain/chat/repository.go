package chat

import (
	"context"
	"time"
)

type Repository interface {
	Append(ctx context.Context, msg Message) (Message, error)

	// List returns at most limit messages newer than since, oldest first.
	List(ctx context.Context, since *time.Time, limit int) ([]Message, error)
}
