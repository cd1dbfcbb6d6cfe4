package roster

import "context"

type Repository interface {
	// Load returns the current roster.
	Load(ctx context.Context) (Snapshot, error)

	// Save replaces prev with next when the stored version still equals
	// prev.Version, and returns next with its new version. A concurrent
	// writer results in ErrStaleSnapshot.
	Save(ctx context.Context, prev, next Snapshot) (Snapshot, error)
}
