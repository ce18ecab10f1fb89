package users

import "context"

// Store persists users. Implementations must be safe for concurrent use.
type Store interface {
	// List returns every user ordered by id.
	List(ctx context.Context) ([]User, error)

	// Get returns the user with id, or ErrNotFound.
	Get(ctx context.Context, id int64) (User, error)

	// Create assigns an id and version 1 to u and stores it.
	Create(ctx context.Context, u User) (User, error)

	// Update replaces the user with u.ID and increments its version.
	// When expectedVersion is non-nil the update only happens if the stored
	// version equals it; otherwise ErrVersionConflict is returned.
	Update(ctx context.Context, u User, expectedVersion *int64) (User, error)

	// Delete removes the user with id, or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error
}
