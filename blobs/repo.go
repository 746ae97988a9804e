package blobs

import "context"

// Repo is the persistence interface for blobs.
type Repo interface {
	// GetByScreenName retrieves a blob by its screen name index.
	// Returns apperrors.ErrNotFound on miss.
	GetByScreenName(ctx context.Context, screenName string) (*Blob, error)

	// GetByUserID retrieves a blob by its numeric primary key.
	// Returns apperrors.ErrNotFound on miss.
	GetByUserID(ctx context.Context, userID int64) (*Blob, error)

	// Upsert writes the blob keyed by user id, replacing any prior record
	// and keeping the screen name index in step.
	Upsert(ctx context.Context, blob *Blob) error

	// List returns a reference for every stored blob, order unspecified.
	List(ctx context.Context) ([]UserRef, error)
}
