package token

import "context"

// Repo is the persistence interface for auth tokens.
type Repo interface {
	// Upsert stores the token record keyed by its id.
	Upsert(ctx context.Context, tok *AuthToken) error

	// Get retrieves a token by id. Returns apperrors.ErrNotFound on miss.
	Get(ctx context.Context, id string) (*AuthToken, error)

	// Delete removes a token by id. Deleting an absent token is a no-op.
	Delete(ctx context.Context, id string) error
}
