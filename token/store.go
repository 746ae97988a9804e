package token

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/twitblob/twitblob/internal/apperrors"
)

// DefaultLifetime is how long an issued token stays valid. By default,
// auth tokens last a fortnight.
const DefaultLifetime = 14 * 24 * time.Hour

// Store issues and resolves auth tokens. Expiry is lazy: an expired token
// is purged by the resolve that discovers it, never by a background sweep.
type Store struct {
	repo     Repo
	lifetime time.Duration
	nowFunc  func() time.Time
	generate func() string
}

type StoreOption func(*Store)

// WithLifetime overrides the default token lifetime.
func WithLifetime(lifetime time.Duration) StoreOption {
	return func(s *Store) {
		if lifetime > 0 {
			s.lifetime = lifetime
		}
	}
}

// WithNowFunc injects the time source, for deterministic tests.
func WithNowFunc(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowFunc = now
	}
}

// WithGenerator injects the id generator, for deterministic tests.
func WithGenerator(gen func() string) StoreOption {
	return func(s *Store) {
		s.generate = gen
	}
}

func NewStore(repo Repo, options ...StoreOption) *Store {
	s := &Store{
		repo:     repo,
		lifetime: DefaultLifetime,
		nowFunc:  time.Now,
		generate: Generate,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Issue mints a token for a verified identity. The generated id is
// re-checked against the repo and regenerated while a collision exists.
func (s *Store) Issue(ctx context.Context, screenName string, userID int64) (*AuthToken, error) {
	id := s.generate()
	for {
		_, err := s.repo.Get(ctx, id)
		if errors.Is(err, apperrors.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "checking token id uniqueness")
		}
		id = s.generate()
	}

	tok := &AuthToken{
		ID:         id,
		ScreenName: screenName,
		UserID:     userID,
		IssuedAt:   s.nowFunc(),
	}
	if err := s.repo.Upsert(ctx, tok); err != nil {
		return nil, errors.Wrap(err, "storing auth token")
	}
	return tok, nil
}

// Resolve looks up a token by id. An expired token is deleted and reported
// as apperrors.ErrNotFound, indistinguishable from one that never existed.
func (s *Store) Resolve(ctx context.Context, id string) (*AuthToken, error) {
	tok, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.nowFunc().Sub(tok.IssuedAt) > s.lifetime {
		if err := s.repo.Delete(ctx, id); err != nil {
			return nil, errors.Wrap(err, "purging expired token")
		}
		return nil, apperrors.ErrNotFound
	}
	return tok, nil
}
