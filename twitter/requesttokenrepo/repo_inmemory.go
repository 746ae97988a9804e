package requesttokenrepo

import (
	"context"
	"sync"

	"github.com/twitblob/twitblob/internal/apperrors"
	"github.com/twitblob/twitblob/twitter"
)

var _ twitter.RequestTokenRepo = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory implementation of Repo.
type InMemoryRepo struct {
	mu      sync.RWMutex
	records map[string]twitter.RequestTokenRecord
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		records: make(map[string]twitter.RequestTokenRecord),
	}
}

func (r *InMemoryRepo) Upsert(_ context.Context, rec twitter.RequestTokenRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[rec.Token] = rec
	return nil
}

func (r *InMemoryRepo) Get(_ context.Context, requestToken string) (twitter.RequestTokenRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[requestToken]
	if !ok {
		return twitter.RequestTokenRecord{}, apperrors.ErrNotFound
	}
	return rec, nil
}

func (r *InMemoryRepo) Delete(_ context.Context, requestToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, requestToken)
	return nil
}
