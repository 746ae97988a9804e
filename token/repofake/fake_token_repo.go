package repofake

import (
	"context"
	"sync"

	"github.com/twitblob/twitblob/internal/apperrors"
	"github.com/twitblob/twitblob/token"
)

var _ token.Repo = (*FakeTokenRepo)(nil)

// FakeTokenRepo is a thread-safe in-memory token repository for tests.
type FakeTokenRepo struct {
	lock   sync.RWMutex
	tokens map[string]*token.AuthToken
}

func NewFakeTokenRepo() *FakeTokenRepo {
	return &FakeTokenRepo{
		tokens: make(map[string]*token.AuthToken),
	}
}

func (r *FakeTokenRepo) Upsert(_ context.Context, tok *token.AuthToken) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	copied := *tok
	r.tokens[tok.ID] = &copied
	return nil
}

func (r *FakeTokenRepo) Get(_ context.Context, id string) (*token.AuthToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	tok, ok := r.tokens[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *tok
	return &copied, nil
}

func (r *FakeTokenRepo) Delete(_ context.Context, id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.tokens, id)
	return nil
}

// Len reports the number of stored tokens.
func (r *FakeTokenRepo) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.tokens)
}
