package redisrepo

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/twitblob/twitblob/internal/apperrors"
	"github.com/twitblob/twitblob/token"
)

const keyPrefix = "twitblob:token:"

var _ token.Repo = (*Repo)(nil)

// Repo stores auth tokens in redis as JSON records. Tokens carry no redis
// TTL: expiry is owned by token.Store so the purge-on-read contract holds
// regardless of backend.
type Repo struct {
	client redis.UniversalClient
}

func New(client redis.UniversalClient) *Repo {
	return &Repo{client: client}
}

func (r *Repo) Upsert(ctx context.Context, tok *token.AuthToken) error {
	payload, err := json.Marshal(tok)
	if err != nil {
		return errors.Wrap(err, "marshalling auth token")
	}
	if err := r.client.Set(ctx, keyPrefix+tok.ID, payload, 0).Err(); err != nil {
		return errors.Wrap(err, "writing auth token")
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (*token.AuthToken, error) {
	payload, err := r.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading auth token")
	}
	var tok token.AuthToken
	if err := json.Unmarshal(payload, &tok); err != nil {
		return nil, errors.Wrap(err, "unmarshalling auth token")
	}
	return &tok, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return errors.Wrap(err, "deleting auth token")
	}
	return nil
}
