package requesttokenrepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/twitblob/twitblob/internal/apperrors"
	"github.com/twitblob/twitblob/twitter"
)

const (
	keyPrefix = "twitblob:reqtoken:"

	// Records are single-use and deleted on the callback; the TTL only
	// bounds handshakes the user abandoned mid-flight.
	recordTTL = 15 * time.Minute
)

var _ twitter.RequestTokenRepo = (*RedisRepo)(nil)

// RedisRepo stores handshake intermediates in redis.
type RedisRepo struct {
	client redis.UniversalClient
}

func NewRedisRepo(client redis.UniversalClient) *RedisRepo {
	return &RedisRepo{client: client}
}

func (r *RedisRepo) Upsert(ctx context.Context, rec twitter.RequestTokenRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "marshalling request token record")
	}
	if err := r.client.Set(ctx, keyPrefix+rec.Token, payload, recordTTL).Err(); err != nil {
		return errors.Wrap(err, "writing request token record")
	}
	return nil
}

func (r *RedisRepo) Get(ctx context.Context, requestToken string) (twitter.RequestTokenRecord, error) {
	payload, err := r.client.Get(ctx, keyPrefix+requestToken).Bytes()
	if errors.Is(err, redis.Nil) {
		return twitter.RequestTokenRecord{}, apperrors.ErrNotFound
	}
	if err != nil {
		return twitter.RequestTokenRecord{}, errors.Wrap(err, "reading request token record")
	}
	var rec twitter.RequestTokenRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return twitter.RequestTokenRecord{}, errors.Wrap(err, "unmarshalling request token record")
	}
	return rec, nil
}

func (r *RedisRepo) Delete(ctx context.Context, requestToken string) error {
	if err := r.client.Del(ctx, keyPrefix+requestToken).Err(); err != nil {
		return errors.Wrap(err, "deleting request token record")
	}
	return nil
}
