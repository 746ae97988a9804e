package redisrepo

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/twitblob/twitblob/blobs"
	"github.com/twitblob/twitblob/internal/apperrors"
)

// Key layout:
//
//	twitblob:blob:user:<user_id>   JSON blob record (primary)
//	twitblob:blob:name:<name>      screen_name -> user_id index
//	twitblob:blob:users            hash user_id -> screen_name, for listing
const (
	recordKeyPrefix = "twitblob:blob:user:"
	nameKeyPrefix   = "twitblob:blob:name:"
	usersKey        = "twitblob:blob:users"
)

var _ blobs.Repo = (*Repo)(nil)

// Repo stores blobs in redis, keeping the screen name index and the user
// listing hash in step with the primary record on every upsert.
type Repo struct {
	client redis.UniversalClient
}

func New(client redis.UniversalClient) *Repo {
	return &Repo{client: client}
}

func (r *Repo) GetByScreenName(ctx context.Context, screenName string) (*blobs.Blob, error) {
	idStr, err := r.client.Get(ctx, nameKeyPrefix+screenName).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading screen name index")
	}
	userID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "corrupt screen name index for %q", screenName)
	}
	return r.GetByUserID(ctx, userID)
}

func (r *Repo) GetByUserID(ctx context.Context, userID int64) (*blobs.Blob, error) {
	payload, err := r.client.Get(ctx, recordKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading blob")
	}
	var blob blobs.Blob
	if err := json.Unmarshal(payload, &blob); err != nil {
		return nil, errors.Wrap(err, "unmarshalling blob")
	}
	return &blob, nil
}

func (r *Repo) Upsert(ctx context.Context, blob *blobs.Blob) error {
	payload, err := json.Marshal(blob)
	if err != nil {
		return errors.Wrap(err, "marshalling blob")
	}

	// If the user's screen name changed, the old index entry must go.
	old, err := r.GetByUserID(ctx, blob.UserID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	pipe := r.client.TxPipeline()
	if old != nil && old.ScreenName != blob.ScreenName {
		pipe.Del(ctx, nameKeyPrefix+old.ScreenName)
	}
	pipe.Set(ctx, recordKey(blob.UserID), payload, 0)
	pipe.Set(ctx, nameKeyPrefix+blob.ScreenName, strconv.FormatInt(blob.UserID, 10), 0)
	pipe.HSet(ctx, usersKey, strconv.FormatInt(blob.UserID, 10), blob.ScreenName)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "writing blob")
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]blobs.UserRef, error) {
	entries, err := r.client.HGetAll(ctx, usersKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "listing blobs")
	}
	refs := make([]blobs.UserRef, 0, len(entries))
	for idStr, screenName := range entries {
		userID, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "corrupt user listing entry %q", idStr)
		}
		refs = append(refs, blobs.UserRef{ScreenName: screenName, UserID: userID})
	}
	return refs, nil
}

func recordKey(userID int64) string {
	return recordKeyPrefix + strconv.FormatInt(userID, 10)
}
