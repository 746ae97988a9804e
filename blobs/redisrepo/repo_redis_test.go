package redisrepo_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/twitblob/twitblob/blobs"
	"github.com/twitblob/twitblob/blobs/redisrepo"
	"github.com/twitblob/twitblob/internal/apperrors"
)

func setupRepo(t *testing.T) *redisrepo.Repo {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return redisrepo.New(client)
}

func TestUpsertReadBackByBothKeys(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	blob := &blobs.Blob{
		ScreenName: "bob",
		UserID:     42,
		Data:       map[string]any{"talks": map[string]any{"0": float64(0)}},
	}
	require.NoError(t, repo.Upsert(ctx, blob))

	byName, err := repo.GetByScreenName(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, blob, byName)

	byID, err := repo.GetByUserID(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, blob, byID)
}

func TestMissesReportNotFound(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	_, err := repo.GetByScreenName(ctx, "nobody")
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = repo.GetByUserID(ctx, 439)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestScreenNameChangeDropsOldIndex(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	require.NoError(t, repo.Upsert(ctx, &blobs.Blob{ScreenName: "bob", UserID: 42, Data: map[string]any{}}))
	require.NoError(t, repo.Upsert(ctx, &blobs.Blob{ScreenName: "bobby", UserID: 42, Data: map[string]any{}}))

	_, err := repo.GetByScreenName(ctx, "bob")
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	blob, err := repo.GetByScreenName(ctx, "bobby")
	require.NoError(t, err)
	require.Equal(t, int64(42), blob.UserID)

	// The listing must also hold exactly one entry for the user.
	refs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []blobs.UserRef{{ScreenName: "bobby", UserID: 42}}, refs)
}

func TestListAll(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	require.NoError(t, repo.Upsert(ctx, &blobs.Blob{ScreenName: "bob", UserID: 1, Data: map[string]any{}}))
	require.NoError(t, repo.Upsert(ctx, &blobs.Blob{ScreenName: "jane", UserID: 2, Data: map[string]any{}}))

	refs, err := repo.List(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []blobs.UserRef{
		{ScreenName: "bob", UserID: 1},
		{ScreenName: "jane", UserID: 2},
	}, refs)
}
