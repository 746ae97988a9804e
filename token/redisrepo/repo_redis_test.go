package redisrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/twitblob/twitblob/internal/apperrors"
	"github.com/twitblob/twitblob/token"
	"github.com/twitblob/twitblob/token/redisrepo"
)

func setupRepo(t *testing.T) *redisrepo.Repo {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return redisrepo.New(client)
}

func TestUpsertGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tok := &token.AuthToken{
		ID:         "abc123",
		ScreenName: "bob",
		UserID:     42,
		IssuedAt:   issued,
	}
	require.NoError(t, repo.Upsert(ctx, tok))

	got, err := repo.Get(ctx, "abc123")
	require.NoError(t, err)
	require.Equal(t, tok, got)
}

func TestGetMissing(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	tok := &token.AuthToken{ID: "abc123", ScreenName: "bob", UserID: 42, IssuedAt: time.Now().UTC()}
	require.NoError(t, repo.Upsert(ctx, tok))

	require.NoError(t, repo.Delete(ctx, "abc123"))
	_, err := repo.Get(ctx, "abc123")
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	// Deleting an absent token is a no-op.
	require.NoError(t, repo.Delete(ctx, "abc123"))
}
