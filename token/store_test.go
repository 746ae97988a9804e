package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/twitblob/twitblob/internal/apperrors"
	"github.com/twitblob/twitblob/token"
	"github.com/twitblob/twitblob/token/repofake"
)

const (
	testScreenName = "bob"
	testUserID     = int64(42)
)

func TestIssueThenResolve(t *testing.T) {
	ctx := context.Background()
	store := token.NewStore(repofake.NewFakeTokenRepo())

	issued, err := store.Issue(ctx, testScreenName, testUserID)
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID)

	resolved, err := store.Resolve(ctx, issued.ID)
	require.NoError(t, err)
	require.Equal(t, testScreenName, resolved.ScreenName)
	require.Equal(t, testUserID, resolved.UserID)
	require.Equal(t, issued.ID, resolved.ID)
}

func TestResolveUnknownToken(t *testing.T) {
	store := token.NewStore(repofake.NewFakeTokenRepo())

	_, err := store.Resolve(context.Background(), "no-such-token")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestExpiredTokenIsPurged(t *testing.T) {
	ctx := context.Background()
	repo := repofake.NewFakeTokenRepo()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := token.NewStore(repo,
		token.WithLifetime(time.Hour),
		token.WithNowFunc(func() time.Time { return now }),
	)

	issued, err := store.Issue(ctx, testScreenName, testUserID)
	require.NoError(t, err)

	now = now.Add(time.Hour + time.Second)

	_, err = store.Resolve(ctx, issued.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	// The discovering resolve must have purged the record.
	require.Equal(t, 0, repo.Len())

	_, err = store.Resolve(ctx, issued.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTokenValidUpToLifetime(t *testing.T) {
	ctx := context.Background()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := token.NewStore(repofake.NewFakeTokenRepo(),
		token.WithNowFunc(func() time.Time { return now }),
	)

	issued, err := store.Issue(ctx, testScreenName, testUserID)
	require.NoError(t, err)

	// Exactly at the lifetime boundary the token still resolves.
	now = now.Add(token.DefaultLifetime)

	resolved, err := store.Resolve(ctx, issued.ID)
	require.NoError(t, err)
	require.Equal(t, issued.ID, resolved.ID)
}

func TestIssueRegeneratesOnCollision(t *testing.T) {
	ctx := context.Background()
	repo := repofake.NewFakeTokenRepo()

	require.NoError(t, repo.Upsert(ctx, &token.AuthToken{
		ID:         "taken",
		ScreenName: "jane",
		UserID:     7,
		IssuedAt:   time.Now(),
	}))

	ids := []string{"taken", "taken", "fresh"}
	store := token.NewStore(repo, token.WithGenerator(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}))

	issued, err := store.Issue(ctx, testScreenName, testUserID)
	require.NoError(t, err)
	require.Equal(t, "fresh", issued.ID)

	// The colliding record is untouched.
	existing, err := repo.Get(ctx, "taken")
	require.NoError(t, err)
	require.Equal(t, "jane", existing.ScreenName)
}

func TestGenerateShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := token.Generate()
		require.Len(t, id, 44)
		require.NotContains(t, id, "=")
		require.False(t, seen[id], "generated ids must not repeat")
		seen[id] = true
	}
}
