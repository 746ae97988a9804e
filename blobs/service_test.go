package blobs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/twitblob/twitblob/blobs"
	"github.com/twitblob/twitblob/blobs/repofake"
	"github.com/twitblob/twitblob/internal/apperrors"
)

func setupService(t *testing.T) *blobs.Service {
	t.Helper()
	return blobs.NewService(repofake.NewFakeBlobRepo())
}

func TestGetMissingBlob(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Get(context.Background(), "bob")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMergeAccumulatesTopLevelKeys(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	require.NoError(t, svc.Merge(ctx, 1, "bob", map[string]any{"a": float64(1)}))
	require.NoError(t, svc.Merge(ctx, 1, "bob", map[string]any{"b": float64(2)}))

	data, err := svc.Get(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": float64(1), "b": float64(2)}, data)
}

func TestMergeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	require.NoError(t, svc.Merge(ctx, 1, "bob", map[string]any{"a": float64(1)}))
	require.NoError(t, svc.Merge(ctx, 1, "bob", map[string]any{"a": float64(1)}))

	data, err := svc.Get(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": float64(1)}, data)
}

func TestMergeOverwritesSharedKeysShallowly(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	require.NoError(t, svc.Merge(ctx, 1, "bob", map[string]any{
		"talks": map[string]any{"0": float64(0)},
		"name":  "Bob",
	}))
	require.NoError(t, svc.Merge(ctx, 1, "bob", map[string]any{
		"talks": map[string]any{"1": float64(5)},
	}))

	data, err := svc.Get(ctx, "bob")
	require.NoError(t, err)
	// Top-level keys overwrite wholesale: the nested "0" entry is gone.
	require.Equal(t, map[string]any{
		"talks": map[string]any{"1": float64(5)},
		"name":  "Bob",
	}, data)
}

func TestReplaceDiscardsPriorState(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	require.NoError(t, svc.Replace(ctx, 1, "bob", map[string]any{"a": float64(1)}))
	require.NoError(t, svc.Replace(ctx, 1, "bob", map[string]any{"b": float64(2)}))

	data, err := svc.Get(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, map[string]any{"b": float64(2)}, data)
}

func TestGetManyOmitsUnknownIDs(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	require.NoError(t, svc.Replace(ctx, 1, "bob", map[string]any{"a": float64(1)}))
	require.NoError(t, svc.Replace(ctx, 2, "jane", map[string]any{"b": float64(2)}))

	result, err := svc.GetMany(ctx, []int64{1, 2, 439})
	require.NoError(t, err)
	require.Equal(t, map[string]map[string]any{
		"bob":  {"a": float64(1)},
		"jane": {"b": float64(2)},
	}, result)
}

func TestGetManyEmpty(t *testing.T) {
	svc := setupService(t)

	result, err := svc.GetMany(context.Background(), []int64{439})
	require.NoError(t, err)
	require.Empty(t, result)
	require.NotNil(t, result)
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	require.NoError(t, svc.Replace(ctx, 1, "bob", map[string]any{}))
	require.NoError(t, svc.Replace(ctx, 2, "jane", map[string]any{}))

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []blobs.UserRef{
		{ScreenName: "bob", UserID: 1},
		{ScreenName: "jane", UserID: 2},
	}, users)
}
