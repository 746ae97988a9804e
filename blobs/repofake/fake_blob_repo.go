package repofake

import (
	"context"
	"sync"

	"github.com/twitblob/twitblob/blobs"
	"github.com/twitblob/twitblob/internal/apperrors"
)

var _ blobs.Repo = (*FakeBlobRepo)(nil)

// FakeBlobRepo is a thread-safe in-memory blob repository for tests.
type FakeBlobRepo struct {
	lock   sync.RWMutex
	byID   map[int64]*blobs.Blob
	byName map[string]int64
}

func NewFakeBlobRepo() *FakeBlobRepo {
	return &FakeBlobRepo{
		byID:   make(map[int64]*blobs.Blob),
		byName: make(map[string]int64),
	}
}

func (r *FakeBlobRepo) GetByScreenName(_ context.Context, screenName string) (*blobs.Blob, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	id, ok := r.byName[screenName]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return copyBlob(r.byID[id]), nil
}

func (r *FakeBlobRepo) GetByUserID(_ context.Context, userID int64) (*blobs.Blob, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	blob, ok := r.byID[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return copyBlob(blob), nil
}

func (r *FakeBlobRepo) Upsert(_ context.Context, blob *blobs.Blob) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if old, ok := r.byID[blob.UserID]; ok && old.ScreenName != blob.ScreenName {
		delete(r.byName, old.ScreenName)
	}
	r.byID[blob.UserID] = copyBlob(blob)
	r.byName[blob.ScreenName] = blob.UserID
	return nil
}

func (r *FakeBlobRepo) List(_ context.Context) ([]blobs.UserRef, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	refs := make([]blobs.UserRef, 0, len(r.byID))
	for _, blob := range r.byID {
		refs = append(refs, blobs.UserRef{ScreenName: blob.ScreenName, UserID: blob.UserID})
	}
	return refs, nil
}

func copyBlob(blob *blobs.Blob) *blobs.Blob {
	data := make(map[string]any, len(blob.Data))
	for k, v := range blob.Data {
		data[k] = v
	}
	return &blobs.Blob{
		ScreenName: blob.ScreenName,
		UserID:     blob.UserID,
		Data:       data,
	}
}
