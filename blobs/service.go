package blobs

import (
	"context"

	"github.com/pkg/errors"

	"github.com/twitblob/twitblob/internal/apperrors"
)

// Service exposes the blob operations the request router dispatches to.
type Service struct {
	repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

// Get returns the stored document for a screen name, or
// apperrors.ErrNotFound.
func (s *Service) Get(ctx context.Context, screenName string) (map[string]any, error) {
	blob, err := s.repo.GetByScreenName(ctx, screenName)
	if err != nil {
		return nil, err
	}
	return blob.Data, nil
}

// GetMany returns a screen_name -> document mapping for every id that
// exists. Unknown ids are silently omitted.
//
// TODO: batch this into a single round-trip (MGET on the redis repo) if
// the ids lists callers send ever get long.
func (s *Service) GetMany(ctx context.Context, userIDs []int64) (map[string]map[string]any, error) {
	result := make(map[string]map[string]any)
	for _, id := range userIDs {
		blob, err := s.repo.GetByUserID(ctx, id)
		if errors.Is(err, apperrors.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		result[blob.ScreenName] = blob.Data
	}
	return result, nil
}

// ListUsers returns a reference for every user with a stored blob.
func (s *Service) ListUsers(ctx context.Context) ([]UserRef, error) {
	return s.repo.List(ctx)
}

// Merge shallow-merges partial's top-level keys into the existing document
// for screenName, partial's keys winning. With no existing document,
// partial becomes the whole document. The result is upserted under userID.
func (s *Service) Merge(ctx context.Context, userID int64, screenName string, partial map[string]any) error {
	data := partial

	existing, err := s.repo.GetByScreenName(ctx, screenName)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	if err == nil {
		merged := make(map[string]any, len(existing.Data)+len(partial))
		for k, v := range existing.Data {
			merged[k] = v
		}
		for k, v := range partial {
			merged[k] = v
		}
		data = merged
	}

	return s.repo.Upsert(ctx, &Blob{
		ScreenName: screenName,
		UserID:     userID,
		Data:       data,
	})
}

// Replace upserts data as the whole document, discarding any prior state.
func (s *Service) Replace(ctx context.Context, userID int64, screenName string, data map[string]any) error {
	return s.repo.Upsert(ctx, &Blob{
		ScreenName: screenName,
		UserID:     userID,
		Data:       data,
	})
}
