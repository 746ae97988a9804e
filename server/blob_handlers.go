package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/twitblob/twitblob/internal/apperrors"
	"github.com/twitblob/twitblob/token"
)

var errMalformedJSON = errors.New("malformed JSON body")

// decodeBody reads and JSON-decodes the request body, and resolves the
// bearer token if the body carries one. A nil token means missing,
// unknown or expired — callers treat those identically.
func (s *Server) decodeBody(r *http.Request) (any, *token.AuthToken, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, s.maxBodySize+1))
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading request body")
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, nil, errMalformedJSON
	}

	var tok *token.AuthToken
	if obj, ok := decoded.(map[string]any); ok {
		if id, ok := obj["token"].(string); ok {
			tok, err = s.tokens.Resolve(r.Context(), id)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return nil, nil, err
			}
		}
	}
	return decoded, tok, nil
}

// BlobQueryHandler serves GET /blobs/?ids=a,b,c: a screen_name -> data
// mapping for every id that exists, unknown ids silently omitted.
func (s *Server) BlobQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if !query.Has("ids") {
			respondError(w, http.StatusBadRequest, "need query args")
			return
		}

		var ids []int64
		for _, part := range strings.Split(query.Get("ids"), ",") {
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				respondError(w, http.StatusBadRequest, "invalid ids")
				return
			}
			ids = append(ids, id)
		}

		result, err := s.blobs.GetMany(r.Context(), ids)
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// BlobGetHandler serves GET /blobs/<user>: the raw stored document.
func (s *Server) BlobGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := s.blobs.Get(r.Context(), r.PathValue("user"))
		if errors.Is(err, apperrors.ErrNotFound) {
			respondError(w, http.StatusNotFound, "blob does not exist")
			return
		}
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, data)
	}
}

// BlobMergeHandler serves POST /blobs/<user>: shallow-merge of the body's
// data object into the stored document.
func (s *Server) BlobMergeHandler() http.HandlerFunc {
	return s.blobWriteHandler(func(ctx context.Context, tok *token.AuthToken, data map[string]any) error {
		return s.blobs.Merge(ctx, tok.UserID, tok.ScreenName, data)
	})
}

// BlobReplaceHandler serves PUT /blobs/<user>: unconditional replacement
// of the stored document.
func (s *Server) BlobReplaceHandler() http.HandlerFunc {
	return s.blobWriteHandler(func(ctx context.Context, tok *token.AuthToken, data map[string]any) error {
		return s.blobs.Replace(ctx, tok.UserID, tok.ScreenName, data)
	})
}

func (s *Server) blobWriteHandler(write func(ctx context.Context, tok *token.AuthToken, data map[string]any) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := r.PathValue("user")

		decoded, tok, err := s.decodeBody(r)
		if errors.Is(err, errMalformedJSON) {
			respondError(w, http.StatusBadRequest, "error parsing JSON body")
			return
		}
		if err != nil {
			s.internalError(w, r, err)
			return
		}

		obj, ok := decoded.(map[string]any)
		if !ok {
			respondError(w, http.StatusBadRequest, `body must contain "data" object`)
			return
		}
		data, ok := obj["data"].(map[string]any)
		if !ok {
			respondError(w, http.StatusBadRequest, `body must contain "data" object`)
			return
		}

		// A write is permitted only when the token resolves to the screen
		// name named by the path.
		if tok == nil || tok.ScreenName != user {
			respondError(w, http.StatusForbidden, "Missing or invalid auth token")
			return
		}

		if err := write(r.Context(), tok, data); err != nil {
			s.internalError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// WhoHandler serves GET /who/: every user with a stored blob.
func (s *Server) WhoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := s.blobs.ListUsers(r.Context())
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, users)
	}
}
