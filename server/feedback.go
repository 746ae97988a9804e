package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// FeedbackSink receives user feedback messages. The router returns its
// result verbatim as the 200 body.
type FeedbackSink interface {
	Send(ctx context.Context, sender, message string) (any, error)
}

// FeedbackHandler serves POST /feedback/. The message requires a valid
// token; without a configured sink the route answers 501.
func (s *Server) FeedbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed,
				fmt.Sprintf("unsupported method: %s", r.Method))
			return
		}

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
			respondError(w, http.StatusBadRequest, `body must contain "message" string`)
			return
		}
		message, ok := obj["message"].(string)
		if !ok {
			respondError(w, http.StatusBadRequest, `body must contain "message" string`)
			return
		}

		if tok == nil {
			respondError(w, http.StatusForbidden, "Missing or invalid auth token")
			return
		}
		if s.feedback == nil {
			respondError(w, http.StatusNotImplemented, "feedback mechanism not implemented")
			return
		}

		result, err := s.feedback.Send(r.Context(), tok.ScreenName, message)
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// FeedbackEntry is one stored feedback message.
type FeedbackEntry struct {
	ID         string    `json:"id"`
	Sender     string    `json:"sender"`
	Message    string    `json:"message"`
	ReceivedAt time.Time `json:"received_at"`
}

const feedbackKeyPrefix = "twitblob:feedback:"

var _ FeedbackSink = (*RedisFeedbackSink)(nil)

// RedisFeedbackSink stores feedback entries in redis, keyed by a fresh
// uuid, and acknowledges with the entry id.
type RedisFeedbackSink struct {
	client  redis.UniversalClient
	nowFunc func() time.Time
}

func NewRedisFeedbackSink(client redis.UniversalClient) *RedisFeedbackSink {
	return &RedisFeedbackSink{client: client, nowFunc: time.Now}
}

func (f *RedisFeedbackSink) Send(ctx context.Context, sender, message string) (any, error) {
	entry := FeedbackEntry{
		ID:         uuid.NewString(),
		Sender:     sender,
		Message:    message,
		ReceivedAt: f.nowFunc(),
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling feedback entry")
	}
	if err := f.client.Set(ctx, feedbackKeyPrefix+entry.ID, payload, 0).Err(); err != nil {
		return nil, errors.Wrap(err, "storing feedback entry")
	}
	return map[string]any{"ok": true, "id": entry.ID}, nil
}
