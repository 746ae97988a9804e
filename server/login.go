package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/twitblob/twitblob/twitter"
)

// LoginSuccessHandler completes the login flow: it mints an auth token for
// the verified identity and hands it to the opening window via
// postMessage, plus the X-access-token header for non-browser clients.
func (s *Server) LoginSuccessHandler() twitter.SuccessHandler {
	return func(w http.ResponseWriter, r *http.Request, access twitter.AccessCredentials) {
		tok, err := s.tokens.Issue(r.Context(), access.ScreenName, access.UserID)
		if err != nil {
			log.Error().Err(err).Msg("issuing auth token")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		payload, err := json.Marshal(map[string]any{
			"token":       tok.ID,
			"screen_name": tok.ScreenName,
			"user_id":     tok.UserID,
		})
		if err != nil {
			log.Error().Err(err).Msg("marshalling login payload")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("X-access-token", tok.ID)
		fmt.Fprintf(w, "<script>window.opener.postMessage(JSON.stringify(%s), '*');</script>", payload)
	}
}
