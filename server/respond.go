package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("writing JSON response")
	}
}

// respondError writes the structured error envelope every recoverable
// failure uses: {"error": "<message>"}.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// internalError is for failures that are not the client's fault (store or
// provider trouble): logged, never echoed as a structured body.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
