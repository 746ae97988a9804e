package server

import (
	"fmt"
	"net/http"
)

func (s *Server) initRoutes() {
	// BLOBS
	s.RegisterRouteFunc("GET /blobs/{$}", s.BlobQueryHandler())
	s.RegisterRouteFunc("GET /blobs/{user}", s.BlobGetHandler())
	s.RegisterRouteFunc("POST /blobs/{user}", s.BlobMergeHandler())
	s.RegisterRouteFunc("PUT /blobs/{user}", s.BlobReplaceHandler())

	// USER LISTING
	s.RegisterRouteFunc("GET /who/{$}", s.WhoHandler())

	// FEEDBACK (method checked inside, for the 405 body)
	s.RegisterRouteFunc("/feedback/{$}", s.FeedbackHandler())

	s.RegisterRouteFunc("/", s.NotFoundHandler())
}

// NotFoundHandler answers any unmatched path with plain text naming it.
func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "unknown path: %s", r.URL.Path)
	}
}
