package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/twitblob/twitblob/blobs"
	"github.com/twitblob/twitblob/internal/config"
	"github.com/twitblob/twitblob/token"
	"github.com/twitblob/twitblob/twitter"
)

// Server is the request router and validator: it attaches the cross-origin
// headers, short-circuits OPTIONS, delegates /login/ to the OAuth bridge,
// enforces the body-size limit, and dispatches the blob, who and feedback
// routes.
type Server struct {
	env         string
	mux         *http.ServeMux
	routes      []string
	handler     http.HandlerFunc
	login       http.Handler
	tokens      *token.Store
	blobs       *blobs.Service
	feedback    FeedbackSink
	maxBodySize int64
}

type Option func(*Server)

// WithFeedbackSink wires the optional feedback collaborator. Without it,
// POST /feedback/ answers 501.
func WithFeedbackSink(sink FeedbackSink) Option {
	return func(s *Server) {
		s.feedback = sink
	}
}

func New(cfg config.Config, tokens *token.Store, blobService *blobs.Service, provider twitter.Provider, requestTokens twitter.RequestTokenRepo, options ...Option) *Server {
	s := &Server{
		env:         cfg.Env,
		mux:         http.NewServeMux(),
		tokens:      tokens,
		blobs:       blobService,
		maxBodySize: cfg.MaxBodySize,
	}
	for _, opt := range options {
		opt(s)
	}

	bridge := twitter.NewBridge(provider, requestTokens, s.LoginSuccessHandler())
	s.login = http.StripPrefix("/login", bridge)

	s.initRoutes()
	s.handler = ChainMiddleware(s.dispatch,
		s.RecoverMiddleware,
		s.LoggingMiddleware,
		s.CorsMiddleware,
	)
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler(w, r)
}

// dispatch runs the per-request pipeline in its fixed order: OPTIONS
// short-circuit, login delegation, declared-length gate, then the routes.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Set("Content-Length", "0")
		w.WriteHeader(http.StatusOK)
		return
	}

	if strings.HasPrefix(r.URL.Path, "/login/") {
		s.login.ServeHTTP(w, r)
		return
	}

	// The declared length is checked before the body is read so an
	// oversized request never reaches a handler.
	if declaredBodyLength(r) > s.maxBodySize {
		respondError(w, http.StatusRequestEntityTooLarge, "too big")
		return
	}

	s.mux.ServeHTTP(w, r)
}

// declaredBodyLength parses the Content-Length header; missing or
// non-numeric values count as zero.
func declaredBodyLength(r *http.Request) int64 {
	if v := r.Header.Get("Content-Length"); v != "" {
		length, err := strconv.ParseInt(v, 10, 64)
		if err != nil || length < 0 {
			return 0
		}
		return length
	}
	if r.ContentLength > 0 {
		return r.ContentLength
	}
	return 0
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		log.Debug().Str("route", route).Msg("registered")
	}
}
