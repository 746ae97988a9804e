package twitter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// RequestTokenRepo stores the single-use handshake intermediates, keyed by
// the public request token value. Implementations live in
// twitter/requesttokenrepo.
type RequestTokenRepo interface {
	Upsert(ctx context.Context, rec RequestTokenRecord) error

	// Get retrieves a record by its public token value.
	// Returns apperrors.ErrNotFound on miss.
	Get(ctx context.Context, requestToken string) (RequestTokenRecord, error)

	// Delete removes a record. Deleting an absent record is a no-op.
	Delete(ctx context.Context, requestToken string) error
}

// SuccessHandler receives the verified identity once the handshake
// completes, together with the callback request context. Its response is
// returned to the client verbatim.
type SuccessHandler func(w http.ResponseWriter, r *http.Request, access AccessCredentials)

// Bridge drives the three-legged handshake with the identity provider.
// It serves two paths relative to its mount point: "/" starts the
// handshake and redirects to the provider, "/callback" completes it.
//
// Provider failures are unrecoverable within the request: they indicate a
// broken integration, not bad client input, so they surface as a bare 500
// rather than a structured error body.
type Bridge struct {
	provider      Provider
	requestTokens RequestTokenRepo
	onSuccess     SuccessHandler
	mountPath     string
}

type BridgeOption func(*Bridge)

// WithMountPath tells the bridge where it is mounted so it can derive the
// callback URL it registers with the provider. Default "/login/".
func WithMountPath(mountPath string) BridgeOption {
	return func(b *Bridge) {
		b.mountPath = mountPath
	}
}

func NewBridge(provider Provider, requestTokens RequestTokenRepo, onSuccess SuccessHandler, options ...BridgeOption) *Bridge {
	b := &Bridge{
		provider:      provider,
		requestTokens: requestTokens,
		onSuccess:     onSuccess,
		mountPath:     "/login/",
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "", "/":
		if err := b.entry(w, r); err != nil {
			b.fatal(w, r, err)
		}
	case "/callback":
		if err := b.callback(w, r); err != nil {
			b.fatal(w, r, err)
		}
	default:
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "path not found: %s", r.URL.Path)
	}
}

// entry obtains a temporary credential pair, persists it, and redirects
// the user agent to the provider's authorization page.
func (b *Bridge) entry(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	callbackURL := fmt.Sprintf("%s://%s%scallback", requestScheme(r), r.Host, b.mountPath)

	rec, err := b.provider.RequestToken(ctx, callbackURL)
	if err != nil {
		return err
	}
	if err := b.requestTokens.Upsert(ctx, rec); err != nil {
		return err
	}

	authorizationURL, err := b.provider.AuthorizationURL(rec.Token)
	if err != nil {
		return err
	}
	http.Redirect(w, r, authorizationURL, http.StatusFound)
	return nil
}

// callback consumes the request token record (single-use, regardless of
// outcome), exchanges it for access credentials, and hands the verified
// identity to the success handler.
func (b *Bridge) callback(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	query := r.URL.Query()

	requestToken := query.Get("oauth_token")
	rec, err := b.requestTokens.Get(ctx, requestToken)
	if err != nil {
		// No legitimate client reaches the callback without a prior
		// redirect from us.
		return fmt.Errorf("unknown request token %q: %w", requestToken, err)
	}
	if err := b.requestTokens.Delete(ctx, requestToken); err != nil {
		return err
	}

	access, err := b.provider.AccessToken(ctx, rec, query.Get("oauth_verifier"))
	if err != nil {
		return err
	}

	b.onSuccess(w, r, access)
	return nil
}

func (b *Bridge) fatal(w http.ResponseWriter, r *http.Request, err error) {
	log.Error().Err(err).Str("path", r.URL.Path).Msg("oauth handshake failed")
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// requestScheme determines the external scheme of the request, honoring
// the proxy header.
func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
