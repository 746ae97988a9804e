package twitter

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dghubble/oauth1"
	twitterendpoint "github.com/dghubble/oauth1/twitter"
	"github.com/pkg/errors"

	"github.com/twitblob/twitblob/internal/apperrors"
)

// AccessCredentials is the permanent credential pair the provider hands
// back after the user authorizes, together with the verified identity.
type AccessCredentials struct {
	Token      string
	Secret     string
	ScreenName string
	UserID     int64
}

// RequestTokenRecord is the short-lived handshake intermediate: a
// temporary credential pair, stored between redirect and callback and
// deleted unconditionally on first use.
type RequestTokenRecord struct {
	Token  string `json:"oauth_token"`
	Secret string `json:"oauth_token_secret"`
}

// Provider drives the two round-trips of the three-legged handshake.
type Provider interface {
	// RequestToken obtains a temporary credential pair, confirming that
	// the provider accepted the callback URL.
	RequestToken(ctx context.Context, callbackURL string) (RequestTokenRecord, error)

	// AuthorizationURL is where the user agent is redirected to authorize
	// the request token.
	AuthorizationURL(requestToken string) (string, error)

	// AccessToken exchanges an authorized request token and verifier for
	// the permanent credentials and the verified identity.
	AccessToken(ctx context.Context, rec RequestTokenRecord, verifier string) (AccessCredentials, error)
}

const defaultHTTPTimeout = 10 * time.Second

var _ Provider = (*Client)(nil)

// Client is the real Provider, speaking OAuth 1.0a to the Twitter API.
type Client struct {
	consumerKey    string
	consumerSecret string
	endpoint       oauth1.Endpoint
	httpClient     *http.Client
}

type ClientOption func(*Client)

// WithEndpoint points the client at a different provider, e.g. a test
// server.
func WithEndpoint(endpoint oauth1.Endpoint) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient overrides the HTTP client used for the provider
// round-trips.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(consumerKey, consumerSecret string, options ...ClientOption) *Client {
	c := &Client{
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		endpoint:       twitterendpoint.AuthorizeEndpoint,
		httpClient:     &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *Client) config(callbackURL string) *oauth1.Config {
	return &oauth1.Config{
		ConsumerKey:    c.consumerKey,
		ConsumerSecret: c.consumerSecret,
		CallbackURL:    callbackURL,
		Endpoint:       c.endpoint,
	}
}

func (c *Client) RequestToken(_ context.Context, callbackURL string) (RequestTokenRecord, error) {
	requestToken, requestSecret, err := c.config(callbackURL).RequestToken()
	if err != nil {
		return RequestTokenRecord{}, errors.Wrap(apperrors.ErrUpstream, err.Error())
	}
	return RequestTokenRecord{Token: requestToken, Secret: requestSecret}, nil
}

func (c *Client) AuthorizationURL(requestToken string) (string, error) {
	authorizationURL, err := c.config("").AuthorizationURL(requestToken)
	if err != nil {
		return "", errors.Wrap(apperrors.ErrUpstream, err.Error())
	}
	return authorizationURL.String(), nil
}

// AccessToken performs the second provider round-trip itself rather than
// through oauth1.Config.AccessToken: the provider's response carries
// screen_name and user_id alongside the standard fields, and the library
// discards them.
func (c *Client) AccessToken(ctx context.Context, rec RequestTokenRecord, verifier string) (AccessCredentials, error) {
	ctx = context.WithValue(ctx, oauth1.HTTPClient, c.httpClient)
	signing := oauth1.NewClient(ctx, c.config(""), oauth1.NewToken(rec.Token, rec.Secret))

	resp, err := signing.PostForm(c.endpoint.AccessTokenURL, url.Values{
		"oauth_verifier": {verifier},
	})
	if err != nil {
		return AccessCredentials{}, errors.Wrap(apperrors.ErrUpstream, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return AccessCredentials{}, errors.Wrap(apperrors.ErrUpstream, err.Error())
	}
	if resp.StatusCode != http.StatusOK {
		return AccessCredentials{}, errors.Wrapf(apperrors.ErrUpstream,
			"access token endpoint returned %d", resp.StatusCode)
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return AccessCredentials{}, errors.Wrap(apperrors.ErrUpstream, err.Error())
	}
	userID, err := strconv.ParseInt(values.Get("user_id"), 10, 64)
	if err != nil {
		return AccessCredentials{}, errors.Wrapf(apperrors.ErrUpstream,
			"access token response has no usable user_id: %q", values.Get("user_id"))
	}

	access := AccessCredentials{
		Token:      values.Get("oauth_token"),
		Secret:     values.Get("oauth_token_secret"),
		ScreenName: values.Get("screen_name"),
		UserID:     userID,
	}
	if access.Token == "" || access.ScreenName == "" {
		return AccessCredentials{}, errors.Wrap(apperrors.ErrUpstream,
			"access token response is missing oauth_token or screen_name")
	}
	return access, nil
}
