// Package client provides thin HTTP wrappers around a remote
// authentication API: password login, OAuth2 token exchange, and
// privilege retrieval. Each call issues exactly one outbound request;
// retries, timeouts, and cancellation belong to the supplied
// *http.Client and context.
package client

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/dkoval/authkit/models"
)

// AuthClient authenticates a credential submission against a single
// endpoint.
type AuthClient struct {
	http *http.Client
	url  string
	log  *zap.Logger
}

// Option configures a client.
type Option func(*options)

type options struct {
	log *zap.Logger
}

// WithLogger installs an observability hook. The clients log non-fatal
// oddities, such as expiry fields that failed date coercion, at debug
// level. Without it, nothing is logged.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewAuthClient returns an AuthClient posting submissions to url via
// httpClient.
func NewAuthClient(httpClient *http.Client, url string, opts ...Option) *AuthClient {
	o := buildOptions(opts)
	return &AuthClient{http: httpClient, url: url, log: o.log}
}

// Authenticate submits user and returns the normalized result. Date
// fields in the response are coerced best effort: a malformed expiry is
// reported through the logger and left as the zero time, never failing
// the call. A non-2xx response yields a *Error.
func (c *AuthClient) Authenticate(ctx context.Context, user models.AuthInfo) (models.AuthResult, error) {
	var result models.AuthResult
	if err := postJSON(ctx, c.http, c.url, user, &result); err != nil {
		return models.AuthResult{}, err
	}
	reportUnparsedTimes(c.log, &result)
	return result, nil
}

// Login is an alias for Authenticate.
func (c *AuthClient) Login(ctx context.Context, user models.AuthInfo) (models.AuthResult, error) {
	return c.Authenticate(ctx, user)
}

// Signin is an alias for Authenticate.
func (c *AuthClient) Signin(ctx context.Context, user models.AuthInfo) (models.AuthResult, error) {
	return c.Authenticate(ctx, user)
}

// reportUnparsedTimes surfaces date-coercion failures to the
// observability hook. A field that arrived but could not be parsed is
// present with a zero time.
func reportUnparsedTimes(log *zap.Logger, result *models.AuthResult) {
	if result.User == nil {
		return
	}
	if t := result.User.PasswordExpiredTime; t != nil && t.IsZero() {
		log.Debug("unparsable passwordExpiredTime in authentication result",
			zap.String("username", result.User.Username))
	}
	if t := result.User.TokenExpiredTime; t != nil && t.IsZero() {
		log.Debug("unparsable tokenExpiredTime in authentication result",
			zap.String("username", result.User.Username))
	}
}
