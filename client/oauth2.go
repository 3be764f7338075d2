package client

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/dkoval/authkit/models"
)

// OAuth2Info is a token-exchange submission after an external provider
// redirected back with an authorization code.
type OAuth2Info struct {
	// Provider identifies the configured OAuth2 provider.
	Provider string `json:"provider,omitempty"`
	// Code is the authorization code returned by the provider.
	Code string `json:"code"`
	// RedirectURI must match the one used to obtain the code.
	RedirectURI string `json:"redirectUri,omitempty"`
	// InvitationCode optionally binds the sign-in to an invitation.
	InvitationCode string `json:"invitationCode,omitempty"`
}

// OAuth2Config describes a provider the server supports, enough for a
// client to start the redirect flow.
type OAuth2Config struct {
	ID           string `json:"id,omitempty"`
	Provider     string `json:"provider"`
	ClientID     string `json:"clientId"`
	Scope        string `json:"scope,omitempty"`
	AuthorizeURL string `json:"authorizeUrl,omitempty"`
	RedirectURI  string `json:"redirectUri,omitempty"`
}

// OAuth2Client exchanges provider codes for an authentication result
// and retrieves provider configurations.
type OAuth2Client struct {
	http      *http.Client
	authURL   string
	configURL string
	log       *zap.Logger
}

// NewOAuth2Client returns an OAuth2Client posting exchanges to authURL
// and reading provider configurations from configURL.
func NewOAuth2Client(httpClient *http.Client, authURL, configURL string, opts ...Option) *OAuth2Client {
	o := buildOptions(opts)
	return &OAuth2Client{
		http:      httpClient,
		authURL:   authURL,
		configURL: configURL,
		log:       o.log,
	}
}

// Authenticate exchanges auth for an authentication result, normalized
// the same way as a password login.
func (c *OAuth2Client) Authenticate(ctx context.Context, auth OAuth2Info) (models.AuthResult, error) {
	var result models.AuthResult
	if err := postJSON(ctx, c.http, c.authURL, auth, &result); err != nil {
		return models.AuthResult{}, err
	}
	reportUnparsedTimes(c.log, &result)
	return result, nil
}

// Configurations lists every provider configuration the server offers.
func (c *OAuth2Client) Configurations(ctx context.Context) ([]OAuth2Config, error) {
	var configs []OAuth2Config
	if err := getJSON(ctx, c.http, c.configURL, &configs); err != nil {
		return nil, err
	}
	return configs, nil
}

// Configuration fetches the provider configuration with the given id.
func (c *OAuth2Client) Configuration(ctx context.Context, id string) (OAuth2Config, error) {
	var config OAuth2Config
	if err := getJSON(ctx, c.http, c.configURL+"/"+url.PathEscape(id), &config); err != nil {
		return OAuth2Config{}, err
	}
	return config, nil
}
