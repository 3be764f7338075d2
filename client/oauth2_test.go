package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoval/authkit/models"
)

// newOAuth2TestServer serves the token-exchange endpoint at /oauth2 and
// provider configurations at /configurations.
func newOAuth2TestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2", func(w http.ResponseWriter, r *http.Request) {
		var info OAuth2Info
		require.NoError(t, json.NewDecoder(r.Body).Decode(&info))
		w.Header().Set("Content-Type", "application/json")
		if info.Code == "good-code" {
			_, _ = w.Write([]byte(`{"status":0,"user":{"username":"alice","token":"tok","tokenExpiredTime":"2030-01-02T15:04:05Z"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":3}`))
	})
	mux.HandleFunc("/configurations", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"google","provider":"google","clientId":"cid-1","scope":"openid email"},
			{"id":"github","provider":"github","clientId":"cid-2"}
		]`))
	})
	mux.HandleFunc("/configurations/google", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"google","provider":"google","clientId":"cid-1","scope":"openid email"}`))
	})
	return httptest.NewServer(mux)
}

func TestOAuth2Authenticate(t *testing.T) {
	srv := newOAuth2TestServer(t)
	defer srv.Close()

	c := NewOAuth2Client(srv.Client(), srv.URL+"/oauth2", srv.URL+"/configurations")

	res, err := c.Authenticate(context.Background(), OAuth2Info{Provider: "google", Code: "good-code"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, res.Status)
	require.NotNil(t, res.User)
	assert.Equal(t, "tok", res.User.Token)
	require.NotNil(t, res.User.TokenExpiredTime)
	assert.False(t, res.User.TokenExpiredTime.IsZero())

	res, err = c.Authenticate(context.Background(), OAuth2Info{Provider: "google", Code: "bad-code"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusFail, res.Status)
	assert.Nil(t, res.User)
}

func TestOAuth2Configurations(t *testing.T) {
	srv := newOAuth2TestServer(t)
	defer srv.Close()

	c := NewOAuth2Client(srv.Client(), srv.URL+"/oauth2", srv.URL+"/configurations")

	configs, err := c.Configurations(context.Background())
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, "google", configs[0].Provider)
	assert.Equal(t, "cid-2", configs[1].ClientID)
}

func TestOAuth2Configuration(t *testing.T) {
	srv := newOAuth2TestServer(t)
	defer srv.Close()

	c := NewOAuth2Client(srv.Client(), srv.URL+"/oauth2", srv.URL+"/configurations")

	config, err := c.Configuration(context.Background(), "google")
	require.NoError(t, err)
	assert.Equal(t, "cid-1", config.ClientID)
	assert.Equal(t, "openid email", config.Scope)
}
