package oauth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/goliatone/go-authclient/oauth"
)

func newGoogleTestServer(t *testing.T, tokenBody map[string]any, userInfoStatus int, userInfo map[string]any) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "auth-code", r.Form.Get("code"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(tokenBody)
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("Authorization"))
		w.WriteHeader(userInfoStatus)
		if userInfo != nil {
			json.NewEncoder(w).Encode(userInfo)
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestGoogle(srv *httptest.Server) *oauth.Google {
	return oauth.NewGoogle(oauth.GoogleConfig{
		ClientID:     "cid",
		ClientSecret: "csecret",
		RedirectURL:  "https://app.example.com/callback",
		UserInfoURL:  srv.URL + "/userinfo",
		Endpoint: &oauth2.Endpoint{
			AuthURL:  srv.URL + "/auth",
			TokenURL: srv.URL + "/token",
		},
	})
}

func TestGoogleAuthCodeURL(t *testing.T) {
	g := oauth.NewGoogle(oauth.GoogleConfig{
		ClientID:    "cid",
		RedirectURL: "https://app.example.com/callback",
	})

	url := g.AuthCodeURL("state-token")
	assert.Contains(t, url, "accounts.google.com")
	assert.Contains(t, url, "state=state-token")
	assert.Contains(t, url, "client_id=cid")
	assert.Contains(t, url, "scope=openid+email+profile")
}

func TestGoogleExchangePrefersIDToken(t *testing.T) {
	srv := newGoogleTestServer(t, map[string]any{
		"access_token": "access-token",
		"token_type":   "Bearer",
		"id_token":     "id-token",
	}, http.StatusOK, map[string]any{"email": "a@b.com", "name": "Ada Lovelace"})

	assertion, err := newTestGoogle(srv).Exchange(context.Background(), "auth-code")
	require.NoError(t, err)

	assert.Equal(t, "google", assertion.Provider)
	assert.Equal(t, "id-token", assertion.Token)
	require.NotNil(t, assertion.UserInfo)
	assert.Equal(t, "a@b.com", assertion.UserInfo["email"])
}

func TestGoogleExchangeFallsBackToAccessToken(t *testing.T) {
	srv := newGoogleTestServer(t, map[string]any{
		"access_token": "access-token",
		"token_type":   "Bearer",
	}, http.StatusOK, map[string]any{"email": "a@b.com"})

	assertion, err := newTestGoogle(srv).Exchange(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "access-token", assertion.Token)
}

func TestGoogleExchangeSurvivesUserInfoFailure(t *testing.T) {
	srv := newGoogleTestServer(t, map[string]any{
		"access_token": "access-token",
		"token_type":   "Bearer",
	}, http.StatusInternalServerError, nil)

	assertion, err := newTestGoogle(srv).Exchange(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "access-token", assertion.Token)
	assert.Nil(t, assertion.UserInfo)
}

func TestGoogleExchangeFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"error": "invalid_grant"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	g := oauth.NewGoogle(oauth.GoogleConfig{
		ClientID: "cid",
		Endpoint: &oauth2.Endpoint{
			AuthURL:  srv.URL + "/auth",
			TokenURL: srv.URL + "/token",
		},
	})

	_, err := g.Exchange(context.Background(), "bad-code")
	assert.Error(t, err)
}
