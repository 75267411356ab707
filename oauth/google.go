package oauth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/oauth2"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// googleEndpoint avoids pulling the full google endpoints package for two
// URLs.
var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// GoogleConfig configures the Google provider.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string

	// UserInfoURL overrides the default endpoint (tests).
	UserInfoURL string
	// Endpoint overrides the oauth2 endpoints (tests).
	Endpoint *oauth2.Endpoint

	HTTPClient *http.Client
}

// Google acquires Google provider tokens through the standard authorization
// code flow and decorates the assertion with a user info hint.
type Google struct {
	oauth       *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

var _ Provider = (*Google)(nil)

// NewGoogle builds the Google provider.
func NewGoogle(cfg GoogleConfig) *Google {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"openid", "email", "profile"}
	}

	endpoint := googleEndpoint
	if cfg.Endpoint != nil {
		endpoint = *cfg.Endpoint
	}

	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = googleUserInfoURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Google{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		userInfoURL: userInfoURL,
		httpClient:  httpClient,
	}
}

func (g *Google) Name() string {
	return "google"
}

func (g *Google) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades the authorization code for an access token and fetches
// the user info hint. A failed hint fetch does not fail the exchange; the
// identity service can resolve the account from the token alone.
func (g *Google) Exchange(ctx context.Context, code string) (*Assertion, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)

	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryAuth, "provider token exchange failed").
			WithTextCode(TextCodeExchangeFailed).
			WithCode(goerrors.CodeUnauthorized)
	}

	assertion := &Assertion{
		Provider: g.Name(),
		Token:    token.AccessToken,
	}
	if idToken, ok := token.Extra("id_token").(string); ok && idToken != "" {
		assertion.Token = idToken
	}

	info, err := g.userInfo(ctx, token)
	if err != nil {
		return assertion, nil
	}
	assertion.UserInfo = info
	return assertion, nil
}

func (g *Google) userInfo(ctx context.Context, token *oauth2.Token) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build user info request")
	}
	token.SetAuthHeader(req)

	res, err := g.httpClient.Do(req)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryAuth, "failed to fetch provider user info").
			WithTextCode(TextCodeUserInfoFailed)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, ErrUserInfoFailed.WithMetadata(map[string]any{"status_code": res.StatusCode})
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryAuth, "failed to read provider user info").
			WithTextCode(TextCodeUserInfoFailed)
	}

	var info map[string]any
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryAuth, "failed to decode provider user info").
			WithTextCode(TextCodeUserInfoFailed)
	}
	return info, nil
}
