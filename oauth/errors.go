package oauth

import "github.com/goliatone/go-errors"

const (
	TextCodeProviderNotFound = "oauth_provider_not_found"
	TextCodeInvalidState     = "oauth_invalid_state"
	TextCodeStateExpired     = "oauth_state_expired"
	TextCodeExchangeFailed   = "oauth_exchange_failed"
	TextCodeUserInfoFailed   = "oauth_user_info_failed"
)

// ErrProviderNotFound is returned when a requested provider is not configured.
var ErrProviderNotFound = errors.New("oauth provider not found", errors.CategoryNotFound).
	WithTextCode(TextCodeProviderNotFound).
	WithCode(errors.CodeNotFound)

// ErrInvalidState is returned when the state parameter is missing or tampered.
var ErrInvalidState = errors.New("invalid oauth state", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidState).
	WithCode(errors.CodeBadRequest)

// ErrStateExpired is returned when the state parameter has outlived its TTL.
var ErrStateExpired = errors.New("oauth state expired", errors.CategoryBadInput).
	WithTextCode(TextCodeStateExpired).
	WithCode(errors.CodeBadRequest)

// ErrExchangeFailed is returned when the provider refuses the code exchange.
var ErrExchangeFailed = errors.New("provider token exchange failed", errors.CategoryAuth).
	WithTextCode(TextCodeExchangeFailed).
	WithCode(errors.CodeUnauthorized)

// ErrUserInfoFailed is returned when the user info fetch fails.
var ErrUserInfoFailed = errors.New("failed to fetch provider user info", errors.CategoryAuth).
	WithTextCode(TextCodeUserInfoFailed).
	WithCode(errors.CodeUnauthorized)
