package authclient

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenInfo is what the client can read off a stored bearer token without
// verifying it. The presence of a token is necessary but never sufficient
// for an authenticated session; verification stays the remote's job.
type TokenInfo struct {
	Subject   string
	Role      string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
}

// Expired reports whether the token carries an expiry in the past. Tokens
// without an exp claim report false.
func (t *TokenInfo) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && t.ExpiresAt.Before(now)
}

type peekClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid,omitempty"`
	UserRole string `json:"role,omitempty"`
}

// PeekToken decodes a bearer token's claims WITHOUT verifying the signature.
func PeekToken(token string) (*TokenInfo, error) {
	claims := &peekClaims{}
	parser := jwt.NewParser()

	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to decode bearer token")
	}

	info := &TokenInfo{
		Subject: claims.Subject,
		Role:    claims.UserRole,
	}
	if claims.UID != "" {
		info.Subject = claims.UID
	}
	if claims.RegisteredClaims.IssuedAt != nil {
		iat := claims.RegisteredClaims.IssuedAt.Time
		info.IssuedAt = &iat
	}
	if claims.RegisteredClaims.ExpiresAt != nil {
		exp := claims.RegisteredClaims.ExpiresAt.Time
		info.ExpiresAt = &exp
	}
	return info, nil
}
