package authclient

import (
	"context"
	"fmt"

	"github.com/goliatone/go-authclient/oauth"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// TokenStore holds the single bearer credential. Implementations must be
// durable within one client profile where possible, and degrade to safe
// no-ops where no persistent storage exists. A store never triggers session
// transitions.
type TokenStore interface {
	// Get returns the stored credential. Absence is a normal state, not an
	// error.
	Get() (string, bool, error)
	Set(token string) error
	Clear() error
}

// TokenReader is the read-only view handed to the transport. Only the
// session manager writes the store.
type TokenReader interface {
	Get() (string, bool, error)
}

// IdentityService is the thin async wrapper over the remote identity
// endpoints. Every failure comes back classified (see errors.go), never
// swallowed.
type IdentityService interface {
	// Login exchanges credentials for a bearer token and identity.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// Signup creates an account. It does NOT log the user in; callers must
	// log in explicitly afterwards.
	Signup(ctx context.Context, req SignupRequest) (*SignupResult, error)

	// ExchangeOAuth trades a provider assertion for a bearer token and
	// identity. The profile may come back inline to save a round trip.
	ExchangeOAuth(ctx context.Context, assertion oauth.Assertion) (*AuthResult, error)

	// FetchProfile requires a stored credential.
	FetchProfile(ctx context.Context) (*Profile, error)

	// UpdateProfile applies a partial profile. Requires a stored credential.
	UpdateProfile(ctx context.Context, patch ProfileUpdate) error
}

// Listener observes session state changes. Listeners run synchronously after
// the state has been applied, in subscription order.
type Listener func(State)

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTHCLIENT "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTHCLIENT "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTHCLIENT "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTHCLIENT "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
