// Package oauth supplies the pluggable third party sign in capability: a
// provider obtains a provider token out of band, and the session layer
// exchanges the resulting assertion with the identity service. Adding a
// provider never touches the session state machine.
package oauth

import (
	"context"
	"sort"
	"sync"
)

// Assertion is the transient value consumed by the OAuth exchange: the
// provider name, the provider issued token, and a minimal user info hint.
// It is never persisted beyond the call that consumes it.
type Assertion struct {
	Provider string         `json:"provider"`
	Token    string         `json:"token"`
	UserInfo map[string]any `json:"user_info,omitempty"`
}

// Provider acquires provider tokens for one third party.
type Provider interface {
	// Name returns the provider identifier (e.g. "google").
	Name() string

	// AuthCodeURL returns the URL users are sent to for authorization. The
	// state parameter must round trip unchanged for CSRF protection.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for an assertion ready to hand
	// to the identity service.
	Exchange(ctx context.Context, code string) (*Assertion, error)
}

// Registry holds configured providers by name.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry builds a registry from the given providers.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: map[string]Provider{}}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds or replaces a provider.
func (r *Registry) Register(p Provider) {
	if p == nil || p.Name() == "" {
		return
	}
	r.mu.Lock()
	r.providers[p.Name()] = p
	r.mu.Unlock()
}

// Get looks a provider up by name.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, ErrProviderNotFound.WithMetadata(map[string]any{"provider": name})
	}
	return p, nil
}

// Names lists registered providers in stable order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
