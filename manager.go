package authclient

import (
	"context"
	"sync"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-authclient/oauth"
)

// SessionManager is the single entry point views use to read session state
// and trigger transitions. It is the only caller of the state machine's
// mutating methods and the only writer of the token store.
type SessionManager struct {
	machine *StateMachine
	service IdentityService
	tokens  TokenStore
	logger  Logger

	// serializes token writes against generation checks so a logout that
	// lands mid-operation always leaves the store empty
	tokenMu sync.Mutex
}

// ManagerOption customizes the session manager.
type ManagerOption func(*SessionManager)

// WithLogger overrides the default logger.
func WithLogger(logger Logger) ManagerOption {
	return func(m *SessionManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithStateMachine injects a custom state machine (useful for tests).
func WithStateMachine(sm *StateMachine) ManagerOption {
	return func(m *SessionManager) {
		if sm != nil {
			m.machine = sm
		}
	}
}

// NewSessionManager wires the facade. The session starts in StatusPending;
// call Bootstrap to settle it.
func NewSessionManager(service IdentityService, tokens TokenStore, opts ...ManagerOption) *SessionManager {
	m := &SessionManager{
		service: service,
		tokens:  tokens,
		logger:  defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if m.machine == nil {
		m.machine = NewStateMachine(WithStateMachineLogger(m.logger))
	}
	if m.tokens == nil {
		m.tokens = NewMemoryTokenStore()
	}
	return m
}

// GetState returns a read projection of the session.
func (m *SessionManager) GetState() State {
	return m.machine.State()
}

// Subscribe registers a state change listener, returning its unsubscribe
// function.
func (m *SessionManager) Subscribe(l Listener) func() {
	return m.machine.Subscribe(l)
}

// Bootstrap settles the initial Pending state. Without a stored credential
// the session becomes Unauthenticated with no remote call. With one, the
// profile fetch decides: success authenticates, any failure discards the
// credential and settles as Unauthenticated.
func (m *SessionManager) Bootstrap(ctx context.Context) error {
	gen, err := m.machine.Begin(TransitionBootstrap)
	if err != nil {
		return err
	}

	token, ok, err := m.tokens.Get()
	if err != nil {
		m.logger.Warn("token store read failed: %v", err)
	}
	if !ok || token == "" {
		m.machine.ResolveUnauthenticated(gen)
		return nil
	}

	profile, err := m.service.FetchProfile(ctx)
	if err != nil {
		m.logger.Info("bootstrap profile fetch failed, discarding credential: %v", err)
		m.clearToken(gen)
		m.machine.ResolveFailure(gen, TransitionBootstrap, err)
		return err
	}

	m.machine.ResolveAuthenticated(gen, profile.IdentityRef(), profile)
	return nil
}

// Login performs credential based sign in. On success the credential is
// written to the token store before the status flips to Authenticated.
func (m *SessionManager) Login(ctx context.Context, email, password string) error {
	gen, err := m.machine.Begin(TransitionLogin)
	if err != nil {
		return err
	}
	return m.finishLogin(ctx, gen, TransitionLogin, email, password)
}

// Signup creates an account and, on success, logs in with the same
// credentials. A failure in either step surfaces as Failed.
func (m *SessionManager) Signup(ctx context.Context, req SignupRequest) error {
	gen, err := m.machine.Begin(TransitionSignup)
	if err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		err = goerrors.Wrap(err, goerrors.CategoryValidation, "invalid signup payload").
			WithTextCode(TextCodeValidation)
		m.machine.ResolveFailure(gen, TransitionSignup, err)
		return err
	}

	if _, err := m.service.Signup(ctx, req); err != nil {
		m.machine.ResolveFailure(gen, TransitionSignup, err)
		return err
	}

	return m.finishLogin(ctx, gen, TransitionSignup, req.Email, req.Password)
}

// LoginWithOAuth exchanges a provider assertion for a session. When the
// exchange does not inline the profile, it is fetched explicitly once.
func (m *SessionManager) LoginWithOAuth(ctx context.Context, assertion oauth.Assertion) error {
	gen, err := m.machine.Begin(TransitionOAuth)
	if err != nil {
		return err
	}

	res, err := m.service.ExchangeOAuth(ctx, assertion)
	if err != nil {
		m.machine.ResolveFailure(gen, TransitionOAuth, err)
		return err
	}

	if !m.writeToken(gen, res.Token) {
		return nil
	}

	profile := res.Profile
	if profile == nil {
		profile, err = m.service.FetchProfile(ctx)
		if err != nil {
			m.clearToken(gen)
			m.machine.ResolveFailure(gen, TransitionOAuth, err)
			return err
		}
	}

	m.machine.ResolveAuthenticated(gen, res.Identity, profile)
	return nil
}

// Logout signs the user out. It is synchronous, cannot fail, and acts as a
// cancellation barrier: any operation still in flight resolves stale and is
// discarded.
func (m *SessionManager) Logout() {
	m.machine.Logout()

	m.tokenMu.Lock()
	if err := m.tokens.Clear(); err != nil {
		m.logger.Warn("token store clear failed: %v", err)
	}
	m.tokenMu.Unlock()
}

// UpdateProfile applies a partial profile and confirms it with an explicit
// refresh. On failure the previous profile stays visible.
func (m *SessionManager) UpdateProfile(ctx context.Context, patch ProfileUpdate) error {
	gen, err := m.machine.Begin(TransitionProfileUpdate)
	if err != nil {
		return err
	}

	if err := patch.Validate(); err != nil {
		err = goerrors.Wrap(err, goerrors.CategoryValidation, "invalid profile update").
			WithTextCode(TextCodeValidation)
		m.machine.ResolveFailure(gen, TransitionProfileUpdate, err)
		return err
	}

	if err := m.service.UpdateProfile(ctx, patch); err != nil {
		if IsUnauthorized(err) {
			m.invalidate()
			return err
		}
		m.machine.ResolveFailure(gen, TransitionProfileUpdate, err)
		return err
	}

	profile, err := m.service.FetchProfile(ctx)
	if err != nil {
		if IsUnauthorized(err) {
			m.invalidate()
			return err
		}
		m.machine.ResolveFailure(gen, TransitionProfileUpdate, err)
		return err
	}

	m.machine.ResolveProfile(gen, profile)
	return nil
}

// RefreshProfile re-fetches the profile without altering the status, unless
// the remote rejects the credential, in which case the session is forced to
// Unauthenticated and the credential cleared.
func (m *SessionManager) RefreshProfile(ctx context.Context) error {
	gen, err := m.machine.Begin(TransitionProfileRefresh)
	if err != nil {
		return err
	}

	profile, err := m.service.FetchProfile(ctx)
	if err != nil {
		if IsUnauthorized(err) {
			m.invalidate()
			return err
		}
		m.machine.ResolveFailure(gen, TransitionProfileRefresh, err)
		return err
	}

	m.machine.ResolveProfile(gen, profile)
	return nil
}

// ClearError drops the visible error. Idempotent.
func (m *SessionManager) ClearError() {
	m.machine.ClearError()
}

// TokenInfo peeks at the stored bearer token's claims without verifying the
// signature. Returns nil when no credential is stored.
func (m *SessionManager) TokenInfo() (*TokenInfo, error) {
	token, ok, err := m.tokens.Get()
	if err != nil {
		return nil, err
	}
	if !ok || token == "" {
		return nil, nil
	}
	return PeekToken(token)
}

// finishLogin runs the shared tail of login and signup: exchange
// credentials, persist the token, fetch the profile, flip to Authenticated.
func (m *SessionManager) finishLogin(ctx context.Context, gen uint64, tr Transition, email, password string) error {
	req := LoginRequest{Email: email, Password: password}
	if err := req.Validate(); err != nil {
		err = goerrors.Wrap(err, goerrors.CategoryValidation, "invalid login payload").
			WithTextCode(TextCodeValidation)
		m.machine.ResolveFailure(gen, tr, err)
		return err
	}

	res, err := m.service.Login(ctx, email, password)
	if err != nil {
		m.machine.ResolveFailure(gen, tr, err)
		return err
	}

	if !m.writeToken(gen, res.Token) {
		// superseded by logout while the call was in flight
		return nil
	}

	profile := res.Profile
	if profile == nil {
		profile, err = m.service.FetchProfile(ctx)
		if err != nil {
			m.clearToken(gen)
			m.machine.ResolveFailure(gen, tr, err)
			return err
		}
	}

	m.machine.ResolveAuthenticated(gen, res.Identity, profile)
	return nil
}

// writeToken persists the credential only while gen is still current. The
// write happens before the Authenticated flip so concurrent readers never
// observe an authenticated session without its credential.
func (m *SessionManager) writeToken(gen uint64, token string) bool {
	m.tokenMu.Lock()
	defer m.tokenMu.Unlock()

	if !m.machine.ValidGeneration(gen) {
		return false
	}
	if err := m.tokens.Set(token); err != nil {
		m.logger.Warn("token store write failed: %v", err)
	}
	return true
}

func (m *SessionManager) clearToken(gen uint64) {
	m.tokenMu.Lock()
	defer m.tokenMu.Unlock()

	if !m.machine.ValidGeneration(gen) {
		return
	}
	if err := m.tokens.Clear(); err != nil {
		m.logger.Warn("token store clear failed: %v", err)
	}
}

// invalidate is the forced sign-out path for a rejected credential.
func (m *SessionManager) invalidate() {
	m.machine.Logout()

	m.tokenMu.Lock()
	if err := m.tokens.Clear(); err != nil {
		m.logger.Warn("token store clear failed: %v", err)
	}
	m.tokenMu.Unlock()
}
