package authclient

import (
	"sync"
)

// Transition enumerates every way session state is allowed to change. The
// allowed-from table below makes the transition set statically checkable
// instead of hiding it in a generic dispatcher.
type Transition string

const (
	TransitionBootstrap      Transition = "bootstrap"
	TransitionLogin          Transition = "login"
	TransitionSignup         Transition = "signup"
	TransitionOAuth          Transition = "oauth"
	TransitionLogout         Transition = "logout"
	TransitionProfileUpdate  Transition = "profile_update"
	TransitionProfileRefresh Transition = "profile_refresh"
	TransitionClearError     Transition = "clear_error"
)

// transitionSources maps each transition to the statuses it may begin from.
var transitionSources = map[Transition]map[Status]struct{}{
	TransitionBootstrap: {
		StatusIdle:    {},
		StatusPending: {},
	},
	TransitionLogin: {
		StatusUnauthenticated: {},
		StatusAuthenticated:   {},
		StatusFailed:          {},
	},
	TransitionSignup: {
		StatusUnauthenticated: {},
		StatusFailed:          {},
	},
	TransitionOAuth: {
		StatusUnauthenticated: {},
		StatusFailed:          {},
	},
	TransitionProfileUpdate: {
		StatusAuthenticated: {},
	},
	TransitionProfileRefresh: {
		StatusAuthenticated: {},
	},
}

// StateMachine owns the canonical session record and is its sole writer.
// Remote operations run outside the lock: callers Begin a transition,
// perform their calls, then resolve with the captured generation. A
// resolution whose generation no longer matches is discarded, which is what
// keeps a slow stale login from resurrecting a logged out session.
type StateMachine struct {
	mu       sync.Mutex
	state    State
	inflight int

	notifyMu  sync.Mutex
	listeners map[int]Listener
	nextID    int

	logger Logger
}

// StateMachineOption customizes state machine construction.
type StateMachineOption func(*StateMachine)

// WithStateMachineLogger overrides the default logger.
func WithStateMachineLogger(logger Logger) StateMachineOption {
	return func(sm *StateMachine) {
		if logger != nil {
			sm.logger = logger
		}
	}
}

// NewStateMachine returns a session state machine in StatusPending.
func NewStateMachine(opts ...StateMachineOption) *StateMachine {
	sm := &StateMachine{
		state:     State{Status: StatusPending},
		listeners: map[int]Listener{},
		logger:    defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(sm)
		}
	}
	return sm
}

// State returns a read projection of the current session.
func (sm *StateMachine) State() State {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.state.clone()
}

// Subscribe registers a listener and returns its unsubscribe function.
func (sm *StateMachine) Subscribe(l Listener) func() {
	if l == nil {
		return func() {}
	}
	sm.notifyMu.Lock()
	id := sm.nextID
	sm.nextID++
	sm.listeners[id] = l
	sm.notifyMu.Unlock()

	return func() {
		sm.notifyMu.Lock()
		delete(sm.listeners, id)
		sm.notifyMu.Unlock()
	}
}

// Begin validates that tr may start from the current status, marks the
// session loading, clears any previous error, and returns the generation the
// eventual resolution must present.
func (sm *StateMachine) Begin(tr Transition) (uint64, error) {
	sm.mu.Lock()

	allowed, ok := transitionSources[tr]
	if !ok {
		sm.mu.Unlock()
		return 0, ErrInvalidTransition.WithMetadata(map[string]any{
			"transition": string(tr),
			"reason":     "transition has no begin phase",
		})
	}
	if _, ok := allowed[sm.state.Status]; !ok {
		from := sm.state.Status
		sm.mu.Unlock()
		return 0, ErrInvalidTransition.WithMetadata(map[string]any{
			"transition": string(tr),
			"from":       string(from),
		})
	}

	if tr == TransitionBootstrap && sm.state.Status == StatusIdle {
		sm.state.Status = StatusPending
	}

	sm.inflight++
	sm.state.IsLoading = true
	sm.state.Error = ""
	gen := sm.state.Generation
	snapshot := sm.state.clone()
	sm.mu.Unlock()

	sm.notify(snapshot)
	return gen, nil
}

// ValidGeneration reports whether a resolution carrying gen would still be
// applied. Callers use it to skip side effects for operations that have
// already been superseded.
func (sm *StateMachine) ValidGeneration(gen uint64) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return gen == sm.state.Generation
}

// ResolveAuthenticated applies the terminal transition for a successful
// login, signup, OAuth exchange or bootstrap. It reports whether the
// resolution was applied; stale generations are discarded.
func (sm *StateMachine) ResolveAuthenticated(gen uint64, identity *Identity, profile *Profile) bool {
	if profile == nil {
		// Authenticated without a profile would break the session invariant.
		sm.logger.Error("discarding authenticated resolution without profile")
		return false
	}

	return sm.resolve(gen, func(s *State) {
		if identity != nil {
			s.Identity = identity.Clone()
		} else if s.Identity == nil {
			s.Identity = profile.IdentityRef()
		}
		s.Profile = profile.Clone()
		s.Status = StatusAuthenticated
		s.Error = ""
	})
}

// ResolveUnauthenticated settles the session as signed out, clearing user
// data and any error. Used by the bootstrap check and by forced session
// invalidation.
func (sm *StateMachine) ResolveUnauthenticated(gen uint64) bool {
	return sm.resolve(gen, func(s *State) {
		s.Identity = nil
		s.Profile = nil
		s.Status = StatusUnauthenticated
		s.Error = ""
	})
}

// ResolveProfile replaces the profile without changing status. Used by
// profile update confirmation and refresh.
func (sm *StateMachine) ResolveProfile(gen uint64, profile *Profile) bool {
	if profile == nil {
		sm.logger.Error("discarding profile resolution without profile")
		return false
	}
	return sm.resolve(gen, func(s *State) {
		s.Profile = profile.Clone()
		s.Error = ""
	})
}

// ResolveFailure applies the terminal transition for a failed operation. The
// outcome depends on the transition: a failed bootstrap settles as
// unauthenticated with no error, failed sign in variants clear user data and
// surface the reason, and failed profile operations keep the previous
// profile until a confirmed refresh.
func (sm *StateMachine) ResolveFailure(gen uint64, tr Transition, err error) bool {
	msg := ErrorMessage(err)

	return sm.resolve(gen, func(s *State) {
		switch tr {
		case TransitionBootstrap:
			s.Identity = nil
			s.Profile = nil
			s.Status = StatusUnauthenticated
			s.Error = ""
		case TransitionLogin, TransitionSignup, TransitionOAuth:
			s.Identity = nil
			s.Profile = nil
			s.Status = StatusFailed
			s.Error = msg
		case TransitionProfileUpdate:
			s.Status = StatusFailed
			s.Error = msg
		case TransitionProfileRefresh:
			// Refresh failures other than credential rejection leave the
			// status untouched; the error is still surfaced.
			s.Error = msg
		default:
			s.Status = StatusFailed
			s.Error = msg
		}
	})
}

// Logout is the synchronous transition that cannot fail. It bumps the
// generation so every in-flight operation resolves stale, then clears user
// data. It is also the forced invalidation path when the remote rejects the
// stored credential.
func (sm *StateMachine) Logout() {
	sm.mu.Lock()
	sm.state.Generation++
	sm.inflight = 0
	sm.state.IsLoading = false
	sm.state.Identity = nil
	sm.state.Profile = nil
	sm.state.Status = StatusUnauthenticated
	sm.state.Error = ""
	snapshot := sm.state.clone()
	sm.mu.Unlock()

	sm.notify(snapshot)
}

// ClearError drops the visible error without touching the status. Calling it
// when no error is set is a no-op.
func (sm *StateMachine) ClearError() {
	sm.mu.Lock()
	if sm.state.Error == "" {
		sm.mu.Unlock()
		return
	}
	sm.state.Error = ""
	snapshot := sm.state.clone()
	sm.mu.Unlock()

	sm.notify(snapshot)
}

// resolve applies fn to the session if gen is still current. The last valid
// resolution to arrive wins; there is no merging of concurrent outcomes.
func (sm *StateMachine) resolve(gen uint64, fn func(*State)) bool {
	sm.mu.Lock()
	if gen != sm.state.Generation {
		sm.mu.Unlock()
		sm.logger.Debug("discarding stale resolution for generation %d", gen)
		return false
	}

	if sm.inflight > 0 {
		sm.inflight--
	}
	sm.state.IsLoading = sm.inflight > 0
	fn(&sm.state)
	snapshot := sm.state.clone()
	sm.mu.Unlock()

	sm.notify(snapshot)
	return true
}

// notify runs listeners outside the state lock but serialized, so observers
// see state changes in application order.
func (sm *StateMachine) notify(snapshot State) {
	sm.notifyMu.Lock()
	defer sm.notifyMu.Unlock()

	ids := make([]int, 0, len(sm.listeners))
	for id := range sm.listeners {
		ids = append(ids, id)
	}
	// map iteration order is random; keep subscription order
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	for _, id := range ids {
		sm.listeners[id](snapshot)
	}
}
