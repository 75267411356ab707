package authclient

import (
	goerrors "github.com/goliatone/go-errors"
)

// Status is the session's lifecycle position. The zero value is StatusIdle;
// a freshly constructed manager moves to StatusPending until the bootstrap
// check settles it.
type Status string

const (
	StatusIdle            Status = "idle"
	StatusPending         Status = "pending"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
	StatusFailed          Status = "failed"
)

// Settled reports whether the session has resolved past its bootstrap.
func (s Status) Settled() bool {
	switch s {
	case StatusAuthenticated, StatusUnauthenticated, StatusFailed:
		return true
	default:
		return false
	}
}

// State is the read projection of the session handed to observers. It is a
// value copy; mutating it has no effect on the session.
type State struct {
	Status     Status
	Identity   *Identity
	Profile    *Profile
	Error      string
	IsLoading  bool
	Generation uint64
}

// IsAuthenticated reports whether protected content may be shown.
func (s State) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated
}

// Validate checks the session invariants. Authenticated sessions carry a
// profile; idle and unauthenticated sessions carry neither identity nor
// profile.
func (s State) Validate() error {
	switch s.Status {
	case StatusAuthenticated:
		if s.Profile == nil {
			return goerrors.New("authenticated session without profile", goerrors.CategoryInternal).
				WithTextCode(TextCodeInvalidTransition)
		}
	case StatusUnauthenticated, StatusIdle:
		if s.Identity != nil || s.Profile != nil {
			return goerrors.New("unauthenticated session holding user data", goerrors.CategoryInternal).
				WithTextCode(TextCodeInvalidTransition)
		}
	}
	return nil
}

func (s State) clone() State {
	s.Identity = s.Identity.Clone()
	s.Profile = s.Profile.Clone()
	return s
}
