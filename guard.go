package authclient

// Decision is the guard's verdict over a session state.
type Decision string

const (
	// DecisionWait means the session has not settled; render a neutral
	// placeholder, never the protected content.
	DecisionWait Decision = "wait"
	// DecisionRedirect means the visitor is not signed in; render nothing
	// and navigate to the redirect target.
	DecisionRedirect Decision = "redirect"
	// DecisionAllow means the protected content may render.
	DecisionAllow Decision = "allow"
)

// Outcome pairs a decision with its redirect target when applicable.
type Outcome struct {
	Decision   Decision
	RedirectTo string
}

// DefaultRedirect is where unauthenticated visitors are sent when no target
// is configured.
const DefaultRedirect = "/login"

// AccessGuard is a pure policy over session state: it never mutates the
// session and never triggers transitions. Pending is the only state in which
// content is withheld without deciding, which is what prevents protected
// content from flickering before the first settled state is known.
type AccessGuard struct {
	redirectTo string
}

// NewAccessGuard builds a guard redirecting to the given target, falling
// back to DefaultRedirect when empty.
func NewAccessGuard(redirectTo string) *AccessGuard {
	if redirectTo == "" {
		redirectTo = DefaultRedirect
	}
	return &AccessGuard{redirectTo: redirectTo}
}

// Evaluate maps a session state to a rendering decision.
func (g *AccessGuard) Evaluate(state State) Outcome {
	if !state.Status.Settled() {
		return Outcome{Decision: DecisionWait}
	}
	if !state.IsAuthenticated() {
		return Outcome{Decision: DecisionRedirect, RedirectTo: g.redirectTo}
	}
	return Outcome{Decision: DecisionAllow}
}

// Allowed is a convenience wrapper for callers that only need the boolean.
func (g *AccessGuard) Allowed(state State) bool {
	return g.Evaluate(state).Decision == DecisionAllow
}
