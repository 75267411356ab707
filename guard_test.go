package authclient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	authclient "github.com/goliatone/go-authclient"
)

func TestAccessGuardEvaluate(t *testing.T) {
	guard := authclient.NewAccessGuard("/signin")

	tests := []struct {
		name     string
		state    authclient.State
		decision authclient.Decision
		redirect string
	}{
		{
			name:     "idle waits",
			state:    authclient.State{Status: authclient.StatusIdle},
			decision: authclient.DecisionWait,
		},
		{
			name:     "pending waits",
			state:    authclient.State{Status: authclient.StatusPending},
			decision: authclient.DecisionWait,
		},
		{
			name:     "pending waits even while loading",
			state:    authclient.State{Status: authclient.StatusPending, IsLoading: true},
			decision: authclient.DecisionWait,
		},
		{
			name:     "unauthenticated redirects",
			state:    authclient.State{Status: authclient.StatusUnauthenticated},
			decision: authclient.DecisionRedirect,
			redirect: "/signin",
		},
		{
			name:     "failed redirects",
			state:    authclient.State{Status: authclient.StatusFailed, Error: "denied"},
			decision: authclient.DecisionRedirect,
			redirect: "/signin",
		},
		{
			name: "authenticated allows",
			state: authclient.State{
				Status:  authclient.StatusAuthenticated,
				Profile: testProfile(),
			},
			decision: authclient.DecisionAllow,
		},
		{
			name: "authenticated allows even while loading",
			state: authclient.State{
				Status:    authclient.StatusAuthenticated,
				Profile:   testProfile(),
				IsLoading: true,
			},
			decision: authclient.DecisionAllow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := guard.Evaluate(tt.state)
			assert.Equal(t, tt.decision, outcome.Decision)
			assert.Equal(t, tt.redirect, outcome.RedirectTo)
		})
	}
}

func TestAccessGuardDefaultRedirect(t *testing.T) {
	guard := authclient.NewAccessGuard("")

	outcome := guard.Evaluate(authclient.State{Status: authclient.StatusUnauthenticated})
	assert.Equal(t, authclient.DecisionRedirect, outcome.Decision)
	assert.Equal(t, authclient.DefaultRedirect, outcome.RedirectTo)
}

func TestAccessGuardAllowed(t *testing.T) {
	guard := authclient.NewAccessGuard("")

	assert.False(t, guard.Allowed(authclient.State{Status: authclient.StatusPending}))
	assert.False(t, guard.Allowed(authclient.State{Status: authclient.StatusUnauthenticated}))
	assert.True(t, guard.Allowed(authclient.State{
		Status:  authclient.StatusAuthenticated,
		Profile: testProfile(),
	}))
}
