package authclient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	authclient "github.com/goliatone/go-authclient"
)

func TestStatusSettled(t *testing.T) {
	assert.False(t, authclient.StatusIdle.Settled())
	assert.False(t, authclient.StatusPending.Settled())
	assert.True(t, authclient.StatusAuthenticated.Settled())
	assert.True(t, authclient.StatusUnauthenticated.Settled())
	assert.True(t, authclient.StatusFailed.Settled())
}

func TestStateValidate(t *testing.T) {
	tests := []struct {
		name    string
		state   authclient.State
		wantErr bool
	}{
		{
			name:  "authenticated with profile",
			state: authclient.State{Status: authclient.StatusAuthenticated, Profile: testProfile()},
		},
		{
			name:    "authenticated without profile",
			state:   authclient.State{Status: authclient.StatusAuthenticated},
			wantErr: true,
		},
		{
			name:  "unauthenticated without user data",
			state: authclient.State{Status: authclient.StatusUnauthenticated},
		},
		{
			name:    "unauthenticated holding profile",
			state:   authclient.State{Status: authclient.StatusUnauthenticated, Profile: testProfile()},
			wantErr: true,
		},
		{
			name:    "idle holding identity",
			state:   authclient.State{Status: authclient.StatusIdle, Identity: testIdentity()},
			wantErr: true,
		},
		{
			name:  "failed may keep the previous profile",
			state: authclient.State{Status: authclient.StatusFailed, Profile: testProfile(), Error: "update failed"},
		},
		{
			name:  "pending carries nothing yet",
			state: authclient.State{Status: authclient.StatusPending},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.state.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStateIsAuthenticated(t *testing.T) {
	assert.True(t, authclient.State{Status: authclient.StatusAuthenticated}.IsAuthenticated())
	assert.False(t, authclient.State{Status: authclient.StatusFailed}.IsAuthenticated())
}
