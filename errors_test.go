package authclient_test

import (
	"errors"
	"fmt"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"

	authclient "github.com/goliatone/go-authclient"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind authclient.Kind
	}{
		{"unreachable", authclient.ErrUnreachable, authclient.KindUnreachable},
		{"unauthorized", authclient.ErrUnauthorized, authclient.KindUnauthorized},
		{"invalid credentials", authclient.ErrInvalidCredentials, authclient.KindInvalidCredentials},
		{"already exists", authclient.ErrAlreadyExists, authclient.KindAlreadyExists},
		{"validation", authclient.ErrValidation, authclient.KindValidation},
		{"provider rejected", authclient.ErrProviderRejected, authclient.KindProviderRejected},
		{"plain error", errors.New("boom"), authclient.KindUnknown},
		{"nil", nil, authclient.Kind("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, authclient.KindOf(tt.err))
		})
	}
}

func TestKindOfSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("fetch profile: %w", authclient.ErrUnauthorized)
	assert.Equal(t, authclient.KindUnauthorized, authclient.KindOf(wrapped))
	assert.True(t, authclient.IsUnauthorized(wrapped))
}

func TestIsUnreachable(t *testing.T) {
	assert.True(t, authclient.IsUnreachable(authclient.ErrUnreachable))
	assert.False(t, authclient.IsUnreachable(authclient.ErrUnauthorized))
	assert.False(t, authclient.IsUnreachable(nil))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "", authclient.ErrorMessage(nil))
	assert.Equal(t, "boom", authclient.ErrorMessage(errors.New("boom")))
	assert.Equal(t, "invalid credentials", authclient.ErrorMessage(authclient.ErrInvalidCredentials))

	rich := goerrors.New("Invalid credentials", goerrors.CategoryAuth).
		WithTextCode(authclient.TextCodeInvalidCredentials)
	assert.Equal(t, "Invalid credentials", authclient.ErrorMessage(rich))
}

func TestStatusCode(t *testing.T) {
	rich := goerrors.New("credential rejected", goerrors.CategoryAuth).
		WithTextCode(authclient.TextCodeUnauthorized).
		WithMetadata(map[string]any{"status_code": 401})

	assert.Equal(t, 401, authclient.StatusCode(rich))
	assert.Equal(t, 0, authclient.StatusCode(errors.New("boom")))
	assert.Equal(t, 0, authclient.StatusCode(goerrors.New("no metadata", goerrors.CategoryAuth)))
}
