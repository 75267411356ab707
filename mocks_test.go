package authclient_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	authclient "github.com/goliatone/go-authclient"
	"github.com/goliatone/go-authclient/oauth"
)

// MockIdentityService implements authclient.IdentityService
type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) Login(ctx context.Context, email, password string) (*authclient.AuthResult, error) {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(*authclient.AuthResult)
	return res, args.Error(1)
}

func (m *MockIdentityService) Signup(ctx context.Context, req authclient.SignupRequest) (*authclient.SignupResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*authclient.SignupResult)
	return res, args.Error(1)
}

func (m *MockIdentityService) ExchangeOAuth(ctx context.Context, assertion oauth.Assertion) (*authclient.AuthResult, error) {
	args := m.Called(ctx, assertion)
	res, _ := args.Get(0).(*authclient.AuthResult)
	return res, args.Error(1)
}

func (m *MockIdentityService) FetchProfile(ctx context.Context) (*authclient.Profile, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*authclient.Profile)
	return res, args.Error(1)
}

func (m *MockIdentityService) UpdateProfile(ctx context.Context, patch authclient.ProfileUpdate) error {
	args := m.Called(ctx, patch)
	return args.Error(0)
}

func testProfile() *authclient.Profile {
	return &authclient.Profile{
		ID:        "f3b6f3f4-9d95-4b9e-8a36-5f4ad6a4a1f4",
		Email:     "a@b.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		FullName:  "Ada Lovelace",
		Role:      authclient.RoleUser,
	}
}

func testIdentity() *authclient.Identity {
	return &authclient.Identity{
		ID:    "f3b6f3f4-9d95-4b9e-8a36-5f4ad6a4a1f4",
		Email: "a@b.com",
	}
}
