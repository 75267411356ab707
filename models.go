package authclient

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
)

// Identity is the minimal account record the remote returns on login and
// signup.
type Identity struct {
	ID        string         `json:"id,omitempty"`
	Email     string         `json:"email,omitempty"`
	CreatedAt *time.Time     `json:"created_at,omitempty"`
	Metadata  map[string]any `json:"user_metadata,omitempty"`
}

// UUID parses the identity ID.
func (i *Identity) UUID() (uuid.UUID, error) {
	return uuid.Parse(i.ID)
}

// Clone returns a deep enough copy for read projections.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	dup := *i
	if i.Metadata != nil {
		dup.Metadata = make(map[string]any, len(i.Metadata))
		for k, v := range i.Metadata {
			dup.Metadata[k] = v
		}
	}
	return &dup
}

// Profile is the extended user record behind the authenticated area.
type Profile struct {
	ID        string     `json:"id,omitempty"`
	Email     string     `json:"email,omitempty"`
	FirstName string     `json:"first_name,omitempty"`
	LastName  string     `json:"last_name,omitempty"`
	FullName  string     `json:"full_name,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Role      UserRole   `json:"role,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Clone returns a copy for read projections.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	dup := *p
	return &dup
}

// IdentityRef derives the minimal identity from a profile. Used when a
// bootstrap only has the profile record to go on.
func (p *Profile) IdentityRef() *Identity {
	if p == nil {
		return nil
	}
	return &Identity{ID: p.ID, Email: p.Email, CreatedAt: p.CreatedAt}
}

// LoginRequest carries credential based sign in data.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// SignupRequest carries account creation data. Signup does not log the user
// in; callers log in explicitly afterwards.
type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
}

func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Phone, validation.By(optionalPhone)),
	)
}

// ProfileUpdate is a partial profile; empty fields are left untouched by the
// remote.
type ProfileUpdate struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	FullName  string `json:"full_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

func (r ProfileUpdate) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Length(0, 200)),
		validation.Field(&r.LastName, validation.Length(0, 200)),
		validation.Field(&r.FullName, validation.Length(0, 400)),
		validation.Field(&r.Phone, validation.By(optionalPhone)),
	)
}

// IsZero reports whether the patch changes nothing.
func (r ProfileUpdate) IsZero() bool {
	return r == ProfileUpdate{}
}

// optionalPhone validates a phone number when present. Numbers without an
// international prefix are interpreted as US numbers.
func optionalPhone(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}

	region := "US"
	if strings.HasPrefix(raw, "+") {
		region = ""
	}

	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return err
	}
	if !phonenumbers.IsValidNumber(num) {
		return errors.New("must be a valid phone number")
	}
	return nil
}

// AuthResult is what credential and OAuth sign in return: the bearer token
// plus the identity, and optionally the profile when the remote inlines it.
type AuthResult struct {
	Token    string    `json:"access_token"`
	Identity *Identity `json:"user"`
	Profile  *Profile  `json:"profile,omitempty"`
}

// SignupResult acknowledges account creation.
type SignupResult struct {
	Message  string    `json:"message"`
	Identity *Identity `json:"user"`
}
