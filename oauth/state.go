package oauth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// State is the CSRF payload round tripped through the provider redirect.
type State struct {
	Nonce     string `json:"n"`
	Provider  string `json:"p"`
	ReturnTo  string `json:"r,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// StateCodec signs and verifies the OAuth state parameter with HMAC-SHA256.
// The payload is not encrypted; nothing in it is secret.
type StateCodec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewStateCodec builds a codec with the given signing key and TTL. A zero
// TTL defaults to ten minutes.
func NewStateCodec(key []byte, ttl time.Duration) *StateCodec {
	if ttl == 0 {
		ttl = 10 * time.Minute
	}
	return &StateCodec{key: key, ttl: ttl, now: time.Now}
}

// Encode signs the state, filling nonce and timestamps when absent.
func (c *StateCodec) Encode(state *State) (string, error) {
	if state == nil {
		return "", ErrInvalidState
	}

	now := c.now()
	if state.IssuedAt == 0 {
		state.IssuedAt = now.Unix()
	}
	if state.ExpiresAt == 0 {
		state.ExpiresAt = now.Add(c.ttl).Unix()
	}
	if state.Nonce == "" {
		state.Nonce = newNonce()
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, c.key)
	mac.Write(payload)

	signed := append(mac.Sum(nil), payload...)
	return base64.RawURLEncoding.EncodeToString(signed), nil
}

// Decode verifies the signature and TTL before handing the state back.
func (c *StateCodec) Decode(token string) (*State, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidState
	}
	if len(raw) < sha256.Size {
		return nil, ErrInvalidState
	}

	signature, payload := raw[:sha256.Size], raw[sha256.Size:]

	mac := hmac.New(sha256.New, c.key)
	mac.Write(payload)
	if !hmac.Equal(signature, mac.Sum(nil)) {
		return nil, ErrInvalidState
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, ErrInvalidState
	}

	if c.now().Unix() > state.ExpiresAt {
		return nil, ErrStateExpired
	}
	return &state, nil
}

func newNonce() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.NewString()
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
