package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-authclient/oauth"
)

const defaultTimeout = 15 * time.Second

// Client is the HTTP implementation of IdentityService. It attaches the
// stored credential as a bearer header when one is present and classifies
// every non-2xx response into the failure taxonomy. It reads the token store
// through a TokenReader and never writes it.
type Client struct {
	baseURL    string
	prefix     string
	httpClient *http.Client
	tokens     TokenReader
	logger     Logger
}

var _ IdentityService = (*Client)(nil)

// ClientOption customizes the HTTP client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per request timeout on the default transport.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithClientLogger overrides the default logger.
func WithClientLogger(logger Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds an identity service client rooted at baseURL+prefix.
// tokens may be nil for flows that never attach a credential.
func NewClient(baseURL, prefix string, tokens TokenReader, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		prefix:     prefix,
		httpClient: &http.Client{Timeout: defaultTimeout},
		tokens:     tokens,
		logger:     defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := LoginRequest{Email: email, Password: password}

	res := &AuthResult{}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, res, classifyLogin); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) (*SignupResult, error) {
	res := &SignupResult{}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", req, res, classifySignup); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) ExchangeOAuth(ctx context.Context, assertion oauth.Assertion) (*AuthResult, error) {
	body := map[string]any{
		"provider": assertion.Provider,
		"token":    assertion.Token,
	}
	if assertion.UserInfo != nil {
		body["user_info"] = assertion.UserInfo
	}

	res := &AuthResult{}
	if err := c.do(ctx, http.MethodPost, "/auth/oauth/login", body, res, classifyOAuth); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) FetchProfile(ctx context.Context) (*Profile, error) {
	profile := &Profile{}
	if err := c.do(ctx, http.MethodGet, "/user/profile", nil, profile, classifyProfile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, patch ProfileUpdate) error {
	ack := map[string]any{}
	return c.do(ctx, http.MethodPut, "/user/profile", patch, &ack, classifyProfile)
}

// classifier maps an HTTP status to the operation's failure kind, falling
// back to KindUnknown.
type classifier func(status int) Kind

func classifyLogin(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusBadRequest, http.StatusForbidden:
		return KindInvalidCredentials
	default:
		return KindUnknown
	}
}

func classifySignup(status int) Kind {
	switch status {
	case http.StatusConflict:
		return KindAlreadyExists
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindUnknown
	}
}

func classifyOAuth(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return KindProviderRejected
	default:
		return KindUnknown
	}
}

func classifyProfile(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	default:
		return KindUnknown
	}
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload, out any, classify classifier) error {
	url := c.baseURL + c.prefix + endpoint

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode request body")
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")

	if c.tokens != nil {
		if token, ok, terr := c.tokens.Get(); terr == nil && ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "identity service unreachable").
			WithTextCode(TextCodeUnreachable)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "identity service unreachable").
			WithTextCode(TextCodeUnreachable)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return c.failure(res, raw, classify)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to decode response body").
				WithTextCode(TextCodeUnknown)
		}
	}
	return nil
}

// failure decodes an error body into the message/status/detail triple the
// state machine consumes. Non JSON bodies degrade to a raw text message.
func (c *Client) failure(res *http.Response, raw []byte, classify classifier) error {
	message, detail := decodeErrorBody(raw)
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", res.StatusCode)
	}

	kind := KindUnknown
	if classify != nil {
		kind = classify(res.StatusCode)
	}

	metadata := map[string]any{"status_code": res.StatusCode}
	if detail != nil {
		metadata["detail"] = detail
	}

	c.logger.Debug("identity service rejected request: status=%d kind=%s", res.StatusCode, kind)

	return newFailure(kind, message).WithMetadata(metadata)
}

func newFailure(kind Kind, message string) *goerrors.Error {
	switch kind {
	case KindInvalidCredentials:
		return goerrors.New(message, goerrors.CategoryAuth).
			WithTextCode(TextCodeInvalidCredentials).
			WithCode(goerrors.CodeUnauthorized)
	case KindAlreadyExists:
		return goerrors.New(message, goerrors.CategoryConflict).
			WithTextCode(TextCodeAlreadyExists).
			WithCode(goerrors.CodeConflict)
	case KindValidation:
		return goerrors.New(message, goerrors.CategoryValidation).
			WithTextCode(TextCodeValidation).
			WithCode(goerrors.CodeBadRequest)
	case KindProviderRejected:
		return goerrors.New(message, goerrors.CategoryAuth).
			WithTextCode(TextCodeProviderRejected).
			WithCode(goerrors.CodeUnauthorized)
	case KindUnauthorized:
		return goerrors.New(message, goerrors.CategoryAuth).
			WithTextCode(TextCodeUnauthorized).
			WithCode(goerrors.CodeUnauthorized)
	default:
		return goerrors.New(message, goerrors.CategoryInternal).
			WithTextCode(TextCodeUnknown)
	}
}

// decodeErrorBody extracts `detail` or `message` from a JSON error payload.
func decodeErrorBody(raw []byte) (string, map[string]any) {
	if len(raw) == 0 {
		return "", nil
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return strings.TrimSpace(string(raw)), nil
	}

	if detail, ok := payload["detail"].(string); ok && detail != "" {
		return detail, payload
	}
	if message, ok := payload["message"].(string); ok && message != "" {
		return message, payload
	}
	return "", payload
}
