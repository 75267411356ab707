package authclient

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/go-viper/mapstructure/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "AUTHCLIENT_"

// Config carries everything needed to assemble a session client.
type Config struct {
	// BaseURL is the identity service origin, e.g. http://localhost:2000
	BaseURL string `koanf:"baseUrl" json:"baseUrl" yaml:"baseUrl"`

	// APIPrefix is prepended to every endpoint path
	APIPrefix string `koanf:"apiPrefix" json:"apiPrefix" yaml:"apiPrefix"`

	// Timeout bounds each remote call
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout"`

	// TokenPath is where the credential file lives; empty means no
	// persistent storage (safe no-op store)
	TokenPath string `koanf:"tokenPath" json:"tokenPath" yaml:"tokenPath"`

	// RedirectTo is the access guard's target for unauthenticated visitors
	RedirectTo string `koanf:"redirectTo" json:"redirectTo" yaml:"redirectTo"`

	// OAuth holds per provider credentials, keyed by provider name
	OAuth map[string]OAuthProviderConfig `koanf:"oauth" json:"oauth" yaml:"oauth"`
}

// OAuthProviderConfig configures one third party provider.
type OAuthProviderConfig struct {
	ClientID     string   `koanf:"clientId" json:"clientId" yaml:"clientId"`
	ClientSecret string   `koanf:"clientSecret" json:"clientSecret" yaml:"clientSecret"`
	RedirectURL  string   `koanf:"redirectUrl" json:"redirectUrl" yaml:"redirectUrl"`
	Scopes       []string `koanf:"scopes" json:"scopes" yaml:"scopes"`
}

// DefaultConfig mirrors the defaults the hosted front end ships with.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "http://localhost:2000",
		APIPrefix:  "/api/v1",
		Timeout:    defaultTimeout,
		RedirectTo: DefaultRedirect,
	}
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.APIPrefix, validation.Required),
	)
}

// LoadConfig reads a YAML config file and overlays AUTHCLIENT_* environment
// variables (AUTHCLIENT_BASEURL, AUTHCLIENT_OAUTH_GOOGLE_CLIENTID, ...). The
// file may be absent as long as the environment provides what Validate
// requires.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read config file").
				WithMetadata(map[string]any{"path": path})
		}
	}

	existing := k.Raw()
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, envPrefix)
			return canonicalEnvKey(key, existing), value
		},
	}), nil); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to load environment")
	}

	cfg := DefaultConfig()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid configuration")
	}
	return cfg, nil
}

// canonicalEnvKey aligns each env var segment with the keys already loaded
// from the file, so AUTHCLIENT_BASEURL lands on baseUrl instead of creating a
// parallel baseurl key. Example: OAUTH_GOOGLE_CLIENTID -> oauth.google.clientId.
func canonicalEnvKey(raw string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(raw), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		matched := segment
		var next map[string]any
		for key, value := range current {
			if strings.EqualFold(key, segment) {
				matched = key
				next, _ = value.(map[string]any)
				break
			}
		}
		canonical = append(canonical, matched)
		current = next
	}

	return strings.Join(canonical, ".")
}

// FromConfig assembles the whole client side stack: file token store, HTTP
// identity service, session manager and access guard.
func FromConfig(cfg *Config, opts ...ManagerOption) (*SessionManager, *AccessGuard, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid configuration")
	}

	var tokens TokenStore
	if cfg.TokenPath != "" {
		tokens = NewFileTokenStore(cfg.TokenPath)
	} else {
		tokens = NoopTokenStore{}
	}

	service := NewClient(cfg.BaseURL, cfg.APIPrefix, tokens, WithTimeout(cfg.Timeout))
	manager := NewSessionManager(service, tokens, opts...)
	guard := NewAccessGuard(cfg.RedirectTo)

	return manager, guard, nil
}
