package linkedin

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	"golang.org/x/text/language"
)

// DefaultTimeout bounds each token exchange and API request unless
// overridden with WithTimeout.
const DefaultTimeout = 60 * time.Second

// DefaultAPIBase is the root of the LinkedIn REST API used by the profile helpers.
const DefaultAPIBase = "https://api.linkedin.com/v1"

// Logger defines the interface for structured logging used by the library.
// Implementations should treat args as key-value pairs (e.g. "key1", val1, "key2", val2).
type Logger interface {
	// Debug logs a message at debug level.
	Debug(msg string, args ...any)
	// Info logs a message at info level.
	Info(msg string, args ...any)
	// Warn logs a message at warn level.
	Warn(msg string, args ...any)
	// Error logs a message at error level.
	Error(msg string, args ...any)
}

// noopLogger is a Logger that discards all log messages.
type noopLogger struct{}

func (n *noopLogger) Debug(msg string, args ...any) {}
func (n *noopLogger) Info(msg string, args ...any)  {}
func (n *noopLogger) Warn(msg string, args ...any)  {}
func (n *noopLogger) Error(msg string, args ...any) {}

// Option is a functional option for configuring Authorization, TokenExchange and Client.
type Option func(*clientConfig)

// clientConfig holds configuration shared by every component. It is built once
// at construction and never mutated afterwards.
type clientConfig struct {
	httpClient     *http.Client
	logger         Logger
	timeout        time.Duration
	endpoint       oauth2.Endpoint
	apiBase        string
	acceptLanguage string
}

// newClientConfig creates a new clientConfig with sensible defaults
// and applies the given options.
func newClientConfig(opts ...Option) *clientConfig {
	cfg := &clientConfig{
		logger:   &noopLogger{},
		timeout:  DefaultTimeout,
		endpoint: endpoints.LinkedIn,
		apiBase:  DefaultAPIBase,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = newDefaultHTTPClient(cfg.timeout)
	}
	return cfg
}

// WithHTTPClient returns an Option that sets the HTTP client used for all requests.
// If client is nil, the library default HTTP client is kept.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *clientConfig) {
		if client != nil {
			cfg.httpClient = client
		}
	}
}

// WithLogger returns an Option that sets the logger.
// If l is nil, a no-op logger is used.
func WithLogger(l Logger) Option {
	return func(cfg *clientConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithTimeout returns an Option that bounds every outbound request.
// Non-positive values keep DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) {
		if d > 0 {
			cfg.timeout = d
		}
	}
}

// WithEndpoint returns an Option that replaces the authorization and token
// endpoints. Empty URLs in e keep the LinkedIn defaults.
func WithEndpoint(e oauth2.Endpoint) Option {
	return func(cfg *clientConfig) {
		if e.AuthURL != "" {
			cfg.endpoint.AuthURL = e.AuthURL
		}
		if e.TokenURL != "" {
			cfg.endpoint.TokenURL = e.TokenURL
		}
	}
}

// WithAPIBase returns an Option that sets the API root used by RetrieveProfileData.
func WithAPIBase(base string) Option {
	return func(cfg *clientConfig) {
		if base != "" {
			cfg.apiBase = strings.TrimRight(base, "/")
		}
	}
}

// WithLanguages returns an Option that sends an Accept-Language header listing
// tags in order of preference, e.g. "es-ES, en-US, it-IT".
func WithLanguages(tags ...language.Tag) Option {
	return func(cfg *clientConfig) {
		parts := make([]string, 0, len(tags))
		for _, t := range tags {
			if t == language.Und {
				continue
			}
			parts = append(parts, t.String())
		}
		cfg.acceptLanguage = strings.Join(parts, ", ")
	}
}

// AuthOption is a functional option for configuring an AuthorizationRequest.
type AuthOption func(*AuthorizationRequest)

// WithScope returns an AuthOption that sets the OAuth scope.
// Multiple scopes are space separated, e.g. "r_basicprofile r_emailaddress".
func WithScope(scope string) AuthOption {
	return func(r *AuthorizationRequest) {
		r.Scope = scope
	}
}

// sensitiveKeys lists substrings that indicate a field value should be masked.
var sensitiveKeys = []string{"token", "secret", "key", "password", "code"}

// maskSensitive masks the value if the key contains a sensitive substring
// (case-insensitive). Sensitive values are returned as the first 4 characters
// followed by "****". If the value has fewer than 4 characters, "****" is returned.
// Non-sensitive values are returned unchanged.
func maskSensitive(key, value string) string {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			if len(value) >= 4 {
				return value[:4] + "****"
			}
			return "****"
		}
	}
	return value
}
