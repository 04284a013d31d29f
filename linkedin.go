package linkedin

import (
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// DefaultScope is the scope requested when none is given.
const DefaultScope = "r_basicprofile"

// AuthorizationRequest holds everything needed for one authorization attempt.
// It is a value type; Authorization keeps its own copy.
type AuthorizationRequest struct {
	// RedirectURI is the client callback URL registered with LinkedIn.
	RedirectURI string
	// ClientID is the application's client id.
	ClientID string
	// ClientSecret is the application's client secret. It is sent only to the token endpoint.
	ClientSecret string
	// State is the caller-generated CSRF token echoed back by the provider.
	State string
	// Scope is the space separated list of requested permissions.
	Scope string
}

// NewAuthorizationRequest returns an AuthorizationRequest with Scope set to
// DefaultScope unless overridden by opts. No field is validated.
func NewAuthorizationRequest(redirectURI, clientID, clientSecret, state string, opts ...AuthOption) AuthorizationRequest {
	req := AuthorizationRequest{
		RedirectURI:  redirectURI,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		State:        state,
		Scope:        DefaultScope,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&req)
	}
	return req
}

// TokenResult is the access token obtained from a successful code exchange.
type TokenResult struct {
	// AccessToken is the bearer token used to access protected resources.
	AccessToken string
	// ExpiresIn is the number of seconds until the access token expires.
	ExpiresIn int
	// ExpiresAt is the absolute expiry, or the zero time when ExpiresIn is 0.
	ExpiresAt time.Time
	// Raw contains the decoded token response.
	Raw map[string]any
}

// IsExpired reports whether the token has expired.
// It returns true when ExpiresAt is the zero value or is not after the current time.
func (t *TokenResult) IsExpired() bool {
	return t.isExpiredAt(time.Now())
}

func (t *TokenResult) isExpiredAt(now time.Time) bool {
	return t.ExpiresAt.IsZero() || !t.ExpiresAt.After(now)
}

// OAuth2Token converts the result into an *oauth2.Token so it can be used
// with oauth2.StaticTokenSource or oauth2.NewClient.
func (t *TokenResult) OAuth2Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken: t.AccessToken,
		TokenType:   "Bearer",
		Expiry:      t.ExpiresAt,
	}
	if t.Raw != nil {
		tok = tok.WithExtra(t.Raw)
	}
	return tok
}

// maskToken masks a token string for safe display.
// If s is empty, it returns an empty string.
// If s has 4 or more characters, it returns the first 4 followed by "****".
// If s has fewer than 4 characters, it returns "****" to avoid leaking short values.
func maskToken(s string) string {
	if s == "" {
		return ""
	}
	if len(s) >= 4 {
		return s[:4] + "****"
	}
	return "****"
}

// String returns a sanitized string representation of the TokenResult.
func (t *TokenResult) String() string {
	return fmt.Sprintf("TokenResult{AccessToken:%q, ExpiresIn:%d, ExpiresAt:%s}",
		maskToken(t.AccessToken),
		t.ExpiresIn,
		t.ExpiresAt.Format(time.RFC3339),
	)
}
