package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const grantTypeAuthorizationCode = "authorization_code"

// TokenExchange trades authorization codes for access tokens at the token endpoint.
// It is safe for concurrent use.
type TokenExchange struct {
	tokenURL   string
	httpClient *http.Client
	logger     Logger
	timeout    time.Duration
}

// NewTokenExchange creates a TokenExchange for the LinkedIn token endpoint,
// or for the endpoint given with WithEndpoint.
func NewTokenExchange(opts ...Option) *TokenExchange {
	return newTokenExchange(newClientConfig(opts...))
}

func newTokenExchange(cfg *clientConfig) *TokenExchange {
	return &TokenExchange{
		tokenURL:   cfg.endpoint.TokenURL,
		httpClient: cfg.httpClient,
		logger:     cfg.logger,
		timeout:    cfg.timeout,
	}
}

// Exchange sends one form-encoded POST to the token endpoint and returns the
// access token and its lifetime.
//
// A non-2xx answer fails with ErrKindAuthorizationRejected; a 2xx answer
// without an access_token fails with ErrKindTokenForbidden.
func (t *TokenExchange) Exchange(ctx context.Context, code, redirectURI, clientID, clientSecret string) (*TokenResult, error) {
	form := url.Values{
		"grant_type":    {grantTypeAuthorizationCode},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"client_id":     {clientID},
		"client_secret": {clientSecret},
	}

	send := validateResponse(OpExchange, http.MethodPost, t.tokenURL, t.timeout, t.logger, t.postForm(form))
	body, err := send(ctx)
	if err != nil {
		return nil, err
	}

	token, err := parseTokenResponse(body)
	if err != nil {
		return nil, err
	}

	t.logger.Debug("linkedin token exchanged",
		"expires_in", token.ExpiresIn,
	)

	return token, nil
}

func (t *TokenExchange) postForm(form url.Values) sendFunc {
	return func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.tokenURL, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")
		return t.httpClient.Do(req)
	}
}

// parseTokenResponse decodes a 2xx token endpoint body.
func parseTokenResponse(body []byte) (*TokenResult, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, newAuthError(ErrKindTokenForbidden, OpExchange, "",
			fmt.Sprintf("parse token response: %v", err), err)
	}

	accessToken, _ := raw["access_token"].(string)
	if accessToken == "" {
		if errCode, ok := raw["error"].(string); ok && errCode != "" {
			desc, _ := raw["error_description"].(string)
			ae := newAuthError(ErrKindAuthorizationRejected, OpExchange, errCode, errCode+": "+desc, nil)
			ae.Description = desc
			return nil, ae
		}
		return nil, newAuthError(ErrKindTokenForbidden, OpExchange, "",
			"token response has no access_token", nil)
	}

	expiresIn, err := parseExpiresIn(raw["expires_in"])
	if err != nil {
		return nil, newAuthError(ErrKindTokenForbidden, OpExchange, "",
			fmt.Sprintf("invalid expires_in in token response: %v", raw["expires_in"]), err)
	}

	token := &TokenResult{
		AccessToken: accessToken,
		ExpiresIn:   expiresIn,
		Raw:         raw,
	}
	if expiresIn > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(expiresIn) * time.Second)
	}
	return token, nil
}

// maxExpiresIn is the largest lifetime, in seconds, that fits a time.Duration.
const maxExpiresIn = math.MaxInt64 / int64(time.Second)

// parseExpiresIn converts a decoded expires_in value to whole seconds.
// A nil value yields 0. Fractional, negative and out-of-range values are
// rejected.
func parseExpiresIn(v any) (int, error) {
	var n int64
	switch x := v.(type) {
	case nil:
		return 0, nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("not an integer: %v", x)
		}
		if x < 0 || x > float64(maxExpiresIn) {
			return 0, fmt.Errorf("out of range: %v", x)
		}
		return int(x), nil
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, err
		}
		n = i
	case int:
		n = int64(x)
	case int64:
		n = x
	case string:
		i, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return 0, err
		}
		n = i
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
	if n < 0 || n > maxExpiresIn {
		return 0, fmt.Errorf("out of range: %d", n)
	}
	return int(n), nil
}
