package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// Client issues bearer-authenticated requests against the LinkedIn API and
// validates every response the same way the token exchange does.
// It is safe for concurrent use; the token is supplied per call.
type Client struct {
	httpClient     *http.Client
	logger         Logger
	timeout        time.Duration
	apiBase        string
	acceptLanguage string
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	cfg := newClientConfig(opts...)
	return &Client{
		httpClient:     cfg.httpClient,
		logger:         cfg.logger,
		timeout:        cfg.timeout,
		apiBase:        cfg.apiBase,
		acceptLanguage: cfg.acceptLanguage,
	}
}

// Retrieve sends a GET to rawURL with token and returns the decoded JSON object.
func (c *Client) Retrieve(ctx context.Context, token, rawURL string) (map[string]any, error) {
	return c.Do(ctx, token, http.MethodGet, rawURL)
}

// Do sends a bodyless request with the given method to rawURL with token
// and returns the decoded JSON object. An empty 2xx body yields a nil map.
//
// A non-2xx answer fails with ErrKindAuthorizationRejected carrying the
// status and body; a 2xx body that is not a JSON object fails with
// ErrKindMalformedResponse. An empty token fails with
// ErrKindAuthenticationRejected before anything is sent.
func (c *Client) Do(ctx context.Context, token, method, rawURL string) (map[string]any, error) {
	if token == "" {
		return nil, newAuthError(ErrKindAuthenticationRejected, OpRetrieve, "", "bearer token must not be empty", nil)
	}
	if method == "" {
		method = http.MethodGet
	}

	send := validateResponse(OpRetrieve, method, rawURL, c.timeout, c.logger, c.send(token, method, rawURL))
	body, err := send(ctx)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, newAuthError(ErrKindMalformedResponse, OpRetrieve, "",
			fmt.Sprintf("%s %s: decode response: %v", method, maskURL(rawURL), err), err)
	}
	return data, nil
}

func (c *Client) send(token, method, rawURL string) sendFunc {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return func(ctx context.Context) (*http.Response, error) {
		tok, err := src.Token()
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
		if err != nil {
			return nil, err
		}
		// Set on the request, not the transport, so http.Client drops it
		// on redirects to another host.
		tok.SetAuthHeader(req)
		req.Header.Set("Accept", "application/json")
		if c.acceptLanguage != "" {
			req.Header.Set("Accept-Language", c.acceptLanguage)
		}
		return c.httpClient.Do(req)
	}
}
