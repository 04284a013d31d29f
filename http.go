package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// newDefaultHTTPClient returns a new http.Client bounded by timeout.
func newDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// maskURL masks sensitive query parameter values in a URL for safe logging.
// Parameter values whose keys match sensitive substrings (token, secret, key, etc.)
// are masked using the same rules as maskSensitive.
// If the URL cannot be parsed, it is returned unchanged.
func maskURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if len(q) == 0 {
		return rawURL
	}
	// Built by hand so the masked asterisks stay readable.
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, key := range keys {
		for _, v := range q[key] {
			escapedValue := url.QueryEscape(maskSensitive(key, v))
			escapedValue = strings.ReplaceAll(escapedValue, "%2A", "*")
			parts = append(parts, url.QueryEscape(key)+"="+escapedValue)
		}
	}
	u.RawQuery = strings.Join(parts, "&")
	return u.String()
}

// maxResponseSize is the upper limit on HTTP response bodies read by readBody.
const maxResponseSize = 1 << 20 // 1 MB

// maxPreviewSize bounds how much of an error body is copied into AuthError.Message.
const maxPreviewSize = 200

// readBody reads the response body (up to maxResponseSize bytes) and closes it.
func readBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
}

// sendFunc issues exactly one outbound request and returns the raw response.
type sendFunc func(ctx context.Context) (*http.Response, error)

// validatedFunc is a sendFunc whose response has already been checked.
// It returns the body of a 2xx response or an *AuthError.
type validatedFunc func(ctx context.Context) ([]byte, error)

// validateResponse wraps send so that the caller never sees a raw response:
// transport failures become ErrKindNetwork, non-2xx statuses become
// ErrKindAuthorizationRejected carrying the status and the provider's error
// fields, and 2xx bodies are returned as-is. The timeout is applied as a
// context deadline around the whole round trip, including reading the body.
func validateResponse(op, method, rawURL string, timeout time.Duration, logger Logger, send sendFunc) validatedFunc {
	masked := maskURL(rawURL)
	return func(ctx context.Context) ([]byte, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		logger.Debug("HTTP request", "method", method, "url", masked)

		resp, err := send(ctx)
		if err != nil {
			return nil, newAuthError(ErrKindNetwork, op, "", fmt.Sprintf("%s %s: %v", method, masked, err), err)
		}

		logger.Debug("HTTP response", "method", method, "url", masked, "status", resp.StatusCode)

		body, err := readBody(resp)
		if err != nil {
			return nil, &AuthError{
				Kind:       ErrKindNetwork,
				Op:         op,
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("HTTP %d, %s %s: read body: %v", resp.StatusCode, method, masked, err),
				Err:        err,
			}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, rejectedResponse(op, method, masked, resp.StatusCode, body)
		}

		return body, nil
	}
}

// providerError is the union of the two error shapes LinkedIn returns:
// OAuth errors from the token endpoint and REST errors from the API.
type providerError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ErrorCode        any    `json:"errorCode"`
	ServiceErrorCode any    `json:"serviceErrorCode"`
	APIMessage       string `json:"message"`
}

// rejectedResponse converts a non-2xx response into an AuthError. When the body
// carries a recognizable provider error its fields are lifted into Code and
// Description; the message always starts with "HTTP <status>".
func rejectedResponse(op, method, maskedURL string, status int, body []byte) *AuthError {
	ae := &AuthError{
		Kind:       ErrKindAuthorizationRejected,
		Op:         op,
		StatusCode: status,
	}

	var pe providerError
	if err := json.Unmarshal(body, &pe); err == nil {
		switch {
		case pe.Error != "":
			ae.Code = pe.Error
			ae.Description = pe.ErrorDescription
		case pe.APIMessage != "":
			ae.Description = pe.APIMessage
			if pe.ServiceErrorCode != nil {
				ae.Code = fmt.Sprintf("%v", pe.ServiceErrorCode)
			} else if pe.ErrorCode != nil {
				ae.Code = fmt.Sprintf("%v", pe.ErrorCode)
			}
		}
	}

	detail := ae.Description
	if detail == "" {
		detail = preview(body)
	}
	if ae.Code != "" {
		detail = ae.Code + ": " + detail
	}
	ae.Message = fmt.Sprintf("HTTP %d, %s %s: %s", status, method, maskedURL, detail)
	return ae
}

// preview returns at most maxPreviewSize bytes of body for error messages.
func preview(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxPreviewSize {
		s = s[:maxPreviewSize] + "..."
	}
	return s
}
