package linkedin

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes the type of error that occurred during an OAuth operation.
type ErrorKind string

const (
	// ErrKindAuthorizationRejected indicates the provider rejected the authorization,
	// the callback state did not match, or the token/API endpoint answered with a
	// non-2xx status.
	ErrKindAuthorizationRejected ErrorKind = "authorization_rejected"
	// ErrKindAuthenticationRejected indicates an authentication-layer failure,
	// such as a request attempted without a bearer token.
	ErrKindAuthenticationRejected ErrorKind = "authentication_rejected"
	// ErrKindTokenForbidden indicates the token endpoint answered 2xx but the body
	// did not carry a usable access_token.
	ErrKindTokenForbidden ErrorKind = "token_forbidden"
	// ErrKindMalformedResponse indicates an API endpoint answered 2xx with a body
	// that is not a JSON object.
	ErrKindMalformedResponse ErrorKind = "malformed_response"
	// ErrKindNetwork indicates a network-level error (e.g. connection refused, timeout).
	ErrKindNetwork ErrorKind = "network"
)

// Codes set on AuthError.Code by the library itself. Provider supplied codes
// (e.g. "user_cancelled_login", "invalid_request") are passed through unchanged.
const (
	CodeStateMismatch = "state_mismatch"
	CodeMissingCode   = "missing_code"
)

// Operations recorded on AuthError.Op.
const (
	OpCallback = "callback"
	OpExchange = "exchange"
	OpRetrieve = "retrieve"
)

// AuthError represents a structured error from an OAuth or API operation.
type AuthError struct {
	// Kind categorizes the error.
	Kind ErrorKind
	// Op is the operation that failed: OpCallback, OpExchange or OpRetrieve.
	Op string
	// Code is the provider error code (the "error" field of an OAuth error
	// response or callback) or one of the library codes.
	Code string
	// Description is the provider's human-readable error description, if any.
	Description string
	// StatusCode is the HTTP status of the failed response, or 0 when no
	// response was received.
	StatusCode int
	// Message is a human-readable description of the error.
	// When an HTTP status code or request URL is available, it is included
	// in sanitized form (e.g. "HTTP 400, POST https://www.linkedin.com/oauth/v2/accessToken: ...").
	Message string
	// Err is the underlying error, if any.
	Err error
}

// Error returns the string representation of the error in the format:
//
//	"linkedin [op] kind: message"
func (e *AuthError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("linkedin %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("linkedin [%s] %s: %s", e.Op, e.Kind, e.Message)
}

// Unwrap returns the underlying error, allowing errors.Unwrap to traverse
// the error chain.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches this AuthError by Kind.
// This enables errors.Is to match AuthError values against sentinel errors.
func (e *AuthError) Is(target error) bool {
	if t, ok := target.(*AuthError); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinel errors for use with errors.Is. Each sentinel corresponds to an ErrorKind.
var (
	ErrAuthorizationRejected       = &AuthError{Kind: ErrKindAuthorizationRejected}
	ErrAuthenticationRejected      = &AuthError{Kind: ErrKindAuthenticationRejected}
	ErrAuthorizationTokenForbidden = &AuthError{Kind: ErrKindTokenForbidden}
	ErrMalformedResponse           = &AuthError{Kind: ErrKindMalformedResponse}
	ErrNetwork                     = &AuthError{Kind: ErrKindNetwork}
)

func newAuthError(kind ErrorKind, op, code, message string, err error) *AuthError {
	return &AuthError{
		Kind:    kind,
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Outcome is the terminal state of one authorization attempt.
type Outcome string

const (
	OutcomeTokenObtained  Outcome = "token_obtained"
	OutcomeRejected       Outcome = "rejected"
	OutcomeStateMismatch  Outcome = "state_mismatch"
	OutcomeExchangeFailed Outcome = "exchange_failed"
)

// OutcomeOf classifies the error returned by ProcessCallback into the terminal
// state the authorization attempt ended in. A nil error means the token was
// obtained. Errors that are not *AuthError are reported as exchange failures.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeTokenObtained
	}
	var ae *AuthError
	if !errors.As(err, &ae) {
		return OutcomeExchangeFailed
	}
	switch {
	case ae.Op == OpExchange:
		return OutcomeExchangeFailed
	case ae.Code == CodeStateMismatch:
		return OutcomeStateMismatch
	default:
		return OutcomeRejected
	}
}
