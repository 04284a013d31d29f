package linkedin

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// GenerateState generates a cryptographically random state string for use
// as a CSRF token in OAuth authorization flows. It returns a 43-character
// base64url-encoded (no padding) string derived from 32 random bytes.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ValidateState performs a timing-safe comparison of the state captured in the
// authorization request and the state echoed in the callback. The values must
// be byte-for-byte equal; no trimming or case folding is applied. It returns nil
// on a match and an AuthError of kind ErrKindAuthorizationRejected with Code
// CodeStateMismatch otherwise.
func ValidateState(expected, actual string) error {
	expectedHash := sha256.Sum256([]byte(expected))
	actualHash := sha256.Sum256([]byte(actual))
	if subtle.ConstantTimeCompare(expectedHash[:], actualHash[:]) != 1 {
		return newAuthError(ErrKindAuthorizationRejected, OpCallback, CodeStateMismatch,
			"state mismatch: callback state does not match the authorization request", nil)
	}
	return nil
}
