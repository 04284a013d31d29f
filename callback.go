package linkedin

import (
	"net/http"
	"net/url"
)

// CallbackPayload is what LinkedIn sends to the redirect URI after the user
// answers the consent screen. Empty fields are absent. On approval Code and
// State are set; on rejection Error, ErrorDescription and State are set.
type CallbackPayload struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// Rejected reports whether the provider signalled an error.
func (p CallbackPayload) Rejected() bool {
	return p.Error != ""
}

// ParseCallback extracts a CallbackPayload from redirect query parameters.
func ParseCallback(values url.Values) CallbackPayload {
	return CallbackPayload{
		Code:             values.Get("code"),
		State:            values.Get("state"),
		Error:            values.Get("error"),
		ErrorDescription: values.Get("error_description"),
	}
}

// CallbackFromRequest extracts a CallbackPayload from the redirect request.
// Query parameters and form-encoded bodies are both accepted.
func CallbackFromRequest(r *http.Request) (CallbackPayload, error) {
	if err := r.ParseForm(); err != nil {
		return CallbackPayload{}, newAuthError(ErrKindAuthorizationRejected, OpCallback, "", "parse callback: "+err.Error(), err)
	}
	return ParseCallback(r.Form), nil
}
