package linkedin

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/oauth2/endpoints"
)

// Authorization drives one authorization-code flow: it builds the consent URL
// and turns the provider callback into a TokenResult.
//
// The request is copied at construction; Authorization never changes it.
type Authorization struct {
	req      AuthorizationRequest
	authURL  string
	exchange *TokenExchange
	logger   Logger
}

// NewAuthorization creates an Authorization for req. Options configure the
// endpoints, HTTP client, timeout and logger used for the token exchange.
func NewAuthorization(req AuthorizationRequest, opts ...Option) *Authorization {
	cfg := newClientConfig(opts...)
	return &Authorization{
		req:      req,
		authURL:  cfg.endpoint.AuthURL,
		exchange: newTokenExchange(cfg),
		logger:   cfg.logger,
	}
}

// Request returns a copy of the authorization request.
func (a *Authorization) Request() AuthorizationRequest {
	return a.req
}

// AuthorizationURL returns the URL the user should be sent to.
func (a *Authorization) AuthorizationURL() string {
	return buildAuthorizationURL(a.authURL, a.req)
}

// AuthorizationURL returns the LinkedIn consent URL for req. It carries exactly
// response_type, client_id, redirect_uri, state and scope, in that order, even
// when some of them are empty.
func AuthorizationURL(req AuthorizationRequest) string {
	return buildAuthorizationURL(endpoints.LinkedIn.AuthURL, req)
}

func buildAuthorizationURL(endpoint string, req AuthorizationRequest) string {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sresponse_type=code&client_id=%s&redirect_uri=%s&state=%s&scope=%s",
		endpoint, sep,
		url.QueryEscape(req.ClientID),
		url.QueryEscape(req.RedirectURI),
		url.QueryEscape(req.State),
		url.QueryEscape(req.Scope),
	)
}

// ProcessCallback validates the provider callback and, when it is an approval
// for this request, exchanges the code for a token.
//
// The checks run in order and stop at the first failure:
//  1. a callback carrying an error is rejected with the provider's error fields;
//  2. a callback whose state differs from the request state is rejected with
//     CodeStateMismatch;
//  3. a callback without a code is rejected with CodeMissingCode.
//
// None of these touch the network. Only a callback that passes all three
// reaches the token endpoint.
func (a *Authorization) ProcessCallback(ctx context.Context, payload CallbackPayload) (*TokenResult, error) {
	if err := a.validateCallback(payload); err != nil {
		a.logger.Warn("linkedin callback rejected",
			"outcome", OutcomeOf(err),
			"error", err,
		)
		return nil, err
	}

	token, err := a.exchange.Exchange(ctx, payload.Code, a.req.RedirectURI, a.req.ClientID, a.req.ClientSecret)
	if err != nil {
		a.logger.Warn("linkedin token exchange failed", "outcome", OutcomeExchangeFailed, "error", err)
		return nil, err
	}

	a.logger.Info("linkedin token obtained", "outcome", OutcomeTokenObtained, "expires_in", token.ExpiresIn)
	return token, nil
}

func (a *Authorization) validateCallback(payload CallbackPayload) error {
	if payload.Rejected() {
		msg := payload.Error
		if payload.ErrorDescription != "" {
			msg += ": " + payload.ErrorDescription
		}
		ae := newAuthError(ErrKindAuthorizationRejected, OpCallback, payload.Error, msg, nil)
		ae.Description = payload.ErrorDescription
		return ae
	}

	if err := ValidateState(a.req.State, payload.State); err != nil {
		return err
	}

	if payload.Code == "" {
		return newAuthError(ErrKindAuthorizationRejected, OpCallback, CodeMissingCode,
			"callback carries neither code nor error", nil)
	}

	return nil
}
