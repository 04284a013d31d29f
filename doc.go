// Package linkedin is an OAuth2 client library for the LinkedIn API.
//
// It builds the authorization URL, validates the provider callback against
// the CSRF state of the originating request, exchanges the authorization code
// for an access token, and issues bearer-authenticated requests against the
// profile endpoints.
//
// # Quick Start
//
//	// 1. Describe the authorization attempt.
//	state, err := linkedin.GenerateState()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	req := linkedin.NewAuthorizationRequest(redirectURL, clientID, clientSecret, state)
//	auth := linkedin.NewAuthorization(req)
//
//	// 2. Redirect the user.
//	http.Redirect(w, r, auth.AuthorizationURL(), http.StatusFound)
//
//	// 3. In the callback handler, turn the callback into a token.
//	payload, err := linkedin.CallbackFromRequest(r)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	token, err := auth.ProcessCallback(ctx, payload)
//	if err != nil {
//	    var authErr *linkedin.AuthError
//	    if errors.As(err, &authErr) {
//	        log.Printf("kind=%s code=%s status=%d", authErr.Kind, authErr.Code, authErr.StatusCode)
//	    }
//	    log.Fatal(err)
//	}
//
//	// 4. Read the profile.
//	client := linkedin.NewClient()
//	profile, err := client.RetrieveProfileData(ctx, token.AccessToken, linkedin.ProfileFieldsBasic)
//
// # Error Handling
//
// Every error returned by the library is an [*AuthError]. Its Kind tells the
// failure classes apart and sentinels such as [ErrAuthorizationRejected] and
// [ErrAuthorizationTokenForbidden] work with [errors.Is]. [OutcomeOf] maps a
// ProcessCallback error to the terminal state of the authorization attempt.
//
// # Options
//
//	client := linkedin.NewClient(
//	    linkedin.WithHTTPClient(customClient),
//	    linkedin.WithTimeout(10*time.Second),
//	    linkedin.WithLanguages(language.MustParse("en-US")),
//	    linkedin.WithLogger(myLogger),
//	)
package linkedin
