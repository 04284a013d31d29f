package callback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/simp-lee/linkedin"
)

const (
	testState       = "DCEeFWf45A53sdfKef424"
	testRedirectURI = "http://localhost:8000/authorize/"
	testPath        = "/authorize/"
)

func tokenServer(t *testing.T, status int, body string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testAuthorization(tokenURL string) *linkedin.Authorization {
	req := linkedin.NewAuthorizationRequest(testRedirectURI, "client", "secret", testState)
	return linkedin.NewAuthorization(req, linkedin.WithEndpoint(oauth2.Endpoint{
		AuthURL:  "https://www.linkedin.com/oauth/v2/authorization",
		TokenURL: tokenURL,
	}))
}

func testServer(t *testing.T, tokenURL string) *Server {
	t.Helper()
	s, err := NewServer(testAuthorization(tokenURL), testPath, nil)
	require.NoError(t, err)
	return s
}

func TestHandler_Login(t *testing.T) {
	s := testServer(t, "http://127.0.0.1:1/token")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, LoginPath, nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	loc := rec.Header().Get("Location")
	assert.True(t, strings.HasPrefix(loc, "https://www.linkedin.com/oauth/v2/authorization?response_type=code"))
	assert.Contains(t, loc, "state="+testState)
}

func TestHandler_Success(t *testing.T) {
	var hits int32
	ts := tokenServer(t, http.StatusOK, `{"access_token":"AQX","expires_in":5183999}`, &hits)
	s := testServer(t, ts.URL)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, testPath+"?code=abc&state="+testState, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "authorization complete")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	res := <-s.Results()
	require.NoError(t, res.Err)
	assert.Equal(t, "AQX", res.Token.AccessToken)
	assert.Equal(t, 5183999, res.Token.ExpiresIn)
}

func TestHandler_Failures(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		tokenCode  int
		wantStatus int
		wantHits   int32
		want       linkedin.Outcome
	}{
		{"user denied", "error=user_cancelled_login&error_description=denied&state=" + testState, http.StatusOK, http.StatusBadRequest, 0, linkedin.OutcomeRejected},
		{"state mismatch", "code=abc&state=forged", http.StatusOK, http.StatusBadRequest, 0, linkedin.OutcomeStateMismatch},
		{"missing code", "state=" + testState, http.StatusOK, http.StatusBadRequest, 0, linkedin.OutcomeRejected},
		{"exchange rejected", "code=abc&state=" + testState, http.StatusBadRequest, http.StatusBadGateway, 1, linkedin.OutcomeExchangeFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits int32
			ts := tokenServer(t, tt.tokenCode, `{"error":"invalid_request","error_description":"bad code"}`, &hits)
			s := testServer(t, ts.URL)

			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, testPath+"?"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), string(tt.want))
			assert.Equal(t, tt.wantHits, atomic.LoadInt32(&hits))

			res := <-s.Results()
			require.Error(t, res.Err)
			assert.Nil(t, res.Token)
			assert.Equal(t, tt.want, linkedin.OutcomeOf(res.Err))
		})
	}
}

func TestHandler_SecondCallbackIgnored(t *testing.T) {
	var hits int32
	ts := tokenServer(t, http.StatusOK, `{"access_token":"AQX","expires_in":60}`, &hits)
	s := testServer(t, ts.URL)
	h := s.Handler()

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, testPath+"?code=abc&state="+testState, nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, testPath+"?code=abc&state="+testState, nil))
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	res := <-s.Results()
	require.NoError(t, res.Err)
	assert.Equal(t, "AQX", res.Token.AccessToken)
}

func TestHandler_FailedCallbackStillClaims(t *testing.T) {
	var hits int32
	ts := tokenServer(t, http.StatusOK, `{"access_token":"AQX","expires_in":60}`, &hits)
	s := testServer(t, ts.URL)
	h := s.Handler()

	forged := httptest.NewRecorder()
	h.ServeHTTP(forged, httptest.NewRequest(http.MethodGet, testPath+"?code=abc&state=forged", nil))
	require.Equal(t, http.StatusBadRequest, forged.Code)

	valid := httptest.NewRecorder()
	h.ServeHTTP(valid, httptest.NewRequest(http.MethodGet, testPath+"?code=abc&state="+testState, nil))
	assert.Equal(t, http.StatusConflict, valid.Code)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))

	res := <-s.Results()
	assert.Equal(t, linkedin.OutcomeStateMismatch, linkedin.OutcomeOf(res.Err))
}

func TestHandler_ConcurrentCallbacksExchangeOnce(t *testing.T) {
	var hits int32
	ts := tokenServer(t, http.StatusOK, `{"access_token":"AQX","expires_in":60}`, &hits)
	s := testServer(t, ts.URL)
	h := s.Handler()

	const n = 8
	codes := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, testPath+"?code=abc&state="+testState, nil))
			codes <- rec.Code
		}()
	}
	wg.Wait()
	close(codes)

	var ok, conflict int
	for c := range codes {
		switch c {
		case http.StatusOK:
			ok++
		case http.StatusConflict:
			conflict++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflict)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestNewServer_InvalidPath(t *testing.T) {
	for _, path := range []string{LoginPath, "authorize/", ""} {
		t.Run(path, func(t *testing.T) {
			s, err := NewServer(testAuthorization("http://127.0.0.1:1/token"), path, nil)
			assert.Error(t, err)
			assert.Nil(t, s)
		})
	}
}

func TestHandler_UnknownPath(t *testing.T) {
	s := testServer(t, "http://127.0.0.1:1/token")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/elsewhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRun_DeliversToken(t *testing.T) {
	var hits int32
	ts := tokenServer(t, http.StatusOK, `{"access_token":"AQX","expires_in":60}`, &hits)
	s := testServer(t, ts.URL)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	type runResult struct {
		token *linkedin.TokenResult
		err   error
	}
	done := make(chan runResult, 1)
	go func() {
		token, err := s.Run(context.Background(), ln)
		done <- runResult{token, err}
	}()

	q := url.Values{"code": {"abc"}, "state": {testState}}
	resp, err := http.Get(fmt.Sprintf("http://%s%s?%s", ln.Addr(), testPath, q.Encode()))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.Equal(t, "AQX", r.token.AccessToken)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the callback")
	}
}

func TestRun_ContextCanceled(t *testing.T) {
	s := testServer(t, "http://127.0.0.1:1/token")
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	token, err := s.Run(ctx, ln)
	assert.Nil(t, token)
	assert.True(t, errors.Is(err, context.Canceled))
}
