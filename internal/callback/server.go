// Package callback runs the local HTTP endpoint that receives the LinkedIn
// redirect and completes one authorization attempt.
package callback

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/simp-lee/linkedin"
	"github.com/simp-lee/linkedin/internal/logging"
)

// LoginPath redirects the browser to the authorization URL.
const LoginPath = "/login"

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Result is the terminal state of the authorization attempt.
type Result struct {
	Token *linkedin.TokenResult
	Err   error
}

// Server answers the redirect of a single Authorization. The first callback
// claims the attempt and decides the result; later callbacks get 409 without
// reaching the token endpoint.
type Server struct {
	auth    *linkedin.Authorization
	path    string
	logger  linkedin.Logger
	claimed atomic.Bool
	results chan Result
	router  *mux.Router
}

// NewServer creates a Server that expects the redirect at path, which must
// be absolute and differ from LoginPath.
func NewServer(auth *linkedin.Authorization, path string, logger linkedin.Logger) (*Server, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("callback path %q must start with /", path)
	}
	if path == LoginPath {
		return nil, fmt.Errorf("callback path %q is reserved for the login redirect", path)
	}
	if logger == nil {
		logger = logging.Zap(nil)
	}
	s := &Server{
		auth:    auth,
		path:    path,
		logger:  logger,
		results: make(chan Result, 1),
		router:  mux.NewRouter(),
	}
	s.router.HandleFunc(LoginPath, s.handleLogin).Methods(http.MethodGet)
	s.router.HandleFunc(path, s.handleCallback).Methods(http.MethodGet, http.MethodPost)
	return s, nil
}

// Handler returns the routed, request-logging handler.
func (s *Server) Handler() http.Handler {
	return logging.LogRequestHandler(s.logger, s.router)
}

// Results delivers the outcome of the first callback.
func (s *Server) Results() <-chan Result {
	return s.results
}

// Run serves on ln until the first callback has been processed or ctx is
// done, then shuts the listener down and returns that callback's result.
func (s *Server) Run(ctx context.Context, ln net.Listener) (*linkedin.TokenResult, error) {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	var res Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("callback server listening", "addr", ln.Addr().String(), "path", s.path)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve callback: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		select {
		case res = <-s.results:
		case <-gctx.Done():
			res.Err = gctx.Err()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown callback server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res.Token, res.Err
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.auth.AuthorizationURL(), http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	if !s.claimed.CompareAndSwap(false, true) {
		s.logger.Warn("callback ignored, attempt already claimed", "request_id", logging.RequestID(r.Context()))
		http.Error(w, "authorization already completed", http.StatusConflict)
		return
	}

	payload, err := linkedin.CallbackFromRequest(r)
	var token *linkedin.TokenResult
	if err == nil {
		token, err = s.auth.ProcessCallback(r.Context(), payload)
	}
	s.results <- Result{Token: token, Err: err}

	if err != nil {
		http.Error(w, fmt.Sprintf("authorization failed: %s", linkedin.OutcomeOf(err)), statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("LinkedIn authorization complete. You can close this window.\n"))
}

func statusFor(err error) int {
	switch linkedin.OutcomeOf(err) {
	case linkedin.OutcomeExchangeFailed:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}
