// Command linkedin-login walks through the LinkedIn authorization-code flow on
// a local callback server and prints the member profile as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/simp-lee/linkedin"
	"github.com/simp-lee/linkedin/internal/callback"
	"github.com/simp-lee/linkedin/internal/config"
	"github.com/simp-lee/linkedin/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(cfg.LogBackend, cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	state, err := linkedin.GenerateState()
	if err != nil {
		return err
	}

	opts := []linkedin.Option{
		linkedin.WithLogger(logger),
		linkedin.WithTimeout(cfg.Timeout),
		linkedin.WithLanguages(cfg.Languages...),
	}
	req := linkedin.NewAuthorizationRequest(cfg.RedirectURL, cfg.ClientID, cfg.ClientSecret, state,
		linkedin.WithScope(cfg.Scope))
	auth := linkedin.NewAuthorization(req, opts...)

	srv, err := callback.NewServer(auth, cfg.CallbackPath(), logger)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.ListenAddr, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Open this URL in your browser:\n\n  %s\n\n", auth.AuthorizationURL())

	token, err := srv.Run(ctx, ln)
	if err != nil {
		logger.Error("authorization failed", "outcome", linkedin.OutcomeOf(err), "error", err)
		return err
	}
	logger.Info("authorization complete", "token", token.String())

	profile, err := linkedin.NewClient(opts...).RetrieveProfileData(ctx, token.AccessToken, cfg.ProfileFields)
	if err != nil {
		logger.Error("profile request failed", "error", err)
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(profile)
}
