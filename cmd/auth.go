package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"duesync/internal/server"
	"duesync/internal/settings"
	"duesync/internal/shared"

	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// AuthClickUp performs the OAuth2 authorization-code flow against ClickUp.
//
// Starts a local HTTP server, opens the browser for user authorization, and
// exchanges the auth code for an access token persisted in settings.
func (r *Runner) AuthClickUp(ctx context.Context, cmd *cli.Command) error {
	creds := r.config.Credentials.ClickUp
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return fmt.Errorf("%w: ClickUp client_id and client_secret must be set in config.toml", shared.ErrInvalidArgument)
	}

	redirectURI := creds.RedirectURI
	if redirectURI == "" {
		redirectURI = fmt.Sprintf("http://%s:%d/callback", r.config.Server.Host, r.config.Server.Port)
	}

	oauthConfig := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  redirectURI,
		Endpoint:     server.ClickUpEndpoint,
	}

	token, err := r.doOAuth(oauthConfig, "authorization")
	if err != nil {
		return err
	}

	if err := r.store.Mutate(func(doc *settings.Document) error {
		doc.Settings.ClickUpKey = token.AccessToken
		return nil
	}); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Token saved to %s\n\n", r.store.Path())
	r.writePlain("You can now use: duesync clickup spaces\n")

	return nil
}

// AuthKeySet stores an API key for canvas or clickup in the settings document.
func (r *Runner) AuthKeySet(ctx context.Context, cmd *cli.Command) error {
	service := cmd.StringArg("service")
	key := cmd.String("key")

	if key == "" {
		return fmt.Errorf("%w: --key is required", shared.ErrMissingArgument)
	}

	switch service {
	case "canvas":
		if err := r.store.Mutate(func(doc *settings.Document) error {
			doc.Settings.CanvasKey = key
			return nil
		}); err != nil {
			return err
		}
	case "clickup":
		defaultSpace := cmd.String("default-space")
		if err := r.store.Mutate(func(doc *settings.Document) error {
			doc.Settings.ClickUpKey = key
			if defaultSpace != "" {
				doc.Settings.ClickUp.DefaultSpaceID = defaultSpace
			}
			return nil
		}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown service %q (expected canvas or clickup)", shared.ErrInvalidArgument, service)
	}

	r.logger.Info("api key saved", "service", service)
	return r.writePlain("✓ %s key saved\n", service)
}

// AuthStatus reports which credentials are configured.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	doc, err := r.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	canvasSet := doc.Settings.CanvasKey != "" || r.config.Credentials.Canvas.Token != ""
	clickupSet := doc.Settings.ClickUpKey != "" || r.config.Credentials.ClickUp.Token != ""

	r.writePlain("Canvas key: %s\n", checkmark(canvasSet))
	r.writePlain("ClickUp key: %s\n", checkmark(clickupSet))
	if doc.Settings.ClickUp.TeamID != "" {
		r.writePlain("ClickUp team: %s (user %s)\n", doc.Settings.ClickUp.TeamID, doc.Settings.ClickUp.UserID)
	}
	if doc.Settings.ClickUp.DefaultSpaceID != "" {
		r.writePlain("Default space: %s\n", doc.Settings.ClickUp.DefaultSpaceID)
	}

	return nil
}

func checkmark(set bool) string {
	if set {
		return "✓ configured"
	}
	return "✗ not set"
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(oauthConfig *oauth2.Config, prefix string) (*oauth2.Token, error) {
	state := shared.GenerateID()
	authURL := oauthConfig.AuthCodeURL(state)

	oauthHandler := server.NewOAuthHandler(oauthConfig, state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth server for %s at %v", prefix, serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for ClickUp %s...\n", prefix)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}
