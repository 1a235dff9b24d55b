package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/decades-app/decades/internal/models"
	"github.com/decades-app/decades/internal/repositories"
	"github.com/decades-app/decades/internal/server"
	"github.com/decades-app/decades/internal/services"
	"github.com/decades-app/decades/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// oauthTimeout bounds the CLI login flow's wait for the browser callback.
const oauthTimeout = 2 * time.Minute

// sessionPath returns the file holding the CLI's current session ID.
func sessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".decades", "session"), nil
}

func readSessionID() (string, error) {
	path, err := sessionPath()
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: run 'decades auth login' first", shared.ErrAuthRequired)
	}
	return string(data), nil
}

func writeSessionID(id string) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(id), 0600); err != nil {
		return fmt.Errorf("failed to save session file: %w", err)
	}
	return nil
}

// oauthConfig builds the authorization-code config from the loaded config,
// defaulting the redirect to the server's own callback route.
func oauthConfig(config *shared.Config) *oauth2.Config {
	redirectURI := config.Credentials.Spotify.RedirectURI
	if redirectURI == "" {
		redirectURI = config.Server.Origin() + "/auth/callback"
	}
	return services.NewOAuthConfig(
		config.Credentials.Spotify.ClientID,
		config.Credentials.Spotify.ClientSecret,
		redirectURI,
	)
}

// sessionCredentials loads the stored CLI session and wraps it as a token
// provider. The caller owns the returned database handle.
func sessionCredentials(config *shared.Config) (*services.SessionCredentials, *repositories.SessionRepository, *sql.DB, error) {
	sessionID, err := readSessionID()
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := openDatabase(config)
	if err != nil {
		return nil, nil, nil, err
	}

	sessions := repositories.NewSessionRepository(db)
	session, err := sessions.Get(sessionID)
	if err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("%w: run 'decades auth login' again", shared.ErrAuthRequired)
	}

	return services.NewSessionCredentials(session, oauthConfig(config)), sessions, db, nil
}

// persistRefresh writes refreshed delegated tokens back to the session store.
func (r *Runner) persistRefresh(creds *services.SessionCredentials, sessions *repositories.SessionRepository) {
	if !creds.Refreshed() {
		return
	}
	if err := sessions.Update(creds.Session()); err != nil {
		r.logger.Warn("failed to persist refreshed tokens", "error", err)
	}
}

// AuthLogin performs the OAuth2 authorization-code flow for Spotify.
//
// Starts a local HTTP server, opens the browser for user consent, exchanges
// the code for tokens, and stores the resulting session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd, false)

	if config.Credentials.Spotify.ClientID == "" || config.Credentials.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: set credentials.spotify in config.toml", shared.ErrMissingCredentials)
	}

	token, err := r.doOAuth(config)
	if err != nil {
		return err
	}

	profile, err := r.catalog.UserProfile(ctx, token.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	db, err := openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	users := repositories.NewUserRepository(db)
	sessions := repositories.NewSessionRepository(db)

	user, err := users.GetBySpotifyID(profile.ID)
	if err != nil {
		user = models.NewUser(profile.ID, profile.DisplayName)
		if err := users.Create(user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
	} else if user.DisplayName() != profile.DisplayName {
		user.SetDisplayName(profile.DisplayName)
		if err := users.Update(user); err != nil {
			r.logger.Warn("failed to update display name", "error", err)
		}
	}

	session := models.NewSession(user.ID(), token.AccessToken, token.RefreshToken, token.Expiry)
	if err := sessions.Create(session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	if err := writeSessionID(session.ID()); err != nil {
		return err
	}

	r.writePlainln("✓ Logged in as %s", profile.DisplayName)
	r.writePlain("You can now use: decades playlists\n")

	return nil
}

// AuthStatus reports the stored session's validity.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd, false)

	sessionID, err := readSessionID()
	if err != nil {
		return r.writePlain("✗ Not logged in\n")
	}

	db, err := openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	session, err := repositories.NewSessionRepository(db).Get(sessionID)
	if err != nil {
		return r.writePlain("✗ Session not found, run 'decades auth login'\n")
	}

	if session.Expired(time.Now()) {
		return r.writePlain("✗ Session expired, run 'decades auth login'\n")
	}

	user, err := repositories.NewUserRepository(db).Get(session.UserID())
	if err != nil {
		return r.writePlain("✓ Logged in (session expires %s)\n", session.ExpiresAt().Format(time.DateOnly))
	}

	r.writePlain("✓ Logged in as %s\n", user.DisplayName())
	r.writePlain("Session expires: %s\n", session.ExpiresAt().Format(time.DateOnly))
	r.writePlain("Access token expires: %s\n", session.TokenExpiresAt().Format(time.RFC3339))

	return nil
}

// AuthLogout deletes the stored session and its file.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd, false)

	sessionID, err := readSessionID()
	if err != nil {
		return r.writePlain("Not logged in\n")
	}

	if db, err := openDatabase(config); err == nil {
		if err := repositories.NewSessionRepository(db).Delete(sessionID); err != nil {
			r.logger.Warn("failed to delete session", "error", err)
		}
		db.Close()
	}

	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}

	return r.writePlain("✓ Logged out\n")
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(config *shared.Config) (*oauth2.Token, error) {
	state := shared.GenerateID()
	oauthCfg := oauthConfig(config)

	authURL := oauthCfg.AuthCodeURL(state)
	oauthHandler := server.NewOAuthHandler(oauthCfg, state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	httpServer := &http.Server{
		Addr:    config.Server.Addr(),
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(oauthTimeout)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("authorization timed out after %v", oauthTimeout)
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
