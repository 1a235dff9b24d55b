package services

import (
	"context"
	"fmt"
	"time"

	"github.com/decades-app/decades/internal/models"
	"github.com/decades-app/decades/internal/shared"
	"golang.org/x/oauth2"
)

// Scopes requested at login. Read scopes cover private and collaborative
// playlists; modify scopes are needed to create playlists from a selection.
var Scopes = []string{
	"playlist-read-private",
	"playlist-read-collaborative",
	"playlist-modify-public",
	"playlist-modify-private",
}

// SpotifyEndpoint is the authorization-code endpoint pair.
var SpotifyEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.spotify.com/authorize",
	TokenURL: spotifyTokenURL,
}

// NewOAuthConfig builds the authorization-code config for delegated login.
func NewOAuthConfig(clientID, clientSecret, redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       Scopes,
		Endpoint:     SpotifyEndpoint,
	}
}

// SessionCredentials implements [TokenProvider] for a logged-in session,
// refreshing the delegated access token through the session's refresh token
// when it has expired. Refreshed tokens are written back to the session so
// the caller can persist them.
type SessionCredentials struct {
	session   *models.Session
	config    *oauth2.Config
	refreshed bool

	now func() time.Time
}

// NewSessionCredentials wraps a session's delegated tokens.
func NewSessionCredentials(session *models.Session, config *oauth2.Config) *SessionCredentials {
	return &SessionCredentials{
		session: session,
		config:  config,
		now:     time.Now,
	}
}

// Session returns the wrapped session, carrying any refreshed tokens.
func (c *SessionCredentials) Session() *models.Session {
	return c.session
}

// Refreshed reports whether Token minted a fresh access token that the
// caller should persist.
func (c *SessionCredentials) Refreshed() bool {
	return c.refreshed
}

// Token returns the session's access token, refreshing it first when it is
// within the expiry buffer.
func (c *SessionCredentials) Token(ctx context.Context) (string, error) {
	if c.session == nil {
		return "", shared.ErrAuthRequired
	}
	if c.session.Expired(c.now()) {
		return "", shared.ErrAuthRequired
	}

	if c.now().Add(tokenExpiryBuffer).Before(c.session.TokenExpiresAt()) {
		return c.session.AccessToken(), nil
	}

	if c.session.RefreshToken() == "" {
		return "", shared.ErrTokenUnavailable
	}

	fresh, err := c.config.TokenSource(ctx, &oauth2.Token{
		RefreshToken: c.session.RefreshToken(),
	}).Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrTokenUnavailable, err)
	}

	c.session.SetTokens(fresh.AccessToken, fresh.RefreshToken, fresh.Expiry)
	c.refreshed = true
	return fresh.AccessToken, nil
}
