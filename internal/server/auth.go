package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/decades-app/decades/internal/models"
	"github.com/decades-app/decades/internal/repositories"
	"github.com/decades-app/decades/internal/services"
	"github.com/decades-app/decades/internal/shared"
	"golang.org/x/oauth2"
)

const (
	sessionCookie = "decades_session"
	stateCookie   = "decades_oauth_state"

	stateTTL = 10 * time.Minute
)

// AuthHandler implements the web login flow: it redirects the browser to
// the authorization page, exchanges the callback code, and persists the
// delegated tokens as a session behind an HttpOnly cookie.
type AuthHandler struct {
	config   *oauth2.Config
	catalog  services.Catalog
	users    *repositories.UserRepository
	sessions *repositories.SessionRepository
	logger   *log.Logger
}

// NewAuthHandler creates the web OAuth handler.
func NewAuthHandler(config *oauth2.Config, catalog services.Catalog, users *repositories.UserRepository, sessions *repositories.SessionRepository, logger *log.Logger) *AuthHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &AuthHandler{
		config:   config,
		catalog:  catalog,
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{
		"GET /auth/login",
		"GET /auth/callback",
		"POST /auth/logout",
	}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/auth/login":
		h.login(w, r)
	case "/auth/callback":
		h.callback(w, r)
	case "/auth/logout":
		h.logout(w, r)
	default:
		http.NotFound(w, r)
	}
}

// login sets a state cookie and redirects to the authorization page.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	state := shared.GenerateID()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth",
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.config.AuthCodeURL(state), http.StatusFound)
}

// callback validates state, exchanges the code, and establishes a session.
func (h *AuthHandler) callback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("token exchange failed", "error", err)
		writeError(w, shared.ErrTokenExchange)
		return
	}

	profile, err := h.catalog.UserProfile(r.Context(), token.AccessToken)
	if err != nil {
		h.logger.Error("profile fetch failed", "error", err)
		writeError(w, err)
		return
	}

	user, err := h.users.GetBySpotifyID(profile.ID)
	if err != nil {
		user = models.NewUser(profile.ID, profile.DisplayName)
		if err := h.users.Create(user); err != nil {
			h.logger.Error("user create failed", "error", err)
			writeError(w, shared.ErrUpstream)
			return
		}
	} else if user.DisplayName() != profile.DisplayName {
		user.SetDisplayName(profile.DisplayName)
		if err := h.users.Update(user); err != nil {
			h.logger.Error("user update failed", "error", err)
		}
	}

	session := models.NewSession(user.ID(), token.AccessToken, token.RefreshToken, token.Expiry)
	if err := h.sessions.Create(session); err != nil {
		h.logger.Error("session create failed", "error", err)
		writeError(w, shared.ErrUpstream)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.ID(),
		Path:     "/",
		Expires:  session.ExpiresAt(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/auth", MaxAge: -1})

	http.Redirect(w, r, "/", http.StatusFound)
}

// logout deletes the session and clears the cookie.
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(cookie.Value); err != nil && !errors.Is(err, shared.ErrSessionNotFound) {
			h.logger.Error("session delete failed", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

// sessionFromRequest loads the request's session, refreshing its delegated
// token and persisting the refresh when one happens. Returns
// shared.ErrAuthRequired when there is no usable session.
func sessionFromRequest(r *http.Request, sessions *repositories.SessionRepository, config *oauth2.Config) (*services.SessionCredentials, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, shared.ErrAuthRequired
	}

	session, err := sessions.Get(cookie.Value)
	if err != nil {
		return nil, shared.ErrAuthRequired
	}
	if session.Expired(time.Now()) {
		return nil, shared.ErrAuthRequired
	}

	return services.NewSessionCredentials(session, config), nil
}
