package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/decades-app/decades/internal/repositories"
	"github.com/decades-app/decades/internal/services"
	"github.com/decades-app/decades/internal/shared"
	"github.com/decades-app/decades/internal/tasks"
	"golang.org/x/oauth2"
)

// errorResponse is the JSON error body shared by all API endpoints.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps a sentinel error onto an HTTP status and JSON body.
//
// Anything outside the client-error taxonomy, upstream failures included,
// is a plain 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, shared.ErrInvalidPlaylistID), errors.Is(err, shared.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, shared.ErrAuthRequired), errors.Is(err, shared.ErrTokenUnavailable):
		status = http.StatusUnauthorized
	case errors.Is(err, shared.ErrAccessDenied):
		status = http.StatusForbidden
	case errors.Is(err, shared.ErrPlaylistNotFound):
		status = http.StatusNotFound
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// PlaylistHandler serves the playlist analysis and creation API.
//
// Analysis works anonymously through the application token; a session, when
// present, takes precedence so private playlists resolve for their owner.
// The library and create endpoints require a session.
type PlaylistHandler struct {
	catalog   services.Catalog
	appTokens services.TokenProvider
	sessions  *repositories.SessionRepository
	oauth     *oauth2.Config
	logger    *log.Logger
}

// NewPlaylistHandler creates the API handler.
func NewPlaylistHandler(catalog services.Catalog, appTokens services.TokenProvider, sessions *repositories.SessionRepository, oauth *oauth2.Config, logger *log.Logger) *PlaylistHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PlaylistHandler{
		catalog:   catalog,
		appTokens: appTokens,
		sessions:  sessions,
		oauth:     oauth,
		logger:    logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *PlaylistHandler) Routes() []string {
	return []string{
		"GET /api/playlist/{id}",
		"GET /api/me/playlists",
		"POST /api/playlist/create",
	}
}

func (h *PlaylistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/me/playlists":
		h.userPlaylists(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/api/playlist/create":
		h.create(w, r)
	default:
		// A GET of /api/playlist/create lands here: "create" is treated
		// as a playlist identifier and rejected like any other bad one.
		h.analyze(w, r)
	}
}

// tokenProvider picks the session credential when the request carries a
// valid session, falling back to the shared application token.
func (h *PlaylistHandler) tokenProvider(r *http.Request) (services.TokenProvider, *services.SessionCredentials) {
	creds, err := sessionFromRequest(r, h.sessions, h.oauth)
	if err != nil {
		return h.appTokens, nil
	}
	return creds, creds
}

// persistRefresh writes back a session whose tokens were refreshed mid-request.
func (h *PlaylistHandler) persistRefresh(creds *services.SessionCredentials) {
	if creds == nil || !creds.Refreshed() {
		return
	}
	if err := h.sessions.Update(creds.Session()); err != nil {
		h.logger.Error("failed to persist refreshed session", "error", err)
	}
}

// analyze handles GET /api/playlist/{id}.
func (h *PlaylistHandler) analyze(w http.ResponseWriter, r *http.Request) {
	tokens, creds := h.tokenProvider(r)
	engine := tasks.NewPlaylistEngine(h.catalog, tokens)

	data, err := engine.Analyze(r.Context(), nil, r.PathValue("id"))
	h.persistRefresh(creds)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}

// userPlaylists handles GET /api/me/playlists.
func (h *PlaylistHandler) userPlaylists(w http.ResponseWriter, r *http.Request) {
	creds, err := sessionFromRequest(r, h.sessions, h.oauth)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := creds.Token(r.Context())
	h.persistRefresh(creds)
	if err != nil {
		writeError(w, err)
		return
	}

	playlists, err := h.catalog.UserPlaylists(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"playlists": playlists})
}

// createRequestBody is the JSON body of POST /api/playlist/create.
type createRequestBody struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TrackURIs   []string `json:"trackUris"`
}

// create handles POST /api/playlist/create.
func (h *PlaylistHandler) create(w http.ResponseWriter, r *http.Request) {
	creds, err := sessionFromRequest(r, h.sessions, h.oauth)
	if err != nil {
		writeError(w, err)
		return
	}

	var body createRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, shared.ErrInvalidInput)
		return
	}

	engine := tasks.NewPlaylistEngine(h.catalog, creds)
	result, err := engine.Create(r.Context(), nil, tasks.CreateRequest{
		Name:        body.Name,
		Description: body.Description,
		TrackURIs:   body.TrackURIs,
	})
	h.persistRefresh(creds)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result.Playlist)
}
