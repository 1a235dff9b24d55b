// Spotify Web API implementation of [Catalog]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/decades-app/decades/internal/analysis"
	"github.com/decades-app/decades/internal/models"
	"github.com/decades-app/decades/internal/shared"
)

const (
	spotifyBaseURL = "https://api.spotify.com/v1"

	// requestTimeout bounds every catalog call; the upstream API has no
	// SLA and an unbounded call would stall a whole aggregation.
	requestTimeout = 30 * time.Second
)

// rawTrack is the wire shape of a playable track inside a playlist item.
type rawTrack struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	URI         string            `json:"uri"`
	DurationMS  int               `json:"duration_ms"`
	PreviewURL  *string           `json:"preview_url"`
	ExternalURL map[string]string `json:"external_urls"`
	Artists     []models.Artist   `json:"artists"`
	Album       struct {
		ID                   string         `json:"id"`
		Name                 string         `json:"name"`
		Images               []models.Image `json:"images"`
		ReleaseDate          string         `json:"release_date"`
		ReleaseDatePrecision string         `json:"release_date_precision"`
	} `json:"album"`
}

// TrackItem is one entry of a playlist items page. Track is nil for local
// files and tracks no longer available in the catalog.
type TrackItem struct {
	Track   *rawTrack `json:"track"`
	AddedAt string    `json:"added_at"`
}

// TracksResponse is one offset-paginated page of playlist items.
type TracksResponse struct {
	Items []TrackItem `json:"items"`
	Next  *string     `json:"next"`
	Total int         `json:"total"`
}

// PlaylistResponse is the playlist metadata response, which carries the
// first items page inline.
type PlaylistResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Images      []models.Image `json:"images"`
	Owner       models.Owner   `json:"owner"`
	Public      *bool          `json:"public"`
	Tracks      struct {
		Total int         `json:"total"`
		Items []TrackItem `json:"items"`
		Next  *string     `json:"next"`
	} `json:"tracks"`
	ExternalURL map[string]string `json:"external_urls"`
}

// UserProfile is the authenticated user's profile.
type UserProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// userPlaylistsResponse is the cursor-paginated /me/playlists response.
type userPlaylistsResponse struct {
	Items []models.PlaylistMeta `json:"items"`
	Next  *string               `json:"next"`
	Total int                   `json:"total"`
}

// Meta converts the wire playlist into its request-scoped snapshot.
func (p *PlaylistResponse) Meta() models.PlaylistMeta {
	return models.PlaylistMeta{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Images:      p.Images,
		Owner:       p.Owner,
		Public:      p.Public,
		Tracks:      models.TrackCount{Total: p.Tracks.Total},
		ExternalURL: p.ExternalURL,
	}
}

// ParseTrackItem converts a raw playlist item into a [models.Track],
// deriving the release year exactly once.
//
// Items without an underlying track or without an ID (removed tracks, local
// files) return (nil, nil): they are silently skipped, not errors. A
// malformed release date is upstream data corruption and fails the parse.
func ParseTrackItem(item TrackItem) (*models.Track, error) {
	if item.Track == nil || item.Track.ID == "" {
		return nil, nil
	}

	year, err := analysis.ParseReleaseYear(item.Track.Album.ReleaseDate)
	if err != nil {
		return nil, fmt.Errorf("%w: track %s: %v", shared.ErrUpstream, item.Track.ID, err)
	}

	return &models.Track{
		ID:          item.Track.ID,
		Name:        item.Track.Name,
		Artists:     item.Track.Artists,
		Album: models.Album{
			ID:                   item.Track.Album.ID,
			Name:                 item.Track.Album.Name,
			Images:               item.Track.Album.Images,
			ReleaseDate:          item.Track.Album.ReleaseDate,
			ReleaseDatePrecision: item.Track.Album.ReleaseDatePrecision,
		},
		ReleaseYear: year,
		DurationMS:  item.Track.DurationMS,
		PreviewURL:  item.Track.PreviewURL,
		URI:         item.Track.URI,
		ExternalURL: item.Track.ExternalURL,
	}, nil
}

// SpotifyService implements [Catalog] over net/http.
type SpotifyService struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewSpotifyService creates a Spotify catalog client.
func NewSpotifyService(logger *log.Logger) *SpotifyService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SpotifyService{
		baseURL:    spotifyBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// SetBaseURL overrides the API origin, used by tests.
func (s *SpotifyService) SetBaseURL(url string) {
	s.baseURL = strings.TrimRight(url, "/")
}

// doRequest performs one bearer-authenticated request and decodes the JSON
// response into result when non-nil.
func (s *SpotifyService) doRequest(ctx context.Context, token, method, url string, body, result any) error {
	var reqBody *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		s.logger.Debug("spotify request failed", "method", method, "url", url, "status", resp.StatusCode)
		return err
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrUpstream, err)
		}
	}

	return nil
}

// statusError maps an upstream HTTP status onto the error taxonomy.
func statusError(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return shared.ErrPlaylistNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: it may be private", shared.ErrAccessDenied)
	default:
		return fmt.Errorf("%w: status %d", shared.ErrUpstream, status)
	}
}

// Playlist retrieves playlist metadata (with the inline first items page).
func (s *SpotifyService) Playlist(ctx context.Context, token, playlistID string) (*PlaylistResponse, error) {
	var playlist PlaylistResponse
	url := fmt.Sprintf("%s/playlists/%s", s.baseURL, playlistID)
	if err := s.doRequest(ctx, token, http.MethodGet, url, nil, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// PlaylistTracks retrieves one page of playlist items.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, token, playlistID string, limit, offset int) (*TracksResponse, error) {
	var page TracksResponse
	url := fmt.Sprintf("%s/playlists/%s/tracks?limit=%d&offset=%d", s.baseURL, playlistID, limit, offset)
	if err := s.doRequest(ctx, token, http.MethodGet, url, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UserPlaylists retrieves all playlists of the authenticated user by
// following the next cursor until exhausted.
func (s *SpotifyService) UserPlaylists(ctx context.Context, token string) ([]models.PlaylistMeta, error) {
	playlists := []models.PlaylistMeta{}
	url := s.baseURL + "/me/playlists?limit=50"

	for url != "" {
		var page userPlaylistsResponse
		if err := s.doRequest(ctx, token, http.MethodGet, url, nil, &page); err != nil {
			return nil, err
		}

		playlists = append(playlists, page.Items...)

		if page.Next == nil {
			break
		}
		url = *page.Next
	}

	return playlists, nil
}

// UserProfile retrieves the authenticated user's profile.
func (s *SpotifyService) UserProfile(ctx context.Context, token string) (*UserProfile, error) {
	var profile UserProfile
	if err := s.doRequest(ctx, token, http.MethodGet, s.baseURL+"/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// CreatePlaylist creates an empty public playlist owned by userID.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, token, userID, name, description string) (*models.CreatedPlaylist, error) {
	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      true,
	}

	var created models.CreatedPlaylist
	url := fmt.Sprintf("%s/users/%s/playlists", s.baseURL, userID)
	if err := s.doRequest(ctx, token, http.MethodPost, url, body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// AddTracks appends track URIs to a playlist. Callers are responsible for
// keeping batches at or under the 100-URI API limit.
func (s *SpotifyService) AddTracks(ctx context.Context, token, playlistID string, uris []string) error {
	body := map[string]any{"uris": uris}
	url := fmt.Sprintf("%s/playlists/%s/tracks", s.baseURL, playlistID)
	return s.doRequest(ctx, token, http.MethodPost, url, body, nil)
}
