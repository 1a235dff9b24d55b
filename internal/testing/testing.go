// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/decades-app/decades/internal/models"
	"github.com/decades-app/decades/internal/services"
)

// MockCatalog is a configurable test double for [services.Catalog].
// Unset hooks return empty values.
type MockCatalog struct {
	PlaylistFunc       func(ctx context.Context, token, playlistID string) (*services.PlaylistResponse, error)
	PlaylistTracksFunc func(ctx context.Context, token, playlistID string, limit, offset int) (*services.TracksResponse, error)
	UserPlaylistsFunc  func(ctx context.Context, token string) ([]models.PlaylistMeta, error)
	UserProfileFunc    func(ctx context.Context, token string) (*services.UserProfile, error)
	CreatePlaylistFunc func(ctx context.Context, token, userID, name, description string) (*models.CreatedPlaylist, error)
	AddTracksFunc      func(ctx context.Context, token, playlistID string, uris []string) error
}

func (m *MockCatalog) Playlist(ctx context.Context, token, playlistID string) (*services.PlaylistResponse, error) {
	if m.PlaylistFunc != nil {
		return m.PlaylistFunc(ctx, token, playlistID)
	}
	return &services.PlaylistResponse{}, nil
}

func (m *MockCatalog) PlaylistTracks(ctx context.Context, token, playlistID string, limit, offset int) (*services.TracksResponse, error) {
	if m.PlaylistTracksFunc != nil {
		return m.PlaylistTracksFunc(ctx, token, playlistID, limit, offset)
	}
	return &services.TracksResponse{}, nil
}

func (m *MockCatalog) UserPlaylists(ctx context.Context, token string) ([]models.PlaylistMeta, error) {
	if m.UserPlaylistsFunc != nil {
		return m.UserPlaylistsFunc(ctx, token)
	}
	return []models.PlaylistMeta{}, nil
}

func (m *MockCatalog) UserProfile(ctx context.Context, token string) (*services.UserProfile, error) {
	if m.UserProfileFunc != nil {
		return m.UserProfileFunc(ctx, token)
	}
	return &services.UserProfile{ID: "mock-user"}, nil
}

func (m *MockCatalog) CreatePlaylist(ctx context.Context, token, userID, name, description string) (*models.CreatedPlaylist, error) {
	if m.CreatePlaylistFunc != nil {
		return m.CreatePlaylistFunc(ctx, token, userID, name, description)
	}
	return &models.CreatedPlaylist{ID: "mock-playlist"}, nil
}

func (m *MockCatalog) AddTracks(ctx context.Context, token, playlistID string, uris []string) error {
	if m.AddTracksFunc != nil {
		return m.AddTracksFunc(ctx, token, playlistID, uris)
	}
	return nil
}

// StaticTokenProvider is a [services.TokenProvider] returning a fixed token.
type StaticTokenProvider struct {
	TokenValue string
	Err        error
}

func (p *StaticTokenProvider) Token(ctx context.Context) (string, error) {
	if p.Err != nil {
		return "", p.Err
	}
	if p.TokenValue == "" {
		return "static-token", nil
	}
	return p.TokenValue, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
