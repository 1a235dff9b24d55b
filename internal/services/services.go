package services

import (
	"context"

	"github.com/decades-app/decades/internal/models"
)

// Catalog defines the remote music-catalog operations the analyzer needs.
//
// Implementations are stateless with respect to credentials: the bearer
// token is passed per call.
type Catalog interface {
	// Playlist retrieves playlist metadata by ID, including the inline
	// first page of items.
	Playlist(ctx context.Context, token, playlistID string) (*PlaylistResponse, error)

	// PlaylistTracks retrieves one page of playlist items by offset.
	PlaylistTracks(ctx context.Context, token, playlistID string, limit, offset int) (*TracksResponse, error)

	// UserPlaylists retrieves all playlists of the token's user, following
	// the cursor-paginated next URLs.
	UserPlaylists(ctx context.Context, token string) ([]models.PlaylistMeta, error)

	// UserProfile retrieves the token's user profile.
	UserProfile(ctx context.Context, token string) (*UserProfile, error)

	// CreatePlaylist creates an empty public playlist for the given user.
	CreatePlaylist(ctx context.Context, token, userID, name, description string) (*models.CreatedPlaylist, error)

	// AddTracks appends up to 100 track URIs to a playlist.
	AddTracks(ctx context.Context, token, playlistID string, uris []string) error
}

// TokenProvider supplies a bearer credential for catalog requests.
type TokenProvider interface {
	// Token returns a credential valid for at least the near future.
	Token(ctx context.Context) (string, error)
}
