package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/decades-app/decades/internal/analysis"
	"github.com/decades-app/decades/internal/models"
	"github.com/decades-app/decades/internal/services"
	"github.com/decades-app/decades/internal/shared"
)

// pageSize is the playlist items page size, the maximum the API allows.
const pageSize = 100

// createBatchSize is the maximum number of URIs per add-tracks request.
const createBatchSize = 100

// maxPlaylistNameLength bounds a new playlist's trimmed name.
const maxPlaylistNameLength = 100

// CreateRequest describes a playlist to create from selected tracks.
type CreateRequest struct {
	Name        string   // Display name, trimmed before validation
	Description string   // Optional description
	TrackURIs   []string // Track URIs in playback order, at least one
}

// CreateResult contains the outcome of a create operation.
type CreateResult struct {
	Playlist    *models.CreatedPlaylist // The created playlist
	TracksAdded int                     // URIs appended before completion or abort
}

// AnalysisEngine defines the playlist analysis and creation operations.
type AnalysisEngine interface {
	// Analyze resolves a playlist reference, fetches every page of items,
	// and buckets the playable tracks by release year.
	Analyze(ctx context.Context, progress chan<- ProgressUpdate, reference string) (*models.PlaylistData, error)

	// Create makes a new public playlist for the token's user and appends
	// the given track URIs in order.
	Create(ctx context.Context, progress chan<- ProgressUpdate, req CreateRequest) (*CreateResult, error)
}

// PlaylistEngine implements AnalysisEngine over a [services.Catalog].
// The token provider decides whose credential backs the catalog calls: an
// app token for read-only analysis, a session token for user operations.
type PlaylistEngine struct {
	catalog services.Catalog
	tokens  services.TokenProvider
}

// NewPlaylistEngine creates a PlaylistEngine with the provided catalog and
// credential source.
func NewPlaylistEngine(catalog services.Catalog, tokens services.TokenProvider) *PlaylistEngine {
	return &PlaylistEngine{
		catalog: catalog,
		tokens:  tokens,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Analyze runs the full analysis pipeline for one playlist reference.
//
// The reference may be a bare 22-character ID, an open.spotify.com URL, or a
// spotify: URI. Items without a playable track are skipped. Pagination is
// sequential; when a page fetch fails the tracks gathered so far are
// bucketed and returned, so a long playlist degrades to a partial histogram
// rather than an error.
func (e *PlaylistEngine) Analyze(ctx context.Context, progress chan<- ProgressUpdate, reference string) (*models.PlaylistData, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrUpstream)
	}

	playlistID, ok := analysis.ExtractPlaylistID(reference)
	if !ok {
		return nil, fmt.Errorf("%w: %q", shared.ErrInvalidPlaylistID, reference)
	}

	token, err := e.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchMetadataUpdate(playlistID))

	playlist, err := e.catalog.Playlist(ctx, token, playlistID)
	if err != nil {
		return nil, err
	}

	total := playlist.Tracks.Total
	tracks := make([]models.Track, 0, total)

	appendItems := func(items []services.TrackItem) error {
		for _, item := range items {
			track, err := services.ParseTrackItem(item)
			if err != nil {
				return err
			}
			if track != nil {
				tracks = append(tracks, *track)
			}
		}
		return nil
	}

	if err := appendItems(playlist.Tracks.Items); err != nil {
		return nil, err
	}

	offset := len(playlist.Tracks.Items)
	for offset < total {
		e.sendProgress(progress, fetchPageUpdate(offset, total))

		page, err := e.catalog.PlaylistTracks(ctx, token, playlistID, pageSize, offset)
		if err != nil {
			// Partial result: keep what we have.
			break
		}
		if len(page.Items) == 0 {
			break
		}
		if err := appendItems(page.Items); err != nil {
			return nil, err
		}
		offset += len(page.Items)
	}

	e.sendProgress(progress, bucketingUpdate(len(tracks)))

	meta := playlist.Meta()
	return &models.PlaylistData{
		Meta:            meta,
		Tracks:          tracks,
		YearStats:       analysis.CalculateYearStats(tracks),
		TotalDurationMS: analysis.TotalDuration(tracks),
	}, nil
}

// Create makes a playlist and fills it with the requested tracks.
//
// URIs are appended in batches, in order; the first failed batch aborts the
// operation. Earlier batches are not rolled back, so the caller may be left
// with a partially filled playlist, reported through CreateResult.
func (e *PlaylistEngine) Create(ctx context.Context, progress chan<- ProgressUpdate, req CreateRequest) (*CreateResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrUpstream)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > maxPlaylistNameLength {
		return nil, fmt.Errorf("%w: playlist name must be 1-%d characters", shared.ErrInvalidInput, maxPlaylistNameLength)
	}
	if len(req.TrackURIs) == 0 {
		return nil, fmt.Errorf("%w: no tracks selected", shared.ErrInvalidInput)
	}

	token, err := e.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := e.catalog.UserProfile(ctx, token)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, creatingPlaylistUpdate(name))

	created, err := e.catalog.CreatePlaylist(ctx, token, profile.ID, name, req.Description)
	if err != nil {
		return nil, err
	}

	result := &CreateResult{Playlist: created}

	totalBatches := (len(req.TrackURIs) + createBatchSize - 1) / createBatchSize
	for batch := 0; batch*createBatchSize < len(req.TrackURIs); batch++ {
		start := batch * createBatchSize
		end := min(start+createBatchSize, len(req.TrackURIs))

		e.sendProgress(progress, addingTracksUpdate(batch+1, totalBatches))

		if err := e.catalog.AddTracks(ctx, token, created.ID, req.TrackURIs[start:end]); err != nil {
			return result, fmt.Errorf("added %d of %d tracks: %w", result.TracksAdded, len(req.TrackURIs), err)
		}
		result.TracksAdded = end
	}

	return result, nil
}
