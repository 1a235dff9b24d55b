package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/decades-app/decades/internal/models"
	"github.com/decades-app/decades/internal/services"
	"github.com/decades-app/decades/internal/shared"
	mocks "github.com/decades-app/decades/internal/testing"
)

const testPlaylistID = "37i9dQZF1DXcBWIGoYBM5M"

func itemWithYear(id string, year int) services.TrackItem {
	raw := fmt.Sprintf(
		`{"track": {"id": %q, "uri": "spotify:track:%s", "duration_ms": 1000, "album": {"release_date": "%d-01-01"}}}`,
		id, id, year,
	)
	var item services.TrackItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		panic(err)
	}
	return item
}

func playlistResponse(total int, inline ...services.TrackItem) *services.PlaylistResponse {
	resp := &services.PlaylistResponse{ID: testPlaylistID, Name: "Test Mix"}
	resp.Tracks.Total = total
	resp.Tracks.Items = inline
	return resp
}

func newEngine(catalog services.Catalog) *PlaylistEngine {
	return NewPlaylistEngine(catalog, &mocks.StaticTokenProvider{})
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()

	t.Run("Invalid Reference", func(t *testing.T) {
		engine := newEngine(&mocks.MockCatalog{})

		if _, err := engine.Analyze(ctx, nil, "not a playlist"); !errors.Is(err, shared.ErrInvalidPlaylistID) {
			t.Errorf("expected ErrInvalidPlaylistID, got %v", err)
		}
	})

	t.Run("URL Reference Resolved", func(t *testing.T) {
		var requestedID string
		catalog := &mocks.MockCatalog{
			PlaylistFunc: func(ctx context.Context, token, playlistID string) (*services.PlaylistResponse, error) {
				requestedID = playlistID
				return playlistResponse(0), nil
			},
		}

		engine := newEngine(catalog)
		url := "https://open.spotify.com/playlist/" + testPlaylistID + "?si=abc"
		if _, err := engine.Analyze(ctx, nil, url); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if requestedID != testPlaylistID {
			t.Errorf("requested %q, want %q", requestedID, testPlaylistID)
		}
	})

	t.Run("Aggregates All Pages", func(t *testing.T) {
		pageCalls := 0
		catalog := &mocks.MockCatalog{
			PlaylistFunc: func(ctx context.Context, token, playlistID string) (*services.PlaylistResponse, error) {
				return playlistResponse(250,
					itemWithYear("t1", 1999),
					itemWithYear("t2", 1999),
				), nil
			},
			PlaylistTracksFunc: func(ctx context.Context, token, playlistID string, limit, offset int) (*services.TracksResponse, error) {
				pageCalls++
				if limit != 100 {
					t.Errorf("limit = %d, want 100", limit)
				}

				count := min(limit, 250-offset)
				items := make([]services.TrackItem, count)
				for i := range items {
					items[i] = itemWithYear(fmt.Sprintf("p%d-%d", offset, i), 2000+pageCalls)
				}
				return &services.TracksResponse{Items: items, Total: 250}, nil
			},
		}

		engine := newEngine(catalog)
		data, err := engine.Analyze(ctx, nil, testPlaylistID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if pageCalls != 3 {
			t.Errorf("expected 3 page fetches after the inline page, got %d", pageCalls)
		}
		if len(data.Tracks) != 250 {
			t.Errorf("expected 250 tracks, got %d", len(data.Tracks))
		}

		total := 0
		for _, stat := range data.YearStats {
			total += stat.Count
		}
		if total != len(data.Tracks) {
			t.Errorf("year stat counts sum to %d, want %d", total, len(data.Tracks))
		}
		for i := 1; i < len(data.YearStats); i++ {
			if data.YearStats[i].Year <= data.YearStats[i-1].Year {
				t.Errorf("year stats not strictly ascending at %d", i)
			}
		}
	})

	t.Run("Null Tracks Skipped", func(t *testing.T) {
		catalog := &mocks.MockCatalog{
			PlaylistFunc: func(ctx context.Context, token, playlistID string) (*services.PlaylistResponse, error) {
				return playlistResponse(3,
					itemWithYear("t1", 1985),
					services.TrackItem{},
					itemWithYear("t2", 1990),
				), nil
			},
		}

		engine := newEngine(catalog)
		data, err := engine.Analyze(ctx, nil, testPlaylistID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(data.Tracks) != 2 {
			t.Errorf("expected 2 playable tracks, got %d", len(data.Tracks))
		}
		if data.TotalDurationMS != 2000 {
			t.Errorf("total duration = %d, want 2000", data.TotalDurationMS)
		}
	})

	t.Run("Failed Page Yields Partial Result", func(t *testing.T) {
		catalog := &mocks.MockCatalog{
			PlaylistFunc: func(ctx context.Context, token, playlistID string) (*services.PlaylistResponse, error) {
				return playlistResponse(300, itemWithYear("t1", 1999)), nil
			},
			PlaylistTracksFunc: func(ctx context.Context, token, playlistID string, limit, offset int) (*services.TracksResponse, error) {
				if offset > 1 {
					return nil, shared.ErrUpstream
				}
				items := make([]services.TrackItem, 100)
				for i := range items {
					items[i] = itemWithYear(fmt.Sprintf("p%d", i), 2005)
				}
				return &services.TracksResponse{Items: items, Total: 300}, nil
			},
		}

		engine := newEngine(catalog)
		data, err := engine.Analyze(ctx, nil, testPlaylistID)
		if err != nil {
			t.Fatalf("expected partial result, got error %v", err)
		}
		if len(data.Tracks) != 101 {
			t.Errorf("expected 101 tracks from the pages that succeeded, got %d", len(data.Tracks))
		}
	})

	t.Run("Empty Page Stops Pagination", func(t *testing.T) {
		pageCalls := 0
		catalog := &mocks.MockCatalog{
			PlaylistFunc: func(ctx context.Context, token, playlistID string) (*services.PlaylistResponse, error) {
				// The reported total overstates the actual item count.
				return playlistResponse(500, itemWithYear("t1", 1999)), nil
			},
			PlaylistTracksFunc: func(ctx context.Context, token, playlistID string, limit, offset int) (*services.TracksResponse, error) {
				pageCalls++
				return &services.TracksResponse{Items: nil, Total: 500}, nil
			},
		}

		engine := newEngine(catalog)
		if _, err := engine.Analyze(ctx, nil, testPlaylistID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if pageCalls != 1 {
			t.Errorf("expected pagination to stop after one empty page, got %d calls", pageCalls)
		}
	})

	t.Run("Not Found Propagates", func(t *testing.T) {
		catalog := &mocks.MockCatalog{
			PlaylistFunc: func(ctx context.Context, token, playlistID string) (*services.PlaylistResponse, error) {
				return nil, shared.ErrPlaylistNotFound
			},
		}

		engine := newEngine(catalog)
		if _, err := engine.Analyze(ctx, nil, testPlaylistID); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("Token Failure Propagates", func(t *testing.T) {
		engine := NewPlaylistEngine(&mocks.MockCatalog{}, &mocks.StaticTokenProvider{Err: shared.ErrMissingCredentials})

		if _, err := engine.Analyze(ctx, nil, testPlaylistID); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	uris := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("spotify:track:%d", i)
		}
		return out
	}

	t.Run("Name Validation", func(t *testing.T) {
		engine := newEngine(&mocks.MockCatalog{})

		cases := map[string]string{
			"Empty":      "",
			"Whitespace": "   ",
			"Too Long":   strings.Repeat("x", 101),
		}
		for name, input := range cases {
			t.Run(name, func(t *testing.T) {
				req := CreateRequest{Name: input, TrackURIs: uris(1)}
				if _, err := engine.Create(ctx, nil, req); !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
			})
		}
	})

	t.Run("Empty Selection", func(t *testing.T) {
		engine := newEngine(&mocks.MockCatalog{})

		req := CreateRequest{Name: "1990s picks"}
		if _, err := engine.Create(ctx, nil, req); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Sequential Batches Of 100", func(t *testing.T) {
		var batches [][]string
		catalog := &mocks.MockCatalog{
			CreatePlaylistFunc: func(ctx context.Context, token, userID, name, description string) (*models.CreatedPlaylist, error) {
				if userID != "mock-user" {
					t.Errorf("userID = %q, want profile id", userID)
				}
				return &models.CreatedPlaylist{ID: "new1"}, nil
			},
			AddTracksFunc: func(ctx context.Context, token, playlistID string, batch []string) error {
				batches = append(batches, batch)
				return nil
			},
		}

		engine := newEngine(catalog)
		result, err := engine.Create(ctx, nil, CreateRequest{Name: "Big Mix", TrackURIs: uris(250)})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(batches) != 3 {
			t.Fatalf("expected 3 batches, got %d", len(batches))
		}
		if len(batches[0]) != 100 || len(batches[1]) != 100 || len(batches[2]) != 50 {
			t.Errorf("unexpected batch sizes %d/%d/%d", len(batches[0]), len(batches[1]), len(batches[2]))
		}
		if batches[0][0] != "spotify:track:0" || batches[2][49] != "spotify:track:249" {
			t.Error("batches not in original order")
		}
		if result.TracksAdded != 250 {
			t.Errorf("tracks added = %d, want 250", result.TracksAdded)
		}
	})

	t.Run("Aborts On First Failed Batch", func(t *testing.T) {
		calls := 0
		catalog := &mocks.MockCatalog{
			AddTracksFunc: func(ctx context.Context, token, playlistID string, batch []string) error {
				calls++
				if calls == 2 {
					return shared.ErrUpstream
				}
				return nil
			},
		}

		engine := newEngine(catalog)
		result, err := engine.Create(ctx, nil, CreateRequest{Name: "Big Mix", TrackURIs: uris(250)})
		if !errors.Is(err, shared.ErrUpstream) {
			t.Fatalf("expected ErrUpstream, got %v", err)
		}

		if calls != 2 {
			t.Errorf("expected no batches after the failure, got %d calls", calls)
		}
		if result == nil || result.TracksAdded != 100 {
			t.Errorf("expected the partial result to report 100 added tracks, got %+v", result)
		}
	})
}
