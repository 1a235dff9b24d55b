package tasks

import (
	"context"
	"testing"

	"github.com/decades-app/decades/internal/services"
	"github.com/decades-app/decades/internal/shared"
	mocks "github.com/decades-app/decades/internal/testing"
)

func TestAudit(t *testing.T) {
	ctx := context.Background()

	t.Run("Summarizes Each Playlist", func(t *testing.T) {
		good := "37i9dQZF1DXcBWIGoYBM5M"
		missing := "0000000000000000000000"

		catalog := &mocks.MockCatalog{
			PlaylistFunc: func(ctx context.Context, token, playlistID string) (*services.PlaylistResponse, error) {
				if playlistID == missing {
					return nil, shared.ErrPlaylistNotFound
				}
				return playlistResponse(2,
					itemWithYear("t1", 1991),
					itemWithYear("t2", 2004),
				), nil
			},
		}

		engine := newEngine(catalog)
		result, err := engine.Audit(ctx, nil, []string{good, missing}, AuditOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Succeeded != 1 || result.Failed != 1 {
			t.Errorf("expected 1 success and 1 failure, got %d/%d", result.Succeeded, result.Failed)
		}

		first := result.Audits[0]
		if !first.Success || first.Reference != good {
			t.Fatalf("expected first audit to succeed for %s, got %+v", good, first)
		}
		if first.TrackCount != 2 || first.EarliestYear != 1991 || first.LatestYear != 2004 {
			t.Errorf("unexpected summary %+v", first)
		}

		second := result.Audits[1]
		if second.Success || second.Error == nil {
			t.Errorf("expected second audit to record its failure, got %+v", second)
		}
	})

	t.Run("Invalid Reference Recorded", func(t *testing.T) {
		engine := newEngine(&mocks.MockCatalog{})

		result, err := engine.Audit(ctx, nil, []string{"not-a-playlist"}, AuditOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Failed != 1 {
			t.Errorf("expected the invalid reference to fail, got %+v", result)
		}
	})
}
