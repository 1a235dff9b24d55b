package main

import (
	"context"
	"fmt"

	"github.com/decades-app/decades/internal/models"
	"github.com/decades-app/decades/internal/shared"
	"github.com/decades-app/decades/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Create analyzes a playlist, keeps the tracks inside the given year span,
// and exports them as a new playlist on the linked account.
func (r *Runner) Create(ctx context.Context, cmd *cli.Command) error {
	reference := cmd.StringArg("playlist")
	if reference == "" {
		return fmt.Errorf("%w: playlist ID or URL", shared.ErrMissingArgument)
	}

	lo, hi, err := parseYearSpan(cmd.String("years"))
	if err != nil {
		return err
	}

	config := r.resolveConfig(cmd, false)

	creds, sessions, db, err := sessionCredentials(config)
	if err != nil {
		return err
	}
	defer db.Close()
	defer func() { r.persistRefresh(creds, sessions) }()

	engine := tasks.NewPlaylistEngine(r.catalog, creds)

	var data *models.PlaylistData
	analyze := func(ctx context.Context) error {
		var err error
		data, err = engine.Analyze(ctx, nil, reference)
		return err
	}
	if err := r.runWithSpinner(ctx, "Analyzing playlist...", analyze); err != nil {
		return err
	}

	tracks := spanSelection(lo, hi).Filter(data.Tracks)
	uris := make([]string, len(tracks))
	for i, track := range tracks {
		uris[i] = track.URI
	}

	if len(uris) == 0 {
		return fmt.Errorf("%w: no tracks between %d and %d", shared.ErrInvalidInput, lo, hi)
	}

	req := tasks.CreateRequest{
		Name:        cmd.String("name"),
		Description: cmd.String("description"),
		TrackURIs:   uris,
	}

	var result *tasks.CreateResult
	create := func(ctx context.Context) error {
		var err error
		result, err = engine.Create(ctx, nil, req)
		return err
	}
	err = r.runWithSpinner(ctx, "Creating playlist...", create)

	// A partial result means the playlist exists with only some batches
	// appended; report what landed before surfacing the error.
	if result != nil && result.Playlist != nil {
		r.writePlainln("✓ Created playlist %q", req.Name)
		r.writePlain("  ID: %s\n", result.Playlist.ID)
		if url, ok := result.Playlist.ExternalURL["spotify"]; ok {
			r.writePlain("  URL: %s\n", url)
		}
		r.writePlain("  Tracks added: %d of %d\n", result.TracksAdded, len(uris))
	}

	return err
}
