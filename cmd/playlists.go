package main

import (
	"context"
	"fmt"

	"github.com/decades-app/decades/internal/shared"
	"github.com/urfave/cli/v3"
)

// Playlists lists the linked user's Spotify playlists.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	config := r.resolveConfig(cmd, false)

	creds, sessions, db, err := sessionCredentials(config)
	if err != nil {
		return err
	}
	defer db.Close()

	token, err := creds.Token(ctx)
	if err != nil {
		return err
	}

	playlists, err := r.catalog.UserPlaylists(ctx, token)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}
	r.persistRefresh(creds, sessions)

	if limit > 0 && limit < len(playlists) {
		playlists = playlists[:limit]
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != nil && *p.Description != "" {
			r.writePlain("   Description: %s\n", *p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Tracks: %d\n", p.Tracks.Total)
		r.writePlain("   Visibility: %s\n", shared.VisibilityString(p.Public))
		r.writePlain("\n")
	}

	return nil
}
