package main

import (
	"context"
	"fmt"

	"github.com/decades-app/decades/internal/shared"
	"github.com/decades-app/decades/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Audit summarizes the release-year span of several playlists at once.
//
// References come from positional arguments, or from the linked user's
// whole library with --all.
func (r *Runner) Audit(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd, false)

	references := cmd.Args().Slice()
	engine := r.engine
	closer := func() {}

	if cmd.Bool("all") {
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
		defer func() { r.persistRefresh(creds, sessions) }()

		references = references[:0]
		for _, p := range playlists {
			references = append(references, p.ID)
		}
		engine = tasks.NewPlaylistEngine(r.catalog, creds)
	} else {
		var err error
		engine, closer, err = r.analysisEngine(config)
		if err != nil {
			return err
		}
	}
	defer closer()

	if len(references) == 0 {
		return fmt.Errorf("%w: playlist IDs or URLs (or --all)", shared.ErrMissingArgument)
	}

	opts := tasks.AuditOpts{
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	}

	progress := make(chan tasks.ProgressUpdate, len(references)*2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String(), "step", update.Step, "total", update.Total)
		}
	}()

	result, err := engine.Audit(ctx, progress, references, opts)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Audited %d playlists (%d ok, %d failed)",
		result.TotalPlaylists, result.Succeeded, result.Failed))

	for _, audit := range result.Audits {
		if !audit.Success {
			r.writePlain("✗ %s: %v\n", audit.Reference, audit.Error)
			continue
		}

		span := "no release years"
		if audit.EarliestYear > 0 {
			span = fmt.Sprintf("%d to %d", audit.EarliestYear, audit.LatestYear)
		}
		r.writePlain("✓ %s (%s): %d tracks, %s\n", audit.PlaylistName, audit.PlaylistID, audit.TrackCount, span)
	}

	return nil
}
