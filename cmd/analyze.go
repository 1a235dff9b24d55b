package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh/spinner"
	"github.com/decades-app/decades/internal/analysis"
	"github.com/decades-app/decades/internal/formatter"
	"github.com/decades-app/decades/internal/models"
	"github.com/decades-app/decades/internal/shared"
	"github.com/decades-app/decades/internal/tasks"
	"github.com/urfave/cli/v3"
)

// parseYearSpan parses "1999" or "1999-2005" into an inclusive year range.
func parseYearSpan(s string) (lo, hi int, err error) {
	parts := strings.SplitN(s, "-", 2)

	lo, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || lo <= 0 {
		return 0, 0, fmt.Errorf("%w: invalid year span %q", shared.ErrInvalidInput, s)
	}

	hi = lo
	if len(parts) == 2 {
		hi, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || hi <= 0 {
			return 0, 0, fmt.Errorf("%w: invalid year span %q", shared.ErrInvalidInput, s)
		}
	}

	if hi < lo {
		lo, hi = hi, lo
	}
	return lo, hi, nil
}

// spanSelection builds the click-model selection covering a parsed span.
func spanSelection(lo, hi int) *analysis.Selection {
	var sel analysis.Selection
	sel.Click(lo)
	if hi != lo {
		sel.Click(hi)
	}
	return &sel
}

// restrict narrows an analysis to the tracks inside the selection,
// recomputing the year buckets and total duration.
func restrict(data *models.PlaylistData, sel *analysis.Selection) *models.PlaylistData {
	tracks := sel.Filter(data.Tracks)
	return &models.PlaylistData{
		Meta:            data.Meta,
		Tracks:          tracks,
		YearStats:       analysis.CalculateYearStats(tracks),
		TotalDurationMS: analysis.TotalDuration(tracks),
	}
}

// analysisEngine picks the credential source for read-only analysis: the
// app token when client credentials are configured, otherwise the stored
// login session. The returned closer releases the session store handle.
func (r *Runner) analysisEngine(config *shared.Config) (*tasks.PlaylistEngine, func(), error) {
	if r.appTokens != nil {
		return r.engine, func() {}, nil
	}

	creds, sessions, db, err := sessionCredentials(config)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: configure credentials or log in", shared.ErrMissingCredentials)
	}

	engine := tasks.NewPlaylistEngine(r.catalog, creds)
	closer := func() {
		r.persistRefresh(creds, sessions)
		db.Close()
	}
	return engine, closer, nil
}

// runWithSpinner runs fn behind a terminal spinner when writing to a TTY,
// plainly otherwise (tests capture output through a buffer).
func (r *Runner) runWithSpinner(ctx context.Context, title string, fn func(context.Context) error) error {
	if file, ok := r.output.(*os.File); ok && file == os.Stdout {
		return spinner.New().Title(title).Context(ctx).ActionWithErr(fn).Run()
	}
	return fn(ctx)
}

// Analyze fetches a playlist and charts its release years.
func (r *Runner) Analyze(ctx context.Context, cmd *cli.Command) error {
	reference := cmd.StringArg("playlist")
	if reference == "" {
		return fmt.Errorf("%w: playlist ID or URL", shared.ErrMissingArgument)
	}

	config := r.resolveConfig(cmd, false)

	if cmd.Bool("interactive") {
		return r.launchTUI(ctx, config, reference)
	}

	engine, closer, err := r.analysisEngine(config)
	if err != nil {
		return err
	}
	defer closer()

	var data *models.PlaylistData
	analyze := func(ctx context.Context) error {
		var err error
		data, err = engine.Analyze(ctx, nil, reference)
		return err
	}

	if err := r.runWithSpinner(ctx, "Analyzing playlist...", analyze); err != nil {
		return err
	}

	if span := cmd.String("select"); span != "" {
		lo, hi, err := parseYearSpan(span)
		if err != nil {
			return err
		}
		data = restrict(data, spanSelection(lo, hi))
	}

	format := cmd.String("format")
	output := cmd.String("output")
	if format != "" || output != "" {
		written, err := formatter.WriteExport(data, format, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported to %s\n", written)
	}

	if cmd.Bool("json") {
		return r.writeJSON(data, cmd.Bool("pretty"))
	}

	r.writePlainHeader(data.Meta.Name)
	r.writePlain("%s\n", formatter.FormatSummary(data))
	return r.writePlain("%s", formatter.FormatHistogram(data.YearStats))
}
