package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/decades-app/decades/internal/models"
	"github.com/decades-app/decades/internal/shared"
	"golang.org/x/time/rate"
)

// AuditOpts contains configuration for auditing multiple playlists.
type AuditOpts struct {
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Requests per second (default: 5)
}

// PlaylistAudit summarizes one playlist's year distribution.
type PlaylistAudit struct {
	Reference    string             `json:"reference"`
	PlaylistID   string             `json:"playlist_id,omitempty"`
	PlaylistName string             `json:"playlist_name,omitempty"`
	TrackCount   int                `json:"track_count"`
	EarliestYear int                `json:"earliest_year,omitempty"`
	LatestYear   int                `json:"latest_year,omitempty"`
	YearStats    []models.YearStats `json:"year_stats,omitempty"`
	Success      bool               `json:"success"`
	Error        error              `json:"-"`
}

// AuditResult contains all per-playlist summaries of an audit run.
type AuditResult struct {
	TotalPlaylists int             `json:"total_playlists"`
	Succeeded      int             `json:"succeeded"`
	Failed         int             `json:"failed"`
	Audits         []PlaylistAudit `json:"audits"`
}

type auditJob struct {
	index     int
	reference string
}

type auditOutcome struct {
	index int
	audit PlaylistAudit
}

// Audit analyzes multiple playlists concurrently with rate limiting.
//
// This method implements a worker pool pattern so a library-wide audit
// stays within API rate limits. Individual playlist failures are recorded
// in the result and do not abort the run.
func (e *PlaylistEngine) Audit(ctx context.Context, prog chan<- ProgressUpdate, references []string, opts AuditOpts) (*AuditResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrUpstream)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	result := &AuditResult{
		TotalPlaylists: len(references),
		Audits:         make([]PlaylistAudit, len(references)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan auditJob, len(references))
	outcomes := make(chan auditOutcome, len(references))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.auditWorker(ctx, &wg, limiter, jobs, outcomes)
	}

	for i, reference := range references {
		e.sendProgress(prog, auditStartedUpdate(i+1, len(references), reference))
		jobs <- auditJob{index: i, reference: reference}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	completed := 0
	for outcome := range outcomes {
		completed++
		result.Audits[outcome.index] = outcome.audit

		if outcome.audit.Success {
			result.Succeeded++
			e.sendProgress(prog, auditCompletedUpdate(completed, len(references), outcome.audit.PlaylistName))
		} else {
			result.Failed++
			e.sendProgress(prog, auditFailedUpdate(completed, len(references), outcome.audit.Reference, outcome.audit.Error))
		}
	}

	return result, nil
}

// auditWorker analyzes playlists from the jobs channel.
func (e *PlaylistEngine) auditWorker(ctx context.Context, wg *sync.WaitGroup, limiter *rate.Limiter, jobs <-chan auditJob, outcomes chan<- auditOutcome) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := limiter.Wait(ctx); err != nil {
			return
		}

		outcomes <- auditOutcome{
			index: job.index,
			audit: e.auditSinglePlaylist(ctx, job.reference),
		}
	}
}

// auditSinglePlaylist runs one analysis and condenses it to a summary.
func (e *PlaylistEngine) auditSinglePlaylist(ctx context.Context, reference string) PlaylistAudit {
	audit := PlaylistAudit{Reference: reference}

	data, err := e.Analyze(ctx, nil, reference)
	if err != nil {
		audit.Error = err
		return audit
	}

	audit.Success = true
	audit.PlaylistID = data.Meta.ID
	audit.PlaylistName = data.Meta.Name
	audit.TrackCount = len(data.Tracks)
	audit.YearStats = data.YearStats
	if len(data.YearStats) > 0 {
		audit.EarliestYear = data.YearStats[0].Year
		audit.LatestYear = data.YearStats[len(data.YearStats)-1].Year
	}

	return audit
}
