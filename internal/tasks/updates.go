package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchMetadata Phase = iota
	FetchTracks
	Bucket
	CreatePlaylist
	AddTracks
	AuditPlaylist
)

func (p Phase) String() string {
	switch p {
	case FetchMetadata:
		return "fetch_metadata"
	case FetchTracks:
		return "fetch_tracks"
	case Bucket:
		return "bucket"
	case CreatePlaylist:
		return "create_playlist"
	case AddTracks:
		return "add_tracks"
	case AuditPlaylist:
		return "audit_playlist"
	default:
		return ""
	}
}

func fetchMetadataUpdate(playlistID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMetadata,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching playlist %s...", playlistID),
	}
}

func fetchPageUpdate(offset, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    offset,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching tracks...", offset, total),
	}
}

func bucketingUpdate(trackCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Bucket,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Grouping %d tracks by release year...", trackCount),
	}
}

func creatingPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist: %s...", name),
	}
}

func addingTracksUpdate(batch, totalBatches int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    batch,
		Total:   totalBatches,
		Message: fmt.Sprintf("[%d/%d] Adding tracks...", batch, totalBatches),
	}
}

func auditStartedUpdate(step, total int, reference string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AuditPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Analyzing %s...", step, total, reference),
	}
}

func auditCompletedUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AuditPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, name),
	}
}

func auditFailedUpdate(step, total int, reference string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AuditPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, reference, err),
	}
}
