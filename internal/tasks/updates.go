package tasks

import (
	"fmt"

	"github.com/desertthunder/ytbox/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI, shell or HTTP layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// ProgressFunc receives updates synchronously, on the goroutine doing the work.
type ProgressFunc func(ProgressUpdate)

// Operation phase enumeration
type Phase int

const (
	Acquire Phase = iota
	ItemDone
	ItemFailed
	Bundle
	Complete
	ExportPlaylist
)

func (p Phase) String() string {
	switch p {
	case Acquire:
		return "acquire"
	case ItemDone:
		return "item_done"
	case ItemFailed:
		return "item_failed"
	case Bundle:
		return "bundle"
	case Complete:
		return "complete"
	case ExportPlaylist:
		return "export_playlist"
	default:
		return ""
	}
}

func acquireUpdate(step, total int, tr models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Acquire,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Downloading %s...", step, total, tr.String()),
		Data:    tr,
	}
}

func itemDoneUpdate(step, total int, res models.AcquisitionResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ItemDone,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.Track.String()),
		Data:    res,
	}
}

func itemFailedUpdate(step, total int, failure models.ItemFailure) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ItemFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, failure.Title, failure.Reason),
		Data:    failure,
	}
}

func bundleUpdate(count int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Bundle,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Bundling %d files into %s.zip...", count, name),
	}
}

func completeUpdate(result *models.BatchResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    result.Total(),
		Total:   result.Total(),
		Message: fmt.Sprintf("Downloaded %d of %d tracks", len(result.Successes), result.Total()),
		Data:    result,
	}
}

func exportingPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
