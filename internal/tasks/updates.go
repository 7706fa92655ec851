package tasks

import (
	"fmt"

	"github.com/desertthunder/vidhi/internal/models"
)

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
	DeleteUpdates Phase = iota
	CollectUpdates
)

func (p Phase) String() string {
	switch p {
	case DeleteUpdates:
		return "delete_updates"
	case CollectUpdates:
		return "collect_updates"
	default:
		return ""
	}
}

func deleteStartUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DeleteUpdates,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Deleting %d updates...", total),
	}
}

func deleteUpdate(step, total int, id models.UpdateID, err error) ProgressUpdate {
	if err != nil {
		return ProgressUpdate{
			Phase:   DeleteUpdates,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, id, err),
			Data:    id,
		}
	}
	return ProgressUpdate{
		Phase:   DeleteUpdates,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, id),
		Data:    id,
	}
}

func collectUpdate(step, total int, c models.Category, count int, err error) ProgressUpdate {
	if err != nil {
		return ProgressUpdate{
			Phase:   CollectUpdates,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, c.Title(), err),
			Data:    c,
		}
	}
	return ProgressUpdate{
		Phase:   CollectUpdates,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s (%d updates)", step, total, c.Title(), count),
		Data:    c,
	}
}
