package models

import "math"

// ChecklistProgress derives completion state from a checklist: the number
// of completed items, the total, the percentage rounded to the nearest
// integer and the status that percentage maps to. An empty checklist is
// 0% and Pending.
//
// Checklist replacement is the only write path that stores these derived
// values back onto a task; direct status updates bypass them.
func ChecklistProgress(items []TodoItem) (completed, total, progress int, status string) {
	total = len(items)
	for _, item := range items {
		if item.Completed {
			completed++
		}
	}

	if total > 0 {
		progress = int(math.Round(float64(completed) / float64(total) * 100))
	}

	switch {
	case progress == 100:
		status = StatusCompleted
	case progress > 0:
		status = StatusInProgress
	default:
		status = StatusPending
	}
	return completed, total, progress, status
}
