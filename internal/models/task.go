package models

import "time"

const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

func ValidStatus(status string) bool {
	return status == StatusPending ||
		status == StatusInProgress ||
		status == StatusCompleted
}

func ValidPriority(priority string) bool {
	return priority == PriorityLow ||
		priority == PriorityMedium ||
		priority == PriorityHigh
}

type TodoItem struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type Task struct {
	ID            string
	Title         string
	Description   string
	Priority      string
	Status        string
	DueDate       time.Time
	AssignedTo    []string
	CreatedBy     string
	TodoChecklist []TodoItem
	Progress      int
	Attachments   []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AssignedToUser reports whether the given user id
// is among the task's assignees.
func (t *Task) AssignedToUser(userID string) bool {
	for _, id := range t.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}
