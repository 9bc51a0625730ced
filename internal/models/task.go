package models

import "time"

// TaskStatus defines the possible statuses for a task on the board.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "inProgress"
	StatusReview     TaskStatus = "review"
	StatusDone       TaskStatus = "done"
	StatusCancelled  TaskStatus = "cancelled"
)

// ValidTaskStatuses contains all accepted task status values.
var ValidTaskStatuses = []TaskStatus{
	StatusTodo,
	StatusInProgress,
	StatusReview,
	StatusDone,
	StatusCancelled,
}

// IsValidTaskStatus checks if a status string is a known TaskStatus.
func IsValidTaskStatus(s string) bool {
	for _, status := range ValidTaskStatuses {
		if string(status) == s {
			return true
		}
	}
	return false
}

// Terminal reports whether the status ends a task's life on the board.
// Reaching a terminal status releases any resource the task holds.
func (s TaskStatus) Terminal() bool {
	return s == StatusDone || s == StatusCancelled
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Task represents a unit of work inside a municipal project.
// StartDate/DueDate are calendar dates; time-of-day is not meaningful.
type Task struct {
	ID                 int64        `json:"id"`
	ProjectID          int64        `json:"project_id"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	Status             TaskStatus   `json:"status"`
	Priority           TaskPriority `json:"priority"`
	AssigneeID         *int64       `json:"assignee_id,omitempty"`
	StartDate          time.Time    `json:"start_date"`
	DueDate            time.Time    `json:"due_date"`
	Dependencies       []int64      `json:"dependencies,omitempty"` // advisory, not validated for cycles
	ResourceID         *int64       `json:"resource_id,omitempty"`
	ResourceAllocation float64      `json:"resource_allocation"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// HoldsResource reports whether the task currently implies a reservation.
func (t *Task) HoldsResource() bool {
	return t.ResourceID != nil && !t.Status.Terminal()
}

// TaskFilter defines the available parameters for filtering tasks.
type TaskFilter struct {
	AssigneeID *int64
	Status     *TaskStatus
	ResourceID *int64
	Priority   *TaskPriority
}
