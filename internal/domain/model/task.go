package model

import (
	"time"
)

type TaskStatus string
type TaskPriority string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"

	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Any status may be set to any other at any time; there is no workflow
// ordering between the three values.
func (s TaskStatus) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

func (p TaskPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Task struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	UserID      int64        `json:"userId"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TaskWithOwner is the admin listing view, joining owner identity into each
// item.
type TaskWithOwner struct {
	Task
	UserEmail string `json:"userEmail"`
	UserName  string `json:"userName"`
}
