// Package service defines the backend-agnostic interface for account and
// task operations.
package service

import (
	"fmt"
	"strings"
	"time"
)

// Status is the completion state of a task.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// IsValid reports whether s is one of the two known statuses.
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// DefaultPriority is applied when a task is created without one.
const DefaultPriority = PriorityMedium

// IsValid reports whether p is one of the three known priorities.
func (p Priority) IsValid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// ParseStatus converts user input to a Status, case-insensitively.
// Empty input returns the zero Status, which matches everything in a filter.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "pending":
		return StatusPending, nil
	case "completed":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("invalid status: %q (want pending or completed)", s)
}

// ParsePriority converts user input to a Priority, case-insensitively.
// Empty input returns the default priority.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultPriority, nil
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("invalid priority: %q (want low, medium or high)", s)
}

// User is the authenticated account holder. It is either fully present in the
// session store or absent; there is no partial state.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Profile is the editable subset of the account.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Task represents a single task item as the backend returns it.
type Task struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	DueDate     string    `json:"dueDate,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Filter selects the server-side result set for a list call. The backend does
// the filtering; the client never re-filters the response.
type Filter struct {
	Keyword string
	Status  Status // zero value matches everything
}

// TaskDraft is the payload for creating a task.
type TaskDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	DueDate     string   `json:"dueDate,omitempty"`
}

// TaskPatch is a partial task update. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	DueDate     *string   `json:"dueDate,omitempty"`
}

// ProfilePatch is a partial profile update. Nil fields are left unchanged.
type ProfilePatch struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Summary holds the dashboard counters. They are derived from one list
// response, never fetched, so they are only as fresh as that response.
type Summary struct {
	Total        int
	Completed    int
	Pending      int
	HighPriority int
}

// Summarize derives the dashboard counters from the current result set.
// HighPriority counts high-priority tasks that are not yet completed.
func Summarize(tasks []Task) Summary {
	s := Summary{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case StatusCompleted:
			s.Completed++
		case StatusPending:
			s.Pending++
		}
		if t.Priority == PriorityHigh && t.Status != StatusCompleted {
			s.HighPriority++
		}
	}
	return s
}
