// Package models defines the core domain types for the todo client.
package models

import (
	"fmt"
	"time"
)

// Status is the derived completion state of a task.
type Status string

const (
	StatusComplete   Status = "complete"
	StatusIncomplete Status = "incomplete"
)

// CompleteProgress is the progress value that marks a task complete.
const CompleteProgress = 100

// Task is the remote, authoritative task record.
type Task struct {
	ID          string `json:"_id"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Progress    int    `json:"progress" validate:"min=0,max=100"`
}

// ViewTask is a display-only projection of a Task.
type ViewTask struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Status      Status    `json:"status" yaml:"status"`
	Time        time.Time `json:"time" yaml:"time"`
	Description string    `json:"description" yaml:"description"`
	Progress    int       `json:"progress" yaml:"progress"`
}

// StatusFor derives the status from progress. Only 100 counts as complete.
func StatusFor(progress int) Status {
	if progress == CompleteProgress {
		return StatusComplete
	}
	return StatusIncomplete
}

// ToView projects a task for display. now is the transform time, not a
// creation or modification time.
func ToView(t Task, now time.Time) ViewTask {
	return ViewTask{
		ID:          t.ID,
		Title:       t.Name,
		Status:      StatusFor(t.Progress),
		Time:        now,
		Description: t.Description,
		Progress:    t.Progress,
	}
}

// Task converts the view back into the remote shape.
func (v ViewTask) Task() Task {
	return Task{
		ID:          v.ID,
		Name:        v.Title,
		Description: v.Description,
		Progress:    v.Progress,
	}
}

// Filter selects which tasks are displayed.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterComplete   Filter = "complete"
	FilterIncomplete Filter = "incomplete"
)

// Filters lists every filter in cycle order.
var Filters = []Filter{FilterAll, FilterComplete, FilterIncomplete}

// ParseFilter converts a string into a Filter.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(s); f {
	case FilterAll, FilterComplete, FilterIncomplete:
		return f, nil
	case "":
		return FilterAll, nil
	default:
		return "", fmt.Errorf("invalid filter %q, must be: all, complete, or incomplete", s)
	}
}

// Matches reports whether a task passes the filter.
func (f Filter) Matches(t ViewTask) bool {
	if f == FilterAll {
		return true
	}
	return Status(f) == t.Status
}

// Next returns the filter that follows f in cycle order.
func (f Filter) Next() Filter {
	for i, candidate := range Filters {
		if candidate == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// AuditEntry records a state-changing request handled by the dev backend.
type AuditEntry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	TaskID     string    `json:"task_id,omitempty"`
	InputsHash string    `json:"inputs_hash"`
	Outcome    string    `json:"outcome"`
	Details    string    `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
