package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kazz187/roomez/pkg/cerr"
)

// Status is the lifecycle state of a task. The string values are the persisted form.
type Status string

const (
	StatusToDo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// Priority of a task. Defaults to PriorityMedium.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Frequency controls whether completing a task spawns a successor.
type Frequency string

const (
	FrequencyNone    Frequency = "None"
	FrequencyDaily   Frequency = "Daily"
	FrequencyWeekly  Frequency = "Weekly"
	FrequencyMonthly Frequency = "Monthly"
)

// UnassignedLabel is the display value for a task without an assignee.
const UnassignedLabel = "Unassigned"

func ParseStatus(s string) (Status, error) {
	switch norm(s) {
	case "todo":
		return StatusToDo, nil
	case "inprogress":
		return StatusInProgress, nil
	case "done":
		return StatusDone, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

func ParsePriority(s string) (Priority, error) {
	switch norm(s) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// ParseFrequency treats an empty string as FrequencyNone; older documents omit the field.
func ParseFrequency(s string) (Frequency, error) {
	switch norm(s) {
	case "", "none":
		return FrequencyNone, nil
	case "daily":
		return FrequencyDaily, nil
	case "weekly":
		return FrequencyWeekly, nil
	case "monthly":
		return FrequencyMonthly, nil
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}

// norm lowercases and drops spaces, dashes and underscores so "In Progress",
// "in-progress" and "IN_PROGRESS" all compare equal.
func norm(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}

// Record is one chore of a room.
type Record struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Details           string     `json:"details"`
	DueDate           *time.Time `json:"dueDate,omitempty"`
	Assignee          string     `json:"assignee,omitempty"`
	Status            Status     `json:"status"`
	Priority          Priority   `json:"priority"`
	Frequency         Frequency  `json:"frequency"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
	CompletionPercent float64    `json:"completionPercent"`
	ReminderSet       bool       `json:"reminderSet"`
}

// CreateParams are the user-supplied fields of a new task.
type CreateParams struct {
	Title       string     `json:"title"`
	Details     string     `json:"details"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Assignee    string     `json:"assignee"`
	Priority    Priority   `json:"priority"`
	Frequency   Frequency  `json:"frequency"`
	ReminderSet bool       `json:"reminderSet"`
}

// New builds a ToDo record with a fresh ID. The title is trimmed and must not be empty.
func New(p CreateParams, now time.Time) (*Record, error) {
	r := &Record{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(p.Title),
		Details:     p.Details,
		DueDate:     p.DueDate,
		Assignee:    normalizeAssignee(p.Assignee),
		Status:      StatusToDo,
		Priority:    p.Priority,
		Frequency:   p.Frequency,
		CreatedAt:   now,
		ReminderSet: p.ReminderSet,
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	if r.Frequency == "" {
		r.Frequency = FrequencyNone
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// EditParams replace the editable fields of a task. ID, status and creation time are kept.
type EditParams = CreateParams

// Edited returns a copy of r with the editable fields replaced and UpdatedAt set.
func (r *Record) Edited(p EditParams, now time.Time) (*Record, error) {
	e := r.Clone()
	e.Title = strings.TrimSpace(p.Title)
	e.Details = p.Details
	e.DueDate = p.DueDate
	e.Assignee = normalizeAssignee(p.Assignee)
	if p.Priority != "" {
		e.Priority = p.Priority
	}
	if p.Frequency != "" {
		e.Frequency = p.Frequency
	}
	e.ReminderSet = p.ReminderSet
	e.UpdatedAt = &now
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks the invariants every persisted record must hold.
func (r *Record) Validate() error {
	if r.ID == "" {
		return cerr.NewInvalidArgument("task id must not be empty", "id.required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return cerr.NewInvalidArgument("task title must not be empty", "title.required")
	}
	if _, err := ParseStatus(string(r.Status)); err != nil {
		return cerr.NewInvalidArgument(err.Error(), "status.enum")
	}
	if _, err := ParsePriority(string(r.Priority)); err != nil {
		return cerr.NewInvalidArgument(err.Error(), "priority.enum")
	}
	if _, err := ParseFrequency(string(r.Frequency)); err != nil {
		return cerr.NewInvalidArgument(err.Error(), "frequency.enum")
	}
	if r.CompletionPercent < 0 || r.CompletionPercent > 1 {
		return cerr.NewInvalidArgument("completion percent must be within 0.0 and 1.0", "completion_percent.range")
	}
	return nil
}

// Clone returns a deep copy; time pointers are not shared.
func (r *Record) Clone() *Record {
	c := *r
	if r.DueDate != nil {
		d := *r.DueDate
		c.DueDate = &d
	}
	if r.UpdatedAt != nil {
		u := *r.UpdatedAt
		c.UpdatedAt = &u
	}
	return &c
}

// IsRecurring reports whether completing the task spawns a successor.
func (r *Record) IsRecurring() bool {
	return r.Frequency != FrequencyNone && r.Frequency != ""
}

// AssigneeLabel is the display form of the assignee.
func (r *Record) AssigneeLabel() string {
	if r.Assignee == "" {
		return UnassignedLabel
	}
	return r.Assignee
}

func normalizeAssignee(a string) string {
	a = strings.TrimSpace(a)
	if strings.EqualFold(a, UnassignedLabel) {
		return ""
	}
	return a
}
