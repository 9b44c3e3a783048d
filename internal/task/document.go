package task

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformed marks a persisted document that cannot be turned into a Record.
var ErrMalformed = errors.New("malformed task document")

// Document is the persisted shape of a task. Every field is a pointer so that a
// missing key can be told apart from a zero value when decoding.
type Document struct {
	ID                *string    `yaml:"id"`
	Title             *string    `yaml:"title"`
	Details           *string    `yaml:"details"`
	Assignee          *string    `yaml:"assignee"`
	Status            *string    `yaml:"status"`
	Priority          *string    `yaml:"priority"`
	Frequency         *string    `yaml:"frequency"`
	CreatedAt         *time.Time `yaml:"createdAt"`
	UpdatedAt         *time.Time `yaml:"updatedAt"`
	DueDate           *time.Time `yaml:"dueDate"`
	CompletionPercent *float64   `yaml:"completionPercent"`
	ReminderSet       *bool      `yaml:"reminderSet"`
}

// ToDocument writes every field, with nil for an absent assignee or timestamp.
func ToDocument(r *Record) Document {
	d := Document{
		ID:                ptr(r.ID),
		Title:             ptr(r.Title),
		Details:           ptr(r.Details),
		Status:            ptr(string(r.Status)),
		Priority:          ptr(string(r.Priority)),
		Frequency:         ptr(string(r.Frequency)),
		CreatedAt:         ptr(r.CreatedAt),
		UpdatedAt:         r.UpdatedAt,
		DueDate:           r.DueDate,
		CompletionPercent: ptr(r.CompletionPercent),
		ReminderSet:       ptr(r.ReminderSet),
	}
	if r.Assignee != "" {
		d.Assignee = ptr(r.Assignee)
	}
	return d
}

// Record decodes d. Missing id, title, status, priority or createdAt, or an
// unknown enum value, yields an error wrapping ErrMalformed.
func (d Document) Record() (*Record, error) {
	switch {
	case d.ID == nil || *d.ID == "":
		return nil, fmt.Errorf("%w: missing id", ErrMalformed)
	case d.Title == nil || *d.Title == "":
		return nil, fmt.Errorf("%w: missing title", ErrMalformed)
	case d.Status == nil:
		return nil, fmt.Errorf("%w: missing status", ErrMalformed)
	case d.Priority == nil:
		return nil, fmt.Errorf("%w: missing priority", ErrMalformed)
	case d.CreatedAt == nil:
		return nil, fmt.Errorf("%w: missing createdAt", ErrMalformed)
	}
	status, err := ParseStatus(*d.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	priority, err := ParsePriority(*d.Priority)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	frequency, err := ParseFrequency(deref(d.Frequency))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	r := &Record{
		ID:          *d.ID,
		Title:       *d.Title,
		Details:     deref(d.Details),
		Assignee:    normalizeAssignee(deref(d.Assignee)),
		Status:      status,
		Priority:    priority,
		Frequency:   frequency,
		CreatedAt:   *d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		DueDate:     d.DueDate,
		ReminderSet: deref(d.ReminderSet),
	}
	if d.CompletionPercent != nil {
		r.CompletionPercent = min(max(*d.CompletionPercent, 0), 1)
	}
	return r, nil
}

func ptr[T any](v T) *T {
	return &v
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
