package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
)

// NextOccurrence builds the successor of a recurring task that has just been completed.
// It returns nil when the task does not repeat or has no due date to offset from.
func NextOccurrence(r *Record, at time.Time) *Record {
	if !r.IsRecurring() || r.DueDate == nil {
		return nil
	}
	due := shiftDue(*r.DueDate, r.Frequency)
	return &Record{
		ID:                uuid.NewString(),
		Title:             r.Title,
		Details:           r.Details,
		DueDate:           &due,
		Assignee:          r.Assignee,
		Status:            StatusToDo,
		Priority:          r.Priority,
		Frequency:         r.Frequency,
		CreatedAt:         at,
		CompletionPercent: 0,
		ReminderSet:       r.ReminderSet,
	}
}

func shiftDue(d time.Time, f Frequency) time.Time {
	switch f {
	case FrequencyDaily:
		return d.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return d.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return addMonthClamped(d)
	}
	return d
}

// addMonthClamped moves d into the following calendar month, pinning the day to the
// last day of that month when it does not exist there (Jan 31 → Feb 28/29).
func addMonthClamped(d time.Time) time.Time {
	first := now.With(d).BeginningOfMonth().AddDate(0, 1, 0)
	last := now.With(first).EndOfMonth().Day()
	day := min(d.Day(), last)
	return time.Date(first.Year(), first.Month(), day, d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), d.Location())
}
