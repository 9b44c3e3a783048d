package task

import "time"

var nextStatus = map[Status]Status{
	StatusToDo:       StatusInProgress,
	StatusInProgress: StatusDone,
	StatusDone:       StatusToDo,
}

// Advance returns a copy of r moved one step along To Do → In Progress → Done → To Do.
func Advance(r *Record, now time.Time) *Record {
	a := r.Clone()
	next, ok := nextStatus[r.Status]
	if !ok {
		next = StatusToDo
	}
	a.Status = next
	a.UpdatedAt = &now
	return a
}

// MarkDone jumps straight to Done. It reports false and returns r itself when r is already Done.
func MarkDone(r *Record, now time.Time) (*Record, bool) {
	if r.Status == StatusDone {
		return r, false
	}
	d := r.Clone()
	d.Status = StatusDone
	d.UpdatedAt = &now
	return d, true
}

// EntersDone reports whether a transition from before to after must run recurrence.
func EntersDone(before, after Status) bool {
	return before != StatusDone && after == StatusDone
}

// IsOverdue is derived on every read and never persisted.
func IsOverdue(r *Record, now time.Time) bool {
	return r.DueDate != nil && r.DueDate.Before(now) && r.Status != StatusDone
}
