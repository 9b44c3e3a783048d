package task

import (
	"fmt"
	"slices"
	"time"
)

type StatusFilter string

const (
	FilterAll        StatusFilter = "All"
	FilterToDo       StatusFilter = StatusFilter(StatusToDo)
	FilterInProgress StatusFilter = StatusFilter(StatusInProgress)
	FilterDone       StatusFilter = StatusFilter(StatusDone)
)

// ParseStatusFilter accepts "All" or any status spelling ParseStatus accepts. Empty means All.
func ParseStatusFilter(s string) (StatusFilter, error) {
	if n := norm(s); n == "" || n == "all" {
		return FilterAll, nil
	}
	st, err := ParseStatus(s)
	if err != nil {
		return "", fmt.Errorf("unknown status filter %q", s)
	}
	return StatusFilter(st), nil
}

func (f StatusFilter) matches(r *Record) bool {
	return f == "" || f == FilterAll || Status(f) == r.Status
}

// Filter derives the visible list from a room snapshot. Tasks without a due date survive
// the day filter. The result is ordered overdue first, then by due date with a missing due
// date sorting as now; ties keep snapshot order. all is never modified.
func Filter(all []*Record, status StatusFilter, selectedDate *time.Time, at time.Time) []*Record {
	out := make([]*Record, 0, len(all))
	for _, r := range all {
		if !status.matches(r) {
			continue
		}
		if selectedDate != nil && r.DueDate != nil && !sameDay(*r.DueDate, *selectedDate) {
			continue
		}
		out = append(out, r)
	}
	slices.SortStableFunc(out, func(a, b *Record) int {
		ao, bo := IsOverdue(a, at), IsOverdue(b, at)
		if ao != bo {
			if ao {
				return -1
			}
			return 1
		}
		return sortKey(a, at).Compare(sortKey(b, at))
	})
	return out
}

// FilterByAssignee keeps the tasks of one roommate. "Unassigned" selects tasks nobody took;
// an empty name keeps everything.
func FilterByAssignee(all []*Record, assignee string) []*Record {
	if assignee == "" {
		return all
	}
	want := normalizeAssignee(assignee)
	out := make([]*Record, 0, len(all))
	for _, r := range all {
		if r.Assignee == want {
			out = append(out, r)
		}
	}
	return out
}

func sortKey(r *Record, at time.Time) time.Time {
	if r.DueDate == nil {
		return at
	}
	return *r.DueDate
}

// sameDay compares calendar days in the location of sel.
func sameDay(t, sel time.Time) bool {
	ty, tm, td := t.In(sel.Location()).Date()
	sy, sm, sd := sel.Date()
	return ty == sy && tm == sm && td == sd
}
