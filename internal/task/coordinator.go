package task

import (
	"sync"
	"time"
)

// Coordinator holds the latest snapshot of one room together with the current view
// settings. Snapshots arrive from the store goroutine while reads come from callers, so
// every method takes the lock.
type Coordinator struct {
	mu           sync.RWMutex
	all          []*Record
	status       StatusFilter
	selectedDate *time.Time
	assignee     string
}

func NewCoordinator() *Coordinator {
	return &Coordinator{status: FilterAll}
}

// Replace installs snapshot as the new ground truth. Nothing from the previous snapshot survives.
func (c *Coordinator) Replace(snapshot []*Record) {
	cp := make([]*Record, len(snapshot))
	copy(cp, snapshot)
	c.mu.Lock()
	c.all = cp
	c.mu.Unlock()
}

func (c *Coordinator) SetStatusFilter(f StatusFilter) {
	c.mu.Lock()
	c.status = f
	c.mu.Unlock()
}

// SetSelectedDate narrows the view to one calendar day; nil clears the day filter.
func (c *Coordinator) SetSelectedDate(d *time.Time) {
	c.mu.Lock()
	if d == nil {
		c.selectedDate = nil
	} else {
		v := *d
		c.selectedDate = &v
	}
	c.mu.Unlock()
}

func (c *Coordinator) SetAssignee(a string) {
	c.mu.Lock()
	c.assignee = a
	c.mu.Unlock()
}

// Visible recomputes the filtered, ordered view from the current snapshot.
func (c *Coordinator) Visible(at time.Time) []*Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Filter(FilterByAssignee(c.all, c.assignee), c.status, c.selectedDate, at)
}

// Find looks a task up by ID in the current snapshot.
func (c *Coordinator) Find(id string) (*Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.all {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

func (c *Coordinator) All() []*Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cp := make([]*Record, len(c.all))
	copy(cp, c.all)
	return cp
}
