package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	jan1 = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	noon = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
)

func record(title string, status Status, due *time.Time) *Record {
	return &Record{
		ID:        title,
		Title:     title,
		Status:    status,
		Priority:  PriorityMedium,
		Frequency: FrequencyNone,
		CreatedAt: jan1,
		DueDate:   due,
	}
}

func at(t time.Time) *time.Time {
	return &t
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		from Status
		want Status
	}{
		{StatusToDo, StatusInProgress},
		{StatusInProgress, StatusDone},
		{StatusDone, StatusToDo},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			in := record("dishes", tt.from, nil)
			out := Advance(in, noon)
			assert.Equal(t, tt.want, out.Status)
			assert.Equal(t, noon, *out.UpdatedAt)
			assert.Equal(t, in.ID, out.ID)
			assert.Equal(t, tt.from, in.Status)
			assert.Nil(t, in.UpdatedAt)
		})
	}
}

func TestAdvanceCycleCloses(t *testing.T) {
	for _, s := range []Status{StatusToDo, StatusInProgress, StatusDone} {
		in := record("dishes", s, nil)
		out := Advance(Advance(Advance(in, noon), noon), noon)
		assert.Equal(t, s, out.Status)
	}
}

func TestMarkDone(t *testing.T) {
	in := record("vacuum", StatusToDo, nil)
	out, changed := MarkDone(in, noon)
	assert.True(t, changed)
	assert.Equal(t, StatusDone, out.Status)
	assert.Equal(t, StatusToDo, in.Status)

	again, changed := MarkDone(out, noon.Add(time.Hour))
	assert.False(t, changed)
	assert.Same(t, out, again)
}

func TestEntersDone(t *testing.T) {
	assert.True(t, EntersDone(StatusInProgress, StatusDone))
	assert.True(t, EntersDone(StatusToDo, StatusDone))
	assert.False(t, EntersDone(StatusDone, StatusDone))
	assert.False(t, EntersDone(StatusDone, StatusToDo))
	assert.False(t, EntersDone(StatusToDo, StatusInProgress))
}

func TestIsOverdue(t *testing.T) {
	assert.True(t, IsOverdue(record("a", StatusToDo, at(noon.Add(-time.Minute))), noon))
	assert.True(t, IsOverdue(record("a", StatusInProgress, at(noon.Add(-time.Minute))), noon))
	assert.False(t, IsOverdue(record("a", StatusDone, at(noon.Add(-time.Minute))), noon))
	assert.False(t, IsOverdue(record("a", StatusToDo, at(noon.Add(time.Minute))), noon))
	assert.False(t, IsOverdue(record("a", StatusToDo, at(noon)), noon))
	assert.False(t, IsOverdue(record("a", StatusToDo, nil), noon))
}
