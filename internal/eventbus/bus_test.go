package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishFanOut(t *testing.T) {
	b := New()
	id1, ch1 := b.Subscribe(1)
	_, ch2 := b.Subscribe(1)

	b.PublishNew(EventTaskSaved, "P1NK", "task-1", nil)

	e1 := <-ch1
	e2 := <-ch2
	assert.Equal(t, EventTaskSaved, e1.Type)
	assert.Equal(t, "P1NK", e1.RoomCode)
	assert.Equal(t, "task-1", e1.TaskID)
	assert.NotEmpty(t, e1.ID)
	assert.Same(t, e1, e2)

	b.Unsubscribe(id1)
	_, ok := <-ch1
	assert.False(t, ok)
}

func TestPublishDropsWhenFull(t *testing.T) {
	b := New()
	_, ch := b.Subscribe(1)

	b.PublishNew(EventTaskSaved, "P1NK", "a", nil)
	b.PublishNew(EventTaskSaved, "P1NK", "b", nil)

	e := <-ch
	require.Equal(t, "a", e.TaskID)
	select {
	case e := <-ch:
		t.Fatalf("unexpected event %s", e.TaskID)
	default:
	}
}

func TestUnsubscribeUnknown(t *testing.T) {
	b := New()
	assert.NotPanics(t, func() { b.Unsubscribe("missing") })
}
