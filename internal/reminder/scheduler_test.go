package reminder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/roomez/internal/pushnotification"
	"github.com/kazz187/roomez/internal/task"
	"github.com/kazz187/roomez/internal/task/repositoryimpl"
	"github.com/kazz187/roomez/pkg/storage"
)

type captured struct {
	roomCode string
	payload  *pushnotification.NotificationPayload
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []captured
}

func (n *fakeNotifier) SendToRoom(_ context.Context, roomCode string, payload *pushnotification.NotificationPayload) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, captured{roomCode: roomCode, payload: payload})
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

var now = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, repo task.Repository, roomCode, title string, due time.Time, reminder bool, status task.Status) *task.Record {
	t.Helper()
	r, err := task.New(task.CreateParams{Title: title, DueDate: &due, ReminderSet: reminder, Assignee: "Alice"}, now.Add(-48*time.Hour))
	require.NoError(t, err)
	r.Status = status
	require.NoError(t, repo.Save(context.Background(), roomCode, r))
	return r
}

func newRepo(t *testing.T) task.Repository {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return repositoryimpl.NewYAMLRepository(local)
}

func TestSweep(t *testing.T) {
	repo := newRepo(t)
	overdue := seed(t, repo, "P1NK", "Take out trash", now.Add(-time.Hour), true, task.StatusToDo)
	seed(t, repo, "P1NK", "No reminder", now.Add(-time.Hour), false, task.StatusToDo)
	seed(t, repo, "P1NK", "Already done", now.Add(-time.Hour), true, task.StatusDone)
	seed(t, repo, "P1NK", "Not yet due", now.Add(time.Hour), true, task.StatusInProgress)
	other := seed(t, repo, "GR33N", "Water plants", now.Add(-24*time.Hour), true, task.StatusInProgress)

	n := &fakeNotifier{}
	s, err := NewScheduler(repo, n, "@every 1h", time.UTC, WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	sent, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, n.sent, 2)

	byRoom := map[string]*pushnotification.NotificationPayload{}
	for _, c := range n.sent {
		byRoom[c.roomCode] = c.payload
	}
	assert.Equal(t, "reminder-"+overdue.ID, byRoom["P1NK"].Tag)
	assert.Equal(t, "Take out trash was due Wed, Jan 10 11:00 (Alice)", byRoom["P1NK"].Body)
	assert.Equal(t, "reminder-"+other.ID, byRoom["GR33N"].Tag)

	// Every sweep reminds again while the task stays overdue.
	sent, err = s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
}

func TestDue(t *testing.T) {
	past := now.Add(-time.Minute)
	tasks := []*task.Record{
		{ID: "a", ReminderSet: true, DueDate: &past, Status: task.StatusToDo},
		{ID: "b", ReminderSet: true, Status: task.StatusToDo},
		{ID: "c", ReminderSet: true, DueDate: &now, Status: task.StatusToDo},
	}
	due := Due(tasks, now)
	require.Len(t, due, 1)
	assert.Equal(t, "a", due[0].ID)
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewScheduler(newRepo(t), &fakeNotifier{}, "every now and then", time.UTC)
	assert.Error(t, err)
}

func TestStartRunsSweeps(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo, "P1NK", "Take out trash", now.Add(-time.Hour), true, task.StatusToDo)

	n := &fakeNotifier{}
	s, err := NewScheduler(repo, n, "@every 1s", time.UTC, WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return n.count() > 0 }, 3*time.Second, 50*time.Millisecond)
	cancel()
	<-done
}
