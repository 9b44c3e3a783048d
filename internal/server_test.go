package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	roomezv1 "github.com/kazz187/roomez/internal/api/roomezv1"
	"github.com/kazz187/roomez/internal/client"
	"github.com/kazz187/roomez/internal/config"
	"github.com/kazz187/roomez/internal/eventbus"
	"github.com/kazz187/roomez/internal/pushnotification"
	pushsubrepo "github.com/kazz187/roomez/internal/pushsubscription/repositoryimpl"
	"github.com/kazz187/roomez/internal/task"
	taskrepo "github.com/kazz187/roomez/internal/task/repositoryimpl"
	"github.com/kazz187/roomez/pkg/storage"
)

const apiKey = "secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	bus := eventbus.New()
	store := taskrepo.NewLiveStore(taskrepo.NewYAMLRepository(local), bus)
	t.Cleanup(store.Close)

	svc := task.NewService(store, bus)
	vapid := &config.VAPIDEnv{}
	srv := NewServer(
		&config.BaseEnv{APIKey: apiKey},
		svc,
		task.NewServer(svc, store),
		pushnotification.NewServer(vapid, pushsubrepo.NewYAMLRepository(local)),
	)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url, key string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func TestAPIKey(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusOK, get(t, ts.URL+"/health", "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, get(t, ts.URL+"/api/rooms/new-code", "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, get(t, ts.URL+"/api/rooms/new-code", "wrong").StatusCode)

	_, _, err := client.NewTaskClient(http.DefaultClient, ts.URL, "wrong", "P1NK").ListTasks(context.Background(), roomezv1.TaskView{})
	assert.Error(t, err)
}

func TestRESTRoutes(t *testing.T) {
	ts := newTestServer(t)

	res := get(t, ts.URL+"/api/rooms/new-code", apiKey)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var code struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&code))
	assert.Len(t, code.Code, 4)

	res = get(t, ts.URL+"/api/rooms/P1NK/tasks", apiKey)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var tasks struct {
		Tasks []map[string]any `json:"tasks"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&tasks))
	assert.Empty(t, tasks.Tasks)

	assert.Equal(t, http.StatusBadRequest, get(t, ts.URL+"/api/rooms/!!/tasks", apiKey).StatusCode)
	assert.Equal(t, http.StatusNotFound, get(t, ts.URL+"/api/nothing", apiKey).StatusCode)
}

func TestTaskLifecycleOverRPC(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t)
	c := client.NewTaskClient(http.DefaultClient, ts.URL, apiKey, "P1NK")

	due := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	created, err := c.CreateTask(ctx, roomezv1.TaskInput{
		Title:     "Take out trash",
		DueDate:   &due,
		Assignee:  "Alice",
		Frequency: "Weekly",
	})
	require.NoError(t, err)
	assert.Equal(t, task.StatusToDo, created.Status)

	tr, err := c.MarkTaskDone(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, tr.Changed)
	assert.Equal(t, task.StatusDone, tr.Task.Status)
	require.NotNil(t, tr.Successor)
	assert.NotEqual(t, created.ID, tr.Successor.ID)
	assert.True(t, due.AddDate(0, 0, 7).Equal(*tr.Successor.DueDate))

	again, err := c.MarkTaskDone(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, again.Changed)
	assert.Nil(t, again.Successor)

	all, total, err := c.ListTasks(ctx, roomezv1.TaskView{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, all, 2)

	todo, total, err := c.ListTasks(ctx, roomezv1.TaskView{StatusFilter: "To Do"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, todo, 1)
	assert.Equal(t, tr.Successor.ID, todo[0].ID)

	edited, err := c.EditTask(ctx, todo[0].ID, roomezv1.TaskInput{Title: "Take out recycling", DueDate: todo[0].DueDate})
	require.NoError(t, err)
	assert.Equal(t, "Take out recycling", edited.Title)
	assert.Equal(t, task.FrequencyWeekly, edited.Frequency)

	require.NoError(t, c.DeleteTask(ctx, created.ID))
	err = c.DeleteTask(ctx, created.ID)
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, _, err = c.ListTasks(ctx, roomezv1.TaskView{StatusFilter: "Someday"})
	assert.Error(t, err)
}

func TestWatchTasksStreamsSnapshots(t *testing.T) {
	ts := newTestServer(t)
	c := client.NewTaskClient(http.DefaultClient, ts.URL, apiKey, "P1NK")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots := make(chan []*task.Record, 8)
	done := make(chan error, 1)
	go func() {
		done <- c.WatchTasks(ctx, roomezv1.TaskView{}, func(tasks []*task.Record, _ int) {
			snapshots <- tasks
		})
	}()

	select {
	case first := <-snapshots:
		assert.Empty(t, first)
	case <-time.After(5 * time.Second):
		t.Fatal("no initial snapshot")
	}

	created, err := c.CreateTask(context.Background(), roomezv1.TaskInput{Title: "Buy milk"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		select {
		case s := <-snapshots:
			return len(s) == 1 && s[0].ID == created.ID
		default:
			return false
		}
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
