package repositoryimpl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kazz187/roomez/internal/task"
	"github.com/kazz187/roomez/pkg/cerr"
	"github.com/kazz187/roomez/pkg/storage"
)

var base = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func newRecord(id, title string, createdAt time.Time) *task.Record {
	return &task.Record{
		ID:        id,
		Title:     title,
		Status:    task.StatusToDo,
		Priority:  task.PriorityMedium,
		Frequency: task.FrequencyNone,
		CreatedAt: createdAt,
	}
}

func newLocalRepo(t *testing.T) (*YAMLRepository, *storage.LocalStorage) {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewYAMLRepository(local), local
}

func TestYAMLRepositorySaveAndList(t *testing.T) {
	ctx := context.Background()
	repo, _ := newLocalRepo(t)

	due := base.AddDate(0, 0, 7)
	later := newRecord("b", "Vacuum", base.Add(time.Hour))
	earlier := newRecord("z", "Take out trash", base)
	earlier.DueDate = &due
	earlier.Assignee = "Sam"
	earlier.Frequency = task.FrequencyWeekly
	earlier.ReminderSet = true
	earlier.CompletionPercent = 0.25

	require.NoError(t, repo.Save(ctx, "P1NK", later))
	require.NoError(t, repo.Save(ctx, "P1NK", earlier))
	require.NoError(t, repo.Save(ctx, "GR33N", newRecord("c", "Dishes", base)))

	all, err := repo.List(ctx, "P1NK")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "z", all[0].ID)
	assert.Equal(t, "b", all[1].ID)

	got := all[0]
	assert.Equal(t, "Take out trash", got.Title)
	assert.Equal(t, "Sam", got.Assignee)
	assert.Equal(t, task.FrequencyWeekly, got.Frequency)
	assert.True(t, got.ReminderSet)
	assert.InDelta(t, 0.25, got.CompletionPercent, 1e-9)
	require.NotNil(t, got.DueDate)
	assert.True(t, due.Equal(*got.DueDate))
	assert.True(t, base.Equal(got.CreatedAt))

	rooms, err := repo.Rooms(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"GR33N", "P1NK"}, rooms)

	empty, err := repo.List(ctx, "N0NE")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestYAMLRepositorySaveMerges(t *testing.T) {
	ctx := context.Background()
	repo, local := newLocalRepo(t)

	require.NoError(t, local.Write(ctx, path("P1NK", "a"), []byte(`id: a
title: Old title
status: To Do
priority: Low
createdAt: 2024-01-01T09:00:00Z
assignee: Sam
color: teal
`)))

	r := newRecord("a", "New title", base)
	r.Status = task.StatusInProgress
	require.NoError(t, repo.Save(ctx, "P1NK", r))

	data, err := local.Read(ctx, path("P1NK", "a"))
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Equal(t, "teal", raw["color"])
	assert.Equal(t, "New title", raw["title"])
	assert.Equal(t, "In Progress", raw["status"])
	assert.Nil(t, raw["assignee"])

	all, err := repo.List(ctx, "P1NK")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, task.StatusInProgress, all[0].Status)
	assert.Equal(t, task.PriorityMedium, all[0].Priority)
	assert.Empty(t, all[0].Assignee)
}

func TestYAMLRepositorySkipsMalformed(t *testing.T) {
	ctx := context.Background()
	repo, local := newLocalRepo(t)

	require.NoError(t, repo.Save(ctx, "P1NK", newRecord("good", "Dishes", base)))
	docs := map[string]string{
		"no-title":   "id: no-title\nstatus: To Do\npriority: Low\ncreatedAt: 2024-01-01T09:00:00Z\n",
		"no-created": "id: no-created\ntitle: x\nstatus: To Do\npriority: Low\n",
		"bad-status": "id: bad-status\ntitle: x\nstatus: Blocked\npriority: Low\ncreatedAt: 2024-01-01T09:00:00Z\n",
		"broken":     "id: [unterminated\n",
	}
	for id, doc := range docs {
		require.NoError(t, local.Write(ctx, path("P1NK", id), []byte(doc)))
	}
	require.NoError(t, local.Write(ctx, tasksPath("P1NK")+"/notes.txt", []byte("ignored")))

	legacy := "id: legacy\ntitle: Mop\nstatus: Done\npriority: High\ncreatedAt: 2023-12-31T09:00:00Z\n"
	require.NoError(t, local.Write(ctx, path("P1NK", "legacy"), []byte(legacy)))

	all, err := repo.List(ctx, "P1NK")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "legacy", all[0].ID)
	assert.Equal(t, task.FrequencyNone, all[0].Frequency)
	assert.Empty(t, all[0].Details)
	assert.Equal(t, "good", all[1].ID)
}

func TestYAMLRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo, _ := newLocalRepo(t)

	require.NoError(t, repo.Save(ctx, "P1NK", newRecord("a", "Dishes", base)))
	require.NoError(t, repo.Delete(ctx, "P1NK", "a"))
	assert.True(t, cerr.IsCode(repo.Delete(ctx, "P1NK", "a"), cerr.NotFound))

	all, err := repo.List(ctx, "P1NK")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestYAMLRepositoryRejectsInvalid(t *testing.T) {
	repo, _ := newLocalRepo(t)
	err := repo.Save(context.Background(), "P1NK", newRecord("a", " ", base))
	assert.True(t, cerr.IsCode(err, cerr.InvalidArgument))
}
