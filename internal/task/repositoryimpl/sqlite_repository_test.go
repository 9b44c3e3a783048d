package repositoryimpl

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/roomez/internal/eventbus"
	"github.com/kazz187/roomez/internal/task"
	"github.com/kazz187/roomez/pkg/cerr"
)

func newSQLiteRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "roomez.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, repo.Close())
	})
	return repo
}

func TestSQLiteRepositorySaveAndList(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	due := base.AddDate(0, 1, 0)
	r := newRecord("a", "Clean fridge", base.Add(time.Hour))
	r.DueDate = &due
	r.Assignee = "Alex"
	r.Frequency = task.FrequencyMonthly
	r.ReminderSet = true
	require.NoError(t, repo.Save(ctx, "P1NK", r))
	require.NoError(t, repo.Save(ctx, "P1NK", newRecord("b", "Dishes", base)))
	require.NoError(t, repo.Save(ctx, "GR33N", newRecord("c", "Mop", base)))

	all, err := repo.List(ctx, "P1NK")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].ID)
	assert.Equal(t, "a", all[1].ID)
	assert.Equal(t, "Alex", all[1].Assignee)
	assert.Equal(t, task.FrequencyMonthly, all[1].Frequency)
	assert.True(t, all[1].ReminderSet)
	require.NotNil(t, all[1].DueDate)
	assert.True(t, due.Equal(*all[1].DueDate))
	assert.Nil(t, all[0].DueDate)

	rooms, err := repo.Rooms(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"GR33N", "P1NK"}, rooms)
}

func TestSQLiteRepositoryUpsert(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	r := newRecord("a", "Dishes", base)
	require.NoError(t, repo.Save(ctx, "P1NK", r))

	now := base.Add(time.Hour)
	r.Status = task.StatusDone
	r.UpdatedAt = &now
	require.NoError(t, repo.Save(ctx, "P1NK", r))

	all, err := repo.List(ctx, "P1NK")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, task.StatusDone, all[0].Status)
	require.NotNil(t, all[0].UpdatedAt)
	assert.True(t, now.Equal(*all[0].UpdatedAt))
}

func TestSQLiteRepositorySkipsMalformed(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	require.NoError(t, repo.Save(ctx, "P1NK", newRecord("good", "Dishes", base)))
	_, err := repo.db.ExecContext(ctx,
		"INSERT INTO tasks (room_code, id, title, status, priority, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		"P1NK", "bad", "Broken", "Blocked", "Low", base)
	require.NoError(t, err)
	_, err = repo.db.ExecContext(ctx,
		"INSERT INTO tasks (room_code, id, status, priority, created_at) VALUES (?, ?, ?, ?, ?)",
		"P1NK", "untitled", "To Do", "Low", base)
	require.NoError(t, err)

	all, err := repo.List(ctx, "P1NK")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "good", all[0].ID)
	assert.Equal(t, task.FrequencyNone, all[0].Frequency)
}

func TestSQLiteRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	require.NoError(t, repo.Save(ctx, "P1NK", newRecord("a", "Dishes", base)))
	require.NoError(t, repo.Delete(ctx, "P1NK", "a"))
	assert.True(t, cerr.IsCode(repo.Delete(ctx, "P1NK", "a"), cerr.NotFound))
}

func TestSQLiteRepositoryReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "roomez.db")

	repo, err := NewSQLiteRepository(dbPath)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, "P1NK", newRecord("a", "Dishes", base)))
	require.NoError(t, repo.Close())

	repo, err = NewSQLiteRepository(dbPath)
	require.NoError(t, err)
	defer repo.Close()
	all, err := repo.List(ctx, "P1NK")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLiteRepositoryMonthlyKeepsDueDateZone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	tests := []struct {
		name string
		loc  *time.Location
	}{
		{name: "named location", loc: tokyo},
		{name: "fixed zone", loc: time.FixedZone("JST", 9*60*60)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := newSQLiteRepo(t)

			due := time.Date(2024, 3, 31, 0, 0, 0, 0, tt.loc)
			r := newRecord("rent", "Pay rent", base)
			r.DueDate = &due
			r.Frequency = task.FrequencyMonthly
			require.NoError(t, repo.Save(ctx, "P1NK", r))

			all, err := repo.List(ctx, "P1NK")
			require.NoError(t, err)
			require.Len(t, all, 1)
			require.NotNil(t, all[0].DueDate)
			assert.True(t, due.Equal(*all[0].DueDate))
			_, offset := all[0].DueDate.Zone()
			assert.Equal(t, 9*60*60, offset)

			svc := task.NewService(repo, eventbus.New())
			tr, err := svc.MarkDone(ctx, "P1NK", "rent")
			require.NoError(t, err)
			require.NotNil(t, tr.Successor)
			next := *tr.Successor.DueDate
			assert.True(t, time.Date(2024, 4, 30, 0, 0, 0, 0, tt.loc).Equal(next), "got %s", next)
			assert.Equal(t, 30, next.Day())
			assert.Equal(t, 0, next.Hour())

			// The successor survives its own round trip with the same wall clock.
			all, err = repo.List(ctx, "P1NK")
			require.NoError(t, err)
			require.Len(t, all, 2)
			for _, rec := range all {
				if rec.ID == tr.Successor.ID {
					assert.Equal(t, 30, rec.DueDate.Day())
					assert.Equal(t, time.April, rec.DueDate.Month())
				}
			}
		})
	}
}
