package repositoryimpl

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/roomez/internal/eventbus"
	"github.com/kazz187/roomez/internal/task"
)

type snapshots struct {
	mu  sync.Mutex
	got [][]*task.Record
}

func (s *snapshots) add(all []*task.Record) {
	s.mu.Lock()
	s.got = append(s.got, all)
	s.mu.Unlock()
}

func (s *snapshots) last() []*task.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.got) == 0 {
		return nil
	}
	return s.got[len(s.got)-1]
}

func (s *snapshots) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.got)
}

func TestLiveStorePushesSnapshots(t *testing.T) {
	ctx := context.Background()
	repo, _ := newLocalRepo(t)
	store := NewLiveStore(repo, eventbus.New())
	defer store.Close()

	require.NoError(t, store.Save(ctx, "P1NK", newRecord("a", "Dishes", base)))

	var snaps snapshots
	h, err := store.Subscribe("P1NK", snaps.add)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(snaps.last()) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, store.Save(ctx, "P1NK", newRecord("b", "Vacuum", base.Add(time.Hour))))
	require.Eventually(t, func() bool { return len(snaps.last()) == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, store.Delete(ctx, "P1NK", "a"))
	require.Eventually(t, func() bool {
		last := snaps.last()
		return len(last) == 1 && last[0].ID == "b"
	}, time.Second, 5*time.Millisecond)

	store.Unsubscribe(h)
	n := snaps.count()
	require.NoError(t, store.Save(ctx, "P1NK", newRecord("c", "Mop", base)))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, n, snaps.count())
}

func TestLiveStoreIgnoresOtherRooms(t *testing.T) {
	ctx := context.Background()
	repo, _ := newLocalRepo(t)
	store := NewLiveStore(repo, eventbus.New())
	defer store.Close()

	var snaps snapshots
	h, err := store.Subscribe("P1NK", snaps.add)
	require.NoError(t, err)
	defer store.Unsubscribe(h)
	require.Eventually(t, func() bool { return snaps.count() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, store.Save(ctx, "GR33N", newRecord("x", "Dishes", base)))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, snaps.count())
}

type flakyRepo struct {
	*YAMLRepository
	mu   sync.Mutex
	fail bool
}

func (f *flakyRepo) List(ctx context.Context, roomCode string) ([]*task.Record, error) {
	f.mu.Lock()
	fail := f.fail
	f.mu.Unlock()
	if fail {
		return nil, errors.New("network down")
	}
	return f.YAMLRepository.List(ctx, roomCode)
}

func TestLiveStoreKeepsSnapshotOnReloadFailure(t *testing.T) {
	ctx := context.Background()
	yamlRepo, _ := newLocalRepo(t)
	repo := &flakyRepo{YAMLRepository: yamlRepo}
	bus := eventbus.New()
	store := NewLiveStore(repo, bus)
	defer store.Close()

	require.NoError(t, store.Save(ctx, "P1NK", newRecord("a", "Dishes", base)))
	var snaps snapshots
	_, err := store.Subscribe("P1NK", snaps.add)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return snaps.count() == 1 }, time.Second, 5*time.Millisecond)

	repo.mu.Lock()
	repo.fail = true
	repo.mu.Unlock()
	bus.PublishNew(eventbus.EventRoomChanged, "P1NK", "a", nil)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, snaps.count())

	repo.mu.Lock()
	repo.fail = false
	repo.mu.Unlock()
	bus.PublishNew(eventbus.EventRoomChanged, "P1NK", "a", nil)
	require.Eventually(t, func() bool { return snaps.count() == 2 }, time.Second, 5*time.Millisecond)
}

func TestLiveStoreSubscribeNilCallback(t *testing.T) {
	repo, _ := newLocalRepo(t)
	store := NewLiveStore(repo, eventbus.New())
	_, err := store.Subscribe("P1NK", nil)
	assert.Error(t, err)
	store.Unsubscribe("unknown")
}
