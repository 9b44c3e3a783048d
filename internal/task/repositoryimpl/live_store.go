package repositoryimpl

import (
	"context"
	"log/slog"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/kazz187/roomez/internal/eventbus"
	"github.com/kazz187/roomez/internal/task"
	"github.com/kazz187/roomez/pkg/cerr"
)

var _ task.Store = (*LiveStore)(nil)

// LiveStore adds room snapshots on top of any Repository. Writes made through it are
// announced on the event bus, and every subscriber of the affected room reloads the
// full list.
type LiveStore struct {
	task.Repository
	eventBus *eventbus.Bus

	mu   sync.Mutex
	subs map[task.CancelHandle]*subscription
}

type subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func NewLiveStore(repo task.Repository, eventBus *eventbus.Bus) *LiveStore {
	return &LiveStore{
		Repository: repo,
		eventBus:   eventBus,
		subs:       make(map[task.CancelHandle]*subscription),
	}
}

func (s *LiveStore) Save(ctx context.Context, roomCode string, t *task.Record) error {
	if err := s.Repository.Save(ctx, roomCode, t); err != nil {
		return err
	}
	s.eventBus.PublishNew(eventbus.EventTaskSaved, roomCode, t.ID, map[string]string{"status": string(t.Status)})
	return nil
}

func (s *LiveStore) Delete(ctx context.Context, roomCode, id string) error {
	if err := s.Repository.Delete(ctx, roomCode, id); err != nil {
		return err
	}
	s.eventBus.PublishNew(eventbus.EventTaskDeleted, roomCode, id, nil)
	return nil
}

// Subscribe calls onUpdate with the room's task list right away and again after every
// change to the room. Calls are sequential. onUpdate must not call Unsubscribe.
func (s *LiveStore) Subscribe(roomCode string, onUpdate func([]*task.Record)) (task.CancelHandle, error) {
	if onUpdate == nil {
		return "", cerr.NewError(cerr.InvalidArgument, "onUpdate must not be nil", nil)
	}
	// Subscribe to the bus before the first load so no change slips in between.
	busID, events := s.eventBus.Subscribe(64)
	ctx, cancel := context.WithCancel(context.Background())
	sub := &subscription{cancel: cancel, done: make(chan struct{})}
	handle := task.CancelHandle(ulid.Make().String())

	s.mu.Lock()
	s.subs[handle] = sub
	s.mu.Unlock()

	go func() {
		defer close(sub.done)
		defer s.eventBus.Unsubscribe(busID)

		s.push(ctx, roomCode, onUpdate)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				if !affects(e, roomCode) {
					continue
				}
				drain(events)
				s.push(ctx, roomCode, onUpdate)
			}
		}
	}()
	return handle, nil
}

// Unsubscribe stops the subscription and waits until its last callback has returned.
func (s *LiveStore) Unsubscribe(h task.CancelHandle) {
	s.mu.Lock()
	sub, ok := s.subs[h]
	delete(s.subs, h)
	s.mu.Unlock()
	if !ok {
		return
	}
	sub.cancel()
	<-sub.done
}

// Close stops every subscription.
func (s *LiveStore) Close() {
	s.mu.Lock()
	handles := make([]task.CancelHandle, 0, len(s.subs))
	for h := range s.subs {
		handles = append(handles, h)
	}
	s.mu.Unlock()
	for _, h := range handles {
		s.Unsubscribe(h)
	}
}

func (s *LiveStore) push(ctx context.Context, roomCode string, onUpdate func([]*task.Record)) {
	all, err := s.List(ctx, roomCode)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("failed to reload room tasks, keeping previous snapshot", "room", roomCode, "error", err)
		}
		return
	}
	if ctx.Err() != nil {
		return
	}
	onUpdate(all)
}

func affects(e *eventbus.Event, roomCode string) bool {
	if e.RoomCode != roomCode {
		return false
	}
	switch e.Type {
	case eventbus.EventTaskSaved, eventbus.EventTaskDeleted, eventbus.EventRoomChanged:
		return true
	}
	return false
}

// drain discards events already queued; the next reload covers them.
func drain(events <-chan *eventbus.Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
