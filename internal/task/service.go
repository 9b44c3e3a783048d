package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/kazz187/roomez/internal/eventbus"
	"github.com/kazz187/roomez/internal/room"
	"github.com/kazz187/roomez/pkg/cerr"
	"github.com/kazz187/roomez/pkg/clog"
)

// Transition is the outcome of a status change. Successor is set when completing a
// recurring task spawned its next occurrence; Changed is false for a no-op.
// When the successor cannot be saved, Advance and MarkDone return the Transition of
// the already persisted task together with the error, with Successor nil.
type Transition struct {
	Task      *Record `json:"task"`
	Successor *Record `json:"successor,omitempty"`
	Changed   bool    `json:"changed"`
}

type Service struct {
	repo     Repository
	eventBus *eventbus.Bus
	now      func() time.Time
}

type ServiceOption func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo Repository, eventBus *eventbus.Bus, opts ...ServiceOption) *Service {
	s := &Service{
		repo:     repo,
		eventBus: eventBus,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, roomCode string, p CreateParams) (*Record, error) {
	code, err := room.ParseCode(roomCode)
	if err != nil {
		return nil, err
	}
	r, err := New(p, s.now())
	if err != nil {
		return nil, err
	}
	clog.AddAttributes(ctx, map[string]any{"room": code, "task": map[string]any{"id": r.ID}})
	if err := s.repo.Save(ctx, code, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Edit replaces the editable fields of the task with the given ID.
func (s *Service) Edit(ctx context.Context, roomCode, id string, p EditParams) (*Record, error) {
	code, cur, err := s.load(ctx, roomCode, id)
	if err != nil {
		return nil, err
	}
	edited, err := cur.Edited(p, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, code, edited); err != nil {
		return nil, err
	}
	return edited, nil
}

// Advance moves the task one step along the status cycle.
func (s *Service) Advance(ctx context.Context, roomCode, id string) (*Transition, error) {
	code, cur, err := s.load(ctx, roomCode, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, code, cur, Advance(cur, s.now()))
}

// MarkDone completes the task directly. A task that is already Done is returned unchanged.
func (s *Service) MarkDone(ctx context.Context, roomCode, id string) (*Transition, error) {
	code, cur, err := s.load(ctx, roomCode, id)
	if err != nil {
		return nil, err
	}
	done, changed := MarkDone(cur, s.now())
	if !changed {
		return &Transition{Task: cur}, nil
	}
	return s.transition(ctx, code, cur, done)
}

func (s *Service) transition(ctx context.Context, code string, before, after *Record) (*Transition, error) {
	clog.AddAttributes(ctx, map[string]any{"task": map[string]any{"from": string(before.Status), "to": string(after.Status)}})
	if err := s.repo.Save(ctx, code, after); err != nil {
		return nil, err
	}
	tr := &Transition{Task: after, Changed: true}
	if !EntersDone(before.Status, after.Status) {
		return tr, nil
	}
	next := NextOccurrence(after, s.now())
	if next == nil {
		return tr, nil
	}
	if err := s.repo.Save(ctx, code, next); err != nil {
		slog.ErrorContext(ctx, "failed to save next occurrence", "room", code, "task_id", after.ID, "error", err)
		return tr, err
	}
	tr.Successor = next
	s.eventBus.PublishNew(eventbus.EventTaskRecurred, code, next.ID, map[string]string{
		"previous_id": after.ID,
		"title":       next.Title,
		"due_date":    next.DueDate.Format(time.RFC3339),
	})
	return tr, nil
}

func (s *Service) Delete(ctx context.Context, roomCode, id string) error {
	code, err := room.ParseCode(roomCode)
	if err != nil {
		return err
	}
	clog.AddAttributes(ctx, map[string]any{"room": code, "task": map[string]any{"id": id}})
	return s.repo.Delete(ctx, code, id)
}

func (s *Service) List(ctx context.Context, roomCode string) ([]*Record, error) {
	code, err := room.ParseCode(roomCode)
	if err != nil {
		return nil, err
	}
	clog.AddAttribute(ctx, "room", code)
	return s.repo.List(ctx, code)
}

func (s *Service) Get(ctx context.Context, roomCode, id string) (*Record, error) {
	_, r, err := s.load(ctx, roomCode, id)
	return r, err
}

// load finds a task by ID, never by its position in the list.
func (s *Service) load(ctx context.Context, roomCode, id string) (string, *Record, error) {
	code, err := room.ParseCode(roomCode)
	if err != nil {
		return "", nil, err
	}
	clog.AddAttributes(ctx, map[string]any{"room": code, "task": map[string]any{"id": id}})
	all, err := s.repo.List(ctx, code)
	if err != nil {
		return "", nil, err
	}
	for _, r := range all {
		if r.ID == id {
			return code, r, nil
		}
	}
	return "", nil, cerr.NewError(cerr.NotFound, "task not found", nil)
}
