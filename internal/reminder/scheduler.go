// Package reminder periodically looks for overdue tasks that asked for a reminder
// and pushes a notification for each of them to the devices subscribed to the room.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kazz187/roomez/internal/pushnotification"
	"github.com/kazz187/roomez/internal/task"
)

type Scheduler struct {
	repo     task.Repository
	notifier pushnotification.Notifier
	cron     *cron.Cron
	now      func() time.Time
}

type Option func(*Scheduler)

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// NewScheduler registers the sweep under spec, a standard cron expression or a
// descriptor such as "@every 15m", evaluated in loc.
func NewScheduler(repo task.Repository, notifier pushnotification.Notifier, spec string, loc *time.Location, opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := s.cron.AddFunc(spec, func() {
		if _, err := s.Sweep(context.Background()); err != nil {
			slog.Error("reminder sweep failed", "error", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid reminder spec %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the cron loop until ctx is cancelled, then waits for a running sweep to finish.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	slog.Info("reminder scheduler started")
	<-ctx.Done()
	<-s.cron.Stop().Done()
	slog.Info("reminder scheduler stopped")
}

// Sweep sends one reminder per overdue task with ReminderSet across all rooms and
// returns how many were sent. A failing room is logged and skipped.
func (s *Scheduler) Sweep(ctx context.Context) (int, error) {
	rooms, err := s.repo.Rooms(ctx)
	if err != nil {
		return 0, err
	}
	now := s.now()
	sent := 0
	for _, code := range rooms {
		tasks, err := s.repo.List(ctx, code)
		if err != nil {
			slog.WarnContext(ctx, "reminder: failed to list tasks", "room", code, "error", err)
			continue
		}
		for _, r := range Due(tasks, now) {
			slog.InfoContext(ctx, "reminder: task overdue", "room", code, "task_id", r.ID, "title", r.Title, "assignee", r.AssigneeLabel())
			s.notifier.SendToRoom(ctx, code, payload(code, r))
			sent++
		}
	}
	return sent, nil
}

// Due returns the tasks that asked for a reminder and are overdue at now.
func Due(tasks []*task.Record, now time.Time) []*task.Record {
	var out []*task.Record
	for _, r := range tasks {
		if r.ReminderSet && task.IsOverdue(r, now) {
			out = append(out, r)
		}
	}
	return out
}

func payload(code string, r *task.Record) *pushnotification.NotificationPayload {
	body := fmt.Sprintf("%s was due %s", r.Title, r.DueDate.Format("Mon, Jan 2 15:04"))
	if r.Assignee != "" {
		body = fmt.Sprintf("%s (%s)", body, r.Assignee)
	}
	return &pushnotification.NotificationPayload{
		Title: "Task overdue",
		Body:  body,
		URL:   fmt.Sprintf("/rooms/%s/tasks/%s", code, r.ID),
		Tag:   "reminder-" + r.ID,
	}
}
