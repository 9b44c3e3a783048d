package task

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	roomezv1 "github.com/kazz187/roomez/internal/api/roomezv1"
	"github.com/kazz187/roomez/internal/api/roomezv1/roomezv1connect"
	"github.com/kazz187/roomez/internal/room"
	"github.com/kazz187/roomez/pkg/cerr"
	"github.com/kazz187/roomez/pkg/clog"
)

var _ roomezv1connect.TaskServiceHandler = (*Server)(nil)

type Server struct {
	service *Service
	store   Store
	now     func() time.Time
}

func NewServer(service *Service, store Store) *Server {
	return &Server{
		service: service,
		store:   store,
		now:     time.Now,
	}
}

func (s *Server) CreateTask(ctx context.Context, req *connect.Request[roomezv1.CreateTaskRequest]) (*connect.Response[roomezv1.CreateTaskResponse], error) {
	p, err := paramsFromInput(req.Msg.Task)
	if err != nil {
		return nil, err
	}
	r, err := s.service.Create(ctx, req.Msg.RoomCode, p)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&roomezv1.CreateTaskResponse{
		Task: toAPI(r, s.now()),
	}), nil
}

func (s *Server) EditTask(ctx context.Context, req *connect.Request[roomezv1.EditTaskRequest]) (*connect.Response[roomezv1.EditTaskResponse], error) {
	p, err := paramsFromInput(req.Msg.Task)
	if err != nil {
		return nil, err
	}
	r, err := s.service.Edit(ctx, req.Msg.RoomCode, req.Msg.ID, p)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&roomezv1.EditTaskResponse{
		Task: toAPI(r, s.now()),
	}), nil
}

func (s *Server) AdvanceTask(ctx context.Context, req *connect.Request[roomezv1.AdvanceTaskRequest]) (*connect.Response[roomezv1.AdvanceTaskResponse], error) {
	tr, err := s.service.Advance(ctx, req.Msg.RoomCode, req.Msg.ID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return connect.NewResponse(&roomezv1.AdvanceTaskResponse{
		Task:      toAPI(tr.Task, now),
		Successor: toAPI(tr.Successor, now),
	}), nil
}

func (s *Server) MarkTaskDone(ctx context.Context, req *connect.Request[roomezv1.MarkTaskDoneRequest]) (*connect.Response[roomezv1.MarkTaskDoneResponse], error) {
	tr, err := s.service.MarkDone(ctx, req.Msg.RoomCode, req.Msg.ID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return connect.NewResponse(&roomezv1.MarkTaskDoneResponse{
		Task:      toAPI(tr.Task, now),
		Successor: toAPI(tr.Successor, now),
		Changed:   tr.Changed,
	}), nil
}

func (s *Server) DeleteTask(ctx context.Context, req *connect.Request[roomezv1.DeleteTaskRequest]) (*connect.Response[roomezv1.DeleteTaskResponse], error) {
	if err := s.service.Delete(ctx, req.Msg.RoomCode, req.Msg.ID); err != nil {
		return nil, err
	}
	return connect.NewResponse(&roomezv1.DeleteTaskResponse{}), nil
}

func (s *Server) ListTasks(ctx context.Context, req *connect.Request[roomezv1.ListTasksRequest]) (*connect.Response[roomezv1.ListTasksResponse], error) {
	c, err := coordinatorFor(req.Msg.TaskView)
	if err != nil {
		return nil, err
	}
	all, err := s.service.List(ctx, req.Msg.RoomCode)
	if err != nil {
		return nil, err
	}
	c.Replace(all)
	now := s.now()
	return connect.NewResponse(&roomezv1.ListTasksResponse{
		Tasks: toAPIList(c.Visible(now), now),
		Total: len(all),
	}), nil
}

// WatchTasks sends the filtered view of the room on every snapshot until the client goes away.
func (s *Server) WatchTasks(ctx context.Context, req *connect.Request[roomezv1.WatchTasksRequest], stream *connect.ServerStream[roomezv1.WatchTasksResponse]) error {
	c, err := coordinatorFor(req.Msg.TaskView)
	if err != nil {
		return err
	}
	code, err := room.ParseCode(req.Msg.RoomCode)
	if err != nil {
		return err
	}
	clog.AddAttribute(ctx, "room", code)

	// Snapshots replace each other, so only the latest pending one matters.
	updates := make(chan []*Record, 1)
	handle, err := s.store.Subscribe(code, func(all []*Record) {
		select {
		case <-updates:
		default:
		}
		updates <- all
	})
	if err != nil {
		return err
	}
	defer s.store.Unsubscribe(handle)

	for {
		select {
		case <-ctx.Done():
			return nil
		case all := <-updates:
			c.Replace(all)
			now := s.now()
			if err := stream.Send(&roomezv1.WatchTasksResponse{
				Tasks: toAPIList(c.Visible(now), now),
				Total: len(all),
			}); err != nil {
				slog.DebugContext(ctx, "watch stream closed", "room", code, "error", err)
				return err
			}
		}
	}
}

func coordinatorFor(v roomezv1.TaskView) (*Coordinator, error) {
	f, err := ParseStatusFilter(v.StatusFilter)
	if err != nil {
		return nil, cerr.NewInvalidArgument(err.Error(), "status_filter.enum")
	}
	c := NewCoordinator()
	c.SetStatusFilter(f)
	c.SetSelectedDate(v.SelectedDate)
	c.SetAssignee(v.Assignee)
	return c, nil
}

func paramsFromInput(in roomezv1.TaskInput) (CreateParams, error) {
	p := CreateParams{
		Title:       in.Title,
		Details:     in.Details,
		DueDate:     in.DueDate,
		Assignee:    in.Assignee,
		ReminderSet: in.ReminderSet,
	}
	if in.Priority != "" {
		pr, err := ParsePriority(in.Priority)
		if err != nil {
			return CreateParams{}, cerr.NewInvalidArgument(err.Error(), "priority.enum")
		}
		p.Priority = pr
	}
	if in.Frequency != "" {
		f, err := ParseFrequency(in.Frequency)
		if err != nil {
			return CreateParams{}, cerr.NewInvalidArgument(err.Error(), "frequency.enum")
		}
		p.Frequency = f
	}
	return p, nil
}

func toAPI(r *Record, now time.Time) *roomezv1.Task {
	if r == nil {
		return nil
	}
	return &roomezv1.Task{
		ID:                r.ID,
		Title:             r.Title,
		Details:           r.Details,
		DueDate:           r.DueDate,
		Assignee:          r.Assignee,
		Status:            string(r.Status),
		Priority:          string(r.Priority),
		Frequency:         string(r.Frequency),
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		CompletionPercent: r.CompletionPercent,
		ReminderSet:       r.ReminderSet,
		Overdue:           IsOverdue(r, now),
	}
}

func toAPIList(rs []*Record, now time.Time) []*roomezv1.Task {
	out := make([]*roomezv1.Task, len(rs))
	for i, r := range rs {
		out[i] = toAPI(r, now)
	}
	return out
}

// FromAPI converts a wire task back into a Record. Unknown enum values are rejected.
func FromAPI(t *roomezv1.Task) (*Record, error) {
	status, err := ParseStatus(t.Status)
	if err != nil {
		return nil, err
	}
	priority, err := ParsePriority(t.Priority)
	if err != nil {
		return nil, err
	}
	frequency, err := ParseFrequency(t.Frequency)
	if err != nil {
		return nil, err
	}
	return &Record{
		ID:                t.ID,
		Title:             t.Title,
		Details:           t.Details,
		DueDate:           t.DueDate,
		Assignee:          t.Assignee,
		Status:            status,
		Priority:          priority,
		Frequency:         frequency,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
		CompletionPercent: t.CompletionPercent,
		ReminderSet:       t.ReminderSet,
	}, nil
}
