package client

import (
	"context"
	"fmt"

	"connectrpc.com/connect"

	roomezv1 "github.com/kazz187/roomez/internal/api/roomezv1"
	"github.com/kazz187/roomez/internal/api/roomezv1/roomezv1connect"
	"github.com/kazz187/roomez/internal/task"
)

// TaskClient provides client operations for the tasks of one room
type TaskClient struct {
	client   roomezv1connect.TaskServiceClient
	roomCode string
}

// NewTaskClient creates a new task client bound to roomCode
func NewTaskClient(httpClient connect.HTTPClient, baseURL, apiKey, roomCode string) *TaskClient {
	client := roomezv1connect.NewTaskServiceClient(
		httpClient,
		baseURL,
		connect.WithInterceptors(newAuthInterceptor(apiKey)),
	)

	return &TaskClient{
		client:   client,
		roomCode: roomCode,
	}
}

// Transition mirrors task.Transition on the client side.
type Transition struct {
	Task      *task.Record
	Successor *task.Record
	Changed   bool
}

// CreateTask creates a new task
func (c *TaskClient) CreateTask(ctx context.Context, in roomezv1.TaskInput) (*task.Record, error) {
	resp, err := c.client.CreateTask(ctx, connect.NewRequest(&roomezv1.CreateTaskRequest{
		RoomCode: c.roomCode,
		Task:     in,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task.FromAPI(resp.Msg.Task)
}

// EditTask replaces the editable fields of a task
func (c *TaskClient) EditTask(ctx context.Context, id string, in roomezv1.TaskInput) (*task.Record, error) {
	resp, err := c.client.EditTask(ctx, connect.NewRequest(&roomezv1.EditTaskRequest{
		RoomCode: c.roomCode,
		ID:       id,
		Task:     in,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to edit task: %w", err)
	}
	return task.FromAPI(resp.Msg.Task)
}

// AdvanceTask moves a task to its next status
func (c *TaskClient) AdvanceTask(ctx context.Context, id string) (*Transition, error) {
	resp, err := c.client.AdvanceTask(ctx, connect.NewRequest(&roomezv1.AdvanceTaskRequest{
		RoomCode: c.roomCode,
		ID:       id,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to advance task: %w", err)
	}
	return transition(resp.Msg.Task, resp.Msg.Successor, true)
}

// MarkTaskDone completes a task
func (c *TaskClient) MarkTaskDone(ctx context.Context, id string) (*Transition, error) {
	resp, err := c.client.MarkTaskDone(ctx, connect.NewRequest(&roomezv1.MarkTaskDoneRequest{
		RoomCode: c.roomCode,
		ID:       id,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to mark task done: %w", err)
	}
	return transition(resp.Msg.Task, resp.Msg.Successor, resp.Msg.Changed)
}

// DeleteTask permanently removes a task
func (c *TaskClient) DeleteTask(ctx context.Context, id string) error {
	_, err := c.client.DeleteTask(ctx, connect.NewRequest(&roomezv1.DeleteTaskRequest{
		RoomCode: c.roomCode,
		ID:       id,
	}))
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// ListTasks returns the visible tasks for view and the unfiltered total
func (c *TaskClient) ListTasks(ctx context.Context, view roomezv1.TaskView) ([]*task.Record, int, error) {
	view.RoomCode = c.roomCode
	resp, err := c.client.ListTasks(ctx, connect.NewRequest(&roomezv1.ListTasksRequest{TaskView: view}))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	records, err := fromAPIList(resp.Msg.Tasks)
	if err != nil {
		return nil, 0, err
	}
	return records, resp.Msg.Total, nil
}

// WatchTasks calls onSnapshot with every view the server streams until ctx is done
func (c *TaskClient) WatchTasks(ctx context.Context, view roomezv1.TaskView, onSnapshot func(tasks []*task.Record, total int)) error {
	view.RoomCode = c.roomCode
	stream, err := c.client.WatchTasks(ctx, connect.NewRequest(&roomezv1.WatchTasksRequest{TaskView: view}))
	if err != nil {
		return fmt.Errorf("failed to watch tasks: %w", err)
	}
	defer stream.Close()

	for stream.Receive() {
		msg := stream.Msg()
		records, err := fromAPIList(msg.Tasks)
		if err != nil {
			return err
		}
		onSnapshot(records, msg.Total)
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("watch stream failed: %w", err)
	}
	return nil
}

func transition(t, successor *roomezv1.Task, changed bool) (*Transition, error) {
	r, err := task.FromAPI(t)
	if err != nil {
		return nil, err
	}
	tr := &Transition{Task: r, Changed: changed}
	if successor != nil {
		if tr.Successor, err = task.FromAPI(successor); err != nil {
			return nil, err
		}
	}
	return tr, nil
}

func fromAPIList(ts []*roomezv1.Task) ([]*task.Record, error) {
	out := make([]*task.Record, 0, len(ts))
	for _, t := range ts {
		r, err := task.FromAPI(t)
		if err != nil {
			return nil, fmt.Errorf("unexpected task from server: %w", err)
		}
		out = append(out, r)
	}
	return out, nil
}
