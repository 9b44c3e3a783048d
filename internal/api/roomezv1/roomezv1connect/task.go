// Package roomezv1connect binds the roomez.v1 services to connect handlers and clients.
package roomezv1connect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	roomezv1 "github.com/kazz187/roomez/internal/api/roomezv1"
	"github.com/kazz187/roomez/pkg/jsoncodec"
)

const TaskServiceName = "roomez.v1.TaskService"

const (
	TaskServiceCreateTaskProcedure   = "/roomez.v1.TaskService/CreateTask"
	TaskServiceEditTaskProcedure     = "/roomez.v1.TaskService/EditTask"
	TaskServiceAdvanceTaskProcedure  = "/roomez.v1.TaskService/AdvanceTask"
	TaskServiceMarkTaskDoneProcedure = "/roomez.v1.TaskService/MarkTaskDone"
	TaskServiceDeleteTaskProcedure   = "/roomez.v1.TaskService/DeleteTask"
	TaskServiceListTasksProcedure    = "/roomez.v1.TaskService/ListTasks"
	TaskServiceWatchTasksProcedure   = "/roomez.v1.TaskService/WatchTasks"
)

type TaskServiceHandler interface {
	CreateTask(context.Context, *connect.Request[roomezv1.CreateTaskRequest]) (*connect.Response[roomezv1.CreateTaskResponse], error)
	EditTask(context.Context, *connect.Request[roomezv1.EditTaskRequest]) (*connect.Response[roomezv1.EditTaskResponse], error)
	AdvanceTask(context.Context, *connect.Request[roomezv1.AdvanceTaskRequest]) (*connect.Response[roomezv1.AdvanceTaskResponse], error)
	MarkTaskDone(context.Context, *connect.Request[roomezv1.MarkTaskDoneRequest]) (*connect.Response[roomezv1.MarkTaskDoneResponse], error)
	DeleteTask(context.Context, *connect.Request[roomezv1.DeleteTaskRequest]) (*connect.Response[roomezv1.DeleteTaskResponse], error)
	ListTasks(context.Context, *connect.Request[roomezv1.ListTasksRequest]) (*connect.Response[roomezv1.ListTasksResponse], error)
	WatchTasks(context.Context, *connect.Request[roomezv1.WatchTasksRequest], *connect.ServerStream[roomezv1.WatchTasksResponse]) error
}

// NewTaskServiceHandler returns the mount path and handler for svc.
func NewTaskServiceHandler(svc TaskServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{jsoncodec.WithJSON()}, opts...)
	handlers := map[string]http.Handler{
		TaskServiceCreateTaskProcedure:   connect.NewUnaryHandler(TaskServiceCreateTaskProcedure, svc.CreateTask, opts...),
		TaskServiceEditTaskProcedure:     connect.NewUnaryHandler(TaskServiceEditTaskProcedure, svc.EditTask, opts...),
		TaskServiceAdvanceTaskProcedure:  connect.NewUnaryHandler(TaskServiceAdvanceTaskProcedure, svc.AdvanceTask, opts...),
		TaskServiceMarkTaskDoneProcedure: connect.NewUnaryHandler(TaskServiceMarkTaskDoneProcedure, svc.MarkTaskDone, opts...),
		TaskServiceDeleteTaskProcedure:   connect.NewUnaryHandler(TaskServiceDeleteTaskProcedure, svc.DeleteTask, opts...),
		TaskServiceListTasksProcedure:    connect.NewUnaryHandler(TaskServiceListTasksProcedure, svc.ListTasks, opts...),
		TaskServiceWatchTasksProcedure:   connect.NewServerStreamHandler(TaskServiceWatchTasksProcedure, svc.WatchTasks, opts...),
	}
	return "/" + TaskServiceName + "/", route(handlers)
}

func route(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

type TaskServiceClient interface {
	CreateTask(context.Context, *connect.Request[roomezv1.CreateTaskRequest]) (*connect.Response[roomezv1.CreateTaskResponse], error)
	EditTask(context.Context, *connect.Request[roomezv1.EditTaskRequest]) (*connect.Response[roomezv1.EditTaskResponse], error)
	AdvanceTask(context.Context, *connect.Request[roomezv1.AdvanceTaskRequest]) (*connect.Response[roomezv1.AdvanceTaskResponse], error)
	MarkTaskDone(context.Context, *connect.Request[roomezv1.MarkTaskDoneRequest]) (*connect.Response[roomezv1.MarkTaskDoneResponse], error)
	DeleteTask(context.Context, *connect.Request[roomezv1.DeleteTaskRequest]) (*connect.Response[roomezv1.DeleteTaskResponse], error)
	ListTasks(context.Context, *connect.Request[roomezv1.ListTasksRequest]) (*connect.Response[roomezv1.ListTasksResponse], error)
	WatchTasks(context.Context, *connect.Request[roomezv1.WatchTasksRequest]) (*connect.ServerStreamForClient[roomezv1.WatchTasksResponse], error)
}

type taskServiceClient struct {
	createTask   *connect.Client[roomezv1.CreateTaskRequest, roomezv1.CreateTaskResponse]
	editTask     *connect.Client[roomezv1.EditTaskRequest, roomezv1.EditTaskResponse]
	advanceTask  *connect.Client[roomezv1.AdvanceTaskRequest, roomezv1.AdvanceTaskResponse]
	markTaskDone *connect.Client[roomezv1.MarkTaskDoneRequest, roomezv1.MarkTaskDoneResponse]
	deleteTask   *connect.Client[roomezv1.DeleteTaskRequest, roomezv1.DeleteTaskResponse]
	listTasks    *connect.Client[roomezv1.ListTasksRequest, roomezv1.ListTasksResponse]
	watchTasks   *connect.Client[roomezv1.WatchTasksRequest, roomezv1.WatchTasksResponse]
}

func NewTaskServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TaskServiceClient {
	opts = append([]connect.ClientOption{jsoncodec.WithJSON()}, opts...)
	return &taskServiceClient{
		createTask:   connect.NewClient[roomezv1.CreateTaskRequest, roomezv1.CreateTaskResponse](httpClient, baseURL+TaskServiceCreateTaskProcedure, opts...),
		editTask:     connect.NewClient[roomezv1.EditTaskRequest, roomezv1.EditTaskResponse](httpClient, baseURL+TaskServiceEditTaskProcedure, opts...),
		advanceTask:  connect.NewClient[roomezv1.AdvanceTaskRequest, roomezv1.AdvanceTaskResponse](httpClient, baseURL+TaskServiceAdvanceTaskProcedure, opts...),
		markTaskDone: connect.NewClient[roomezv1.MarkTaskDoneRequest, roomezv1.MarkTaskDoneResponse](httpClient, baseURL+TaskServiceMarkTaskDoneProcedure, opts...),
		deleteTask:   connect.NewClient[roomezv1.DeleteTaskRequest, roomezv1.DeleteTaskResponse](httpClient, baseURL+TaskServiceDeleteTaskProcedure, opts...),
		listTasks:    connect.NewClient[roomezv1.ListTasksRequest, roomezv1.ListTasksResponse](httpClient, baseURL+TaskServiceListTasksProcedure, opts...),
		watchTasks:   connect.NewClient[roomezv1.WatchTasksRequest, roomezv1.WatchTasksResponse](httpClient, baseURL+TaskServiceWatchTasksProcedure, opts...),
	}
}

func (c *taskServiceClient) CreateTask(ctx context.Context, req *connect.Request[roomezv1.CreateTaskRequest]) (*connect.Response[roomezv1.CreateTaskResponse], error) {
	return c.createTask.CallUnary(ctx, req)
}

func (c *taskServiceClient) EditTask(ctx context.Context, req *connect.Request[roomezv1.EditTaskRequest]) (*connect.Response[roomezv1.EditTaskResponse], error) {
	return c.editTask.CallUnary(ctx, req)
}

func (c *taskServiceClient) AdvanceTask(ctx context.Context, req *connect.Request[roomezv1.AdvanceTaskRequest]) (*connect.Response[roomezv1.AdvanceTaskResponse], error) {
	return c.advanceTask.CallUnary(ctx, req)
}

func (c *taskServiceClient) MarkTaskDone(ctx context.Context, req *connect.Request[roomezv1.MarkTaskDoneRequest]) (*connect.Response[roomezv1.MarkTaskDoneResponse], error) {
	return c.markTaskDone.CallUnary(ctx, req)
}

func (c *taskServiceClient) DeleteTask(ctx context.Context, req *connect.Request[roomezv1.DeleteTaskRequest]) (*connect.Response[roomezv1.DeleteTaskResponse], error) {
	return c.deleteTask.CallUnary(ctx, req)
}

func (c *taskServiceClient) ListTasks(ctx context.Context, req *connect.Request[roomezv1.ListTasksRequest]) (*connect.Response[roomezv1.ListTasksResponse], error) {
	return c.listTasks.CallUnary(ctx, req)
}

func (c *taskServiceClient) WatchTasks(ctx context.Context, req *connect.Request[roomezv1.WatchTasksRequest]) (*connect.ServerStreamForClient[roomezv1.WatchTasksResponse], error) {
	return c.watchTasks.CallServerStream(ctx, req)
}
