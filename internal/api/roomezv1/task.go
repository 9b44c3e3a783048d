// Package roomezv1 holds the request and response messages of the roomez.v1 API.
// Messages travel as JSON; field names are camelCase.
package roomezv1

import "time"

type Task struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Details           string     `json:"details"`
	DueDate           *time.Time `json:"dueDate,omitempty"`
	Assignee          string     `json:"assignee,omitempty"`
	Status            string     `json:"status"`
	Priority          string     `json:"priority"`
	Frequency         string     `json:"frequency"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
	CompletionPercent float64    `json:"completionPercent"`
	ReminderSet       bool       `json:"reminderSet"`
	// Overdue is derived at response time.
	Overdue bool `json:"overdue"`
}

// TaskInput carries the user-editable fields of a task.
type TaskInput struct {
	Title       string     `json:"title"`
	Details     string     `json:"details,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Assignee    string     `json:"assignee,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Frequency   string     `json:"frequency,omitempty"`
	ReminderSet bool       `json:"reminderSet,omitempty"`
}

type CreateTaskRequest struct {
	RoomCode string    `json:"roomCode"`
	Task     TaskInput `json:"task"`
}

type CreateTaskResponse struct {
	Task *Task `json:"task"`
}

type EditTaskRequest struct {
	RoomCode string    `json:"roomCode"`
	ID       string    `json:"id"`
	Task     TaskInput `json:"task"`
}

type EditTaskResponse struct {
	Task *Task `json:"task"`
}

type AdvanceTaskRequest struct {
	RoomCode string `json:"roomCode"`
	ID       string `json:"id"`
}

type AdvanceTaskResponse struct {
	Task      *Task `json:"task"`
	Successor *Task `json:"successor,omitempty"`
}

type MarkTaskDoneRequest struct {
	RoomCode string `json:"roomCode"`
	ID       string `json:"id"`
}

type MarkTaskDoneResponse struct {
	Task      *Task `json:"task"`
	Successor *Task `json:"successor,omitempty"`
	// Changed is false when the task was already done.
	Changed bool `json:"changed"`
}

type DeleteTaskRequest struct {
	RoomCode string `json:"roomCode"`
	ID       string `json:"id"`
}

type DeleteTaskResponse struct{}

// TaskView selects the visible part of a room's task list.
type TaskView struct {
	RoomCode     string     `json:"roomCode"`
	StatusFilter string     `json:"statusFilter,omitempty"`
	SelectedDate *time.Time `json:"selectedDate,omitempty"`
	Assignee     string     `json:"assignee,omitempty"`
}

type ListTasksRequest struct {
	TaskView
}

type ListTasksResponse struct {
	Tasks []*Task `json:"tasks"`
	// Total counts every task of the room before filtering.
	Total int `json:"total"`
}

type WatchTasksRequest struct {
	TaskView
}

type WatchTasksResponse struct {
	Tasks []*Task `json:"tasks"`
	Total int     `json:"total"`
}
