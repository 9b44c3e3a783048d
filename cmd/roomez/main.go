package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	roomezv1 "github.com/kazz187/roomez/internal/api/roomezv1"
	"github.com/kazz187/roomez/internal/client"
	"github.com/kazz187/roomez/internal/room"
	"github.com/kazz187/roomez/internal/task"
)

var (
	app = kingpin.New("roomez", "Shared chores and tasks for roommates")

	configPath = app.Flag("config", "Config file").Default(defaultConfigPath()).String()
	serverFlag = app.Flag("server", "Server base URL").String()
	apiKeyFlag = app.Flag("api-key", "API key").String()
	roomFlag   = app.Flag("room", "Room code").Short('r').String()

	taskCmd = app.Command("task", "Task commands")

	listCmd      = taskCmd.Command("list", "List the tasks of the room").Default()
	listStatus   = listCmd.Flag("status", "All, To Do, In Progress or Done").Default("All").String()
	listDate     = listCmd.Flag("date", "Only tasks due that day (YYYY-MM-DD)").String()
	listAssignee = listCmd.Flag("assignee", "Only tasks of this roommate (Unassigned for none)").String()

	addCmd   = taskCmd.Command("add", "Create a task")
	addIn    = inputFlags(addCmd)
	addTitle = addCmd.Arg("title", "Task title").Required().String()

	editCmd   = taskCmd.Command("edit", "Edit a task")
	editID    = editCmd.Arg("id", "Task ID").Required().String()
	editIn    = inputFlags(editCmd)
	editTitle = editCmd.Flag("title", "New title").String()

	advanceCmd = taskCmd.Command("advance", "Move a task to its next status")
	advanceID  = advanceCmd.Arg("id", "Task ID").Required().String()

	doneCmd = taskCmd.Command("done", "Mark a task as finished")
	doneID  = doneCmd.Arg("id", "Task ID").Required().String()

	deleteCmd = taskCmd.Command("delete", "Delete a task permanently")
	deleteID  = deleteCmd.Arg("id", "Task ID").Required().String()

	watchCmd      = taskCmd.Command("watch", "Print the task list on every change")
	watchStatus   = watchCmd.Flag("status", "All, To Do, In Progress or Done").Default("All").String()
	watchDate     = watchCmd.Flag("date", "Only tasks due that day (YYYY-MM-DD)").String()
	watchAssignee = watchCmd.Flag("assignee", "Only tasks of this roommate").String()

	roomCmd        = app.Command("room", "Room commands")
	roomNewCodeCmd = roomCmd.Command("new-code", "Generate a room code to share with roommates")
	roomCodeLength = roomNewCodeCmd.Flag("length", "Code length").Default("4").Int()

	pushCmd         = app.Command("push", "Push notification commands")
	pushVAPIDKeyCmd = pushCmd.Command("vapid-key", "Print the server's VAPID public key")
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, command); err != nil {
		errorf("%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string) error {
	if command == roomNewCodeCmd.FullCommand() {
		code, err := room.GenerateCode(*roomCodeLength)
		if err != nil {
			return err
		}
		fmt.Println(code)
		return nil
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	cfg.override(*serverFlag, *apiKeyFlag, *roomFlag)

	if command == pushVAPIDKeyCmd.FullCommand() {
		key, err := client.NewPushClient(http.DefaultClient, cfg.Server, cfg.APIKey).VAPIDPublicKey(ctx)
		if err != nil {
			return err
		}
		fmt.Println(key)
		return nil
	}

	if cfg.Room == "" {
		return fmt.Errorf("no room selected: pass --room or set room in %s", *configPath)
	}
	c := client.NewTaskClient(http.DefaultClient, cfg.Server, cfg.APIKey, cfg.Room)

	switch command {
	case listCmd.FullCommand():
		view, err := taskView(*listStatus, *listDate, *listAssignee)
		if err != nil {
			return err
		}
		tasks, total, err := c.ListTasks(ctx, view)
		if err != nil {
			return err
		}
		printTasks(os.Stdout, tasks, total)
	case addCmd.FullCommand():
		in, err := addIn.input(*addTitle)
		if err != nil {
			return err
		}
		r, err := c.CreateTask(ctx, in)
		if err != nil {
			return err
		}
		successf("created %s", r.ID)
	case editCmd.FullCommand():
		return editTask(ctx, c)
	case advanceCmd.FullCommand():
		tr, err := c.AdvanceTask(ctx, *advanceID)
		if err != nil {
			return err
		}
		printTransition(os.Stdout, tr)
	case doneCmd.FullCommand():
		tr, err := c.MarkTaskDone(ctx, *doneID)
		if err != nil {
			return err
		}
		printTransition(os.Stdout, tr)
	case deleteCmd.FullCommand():
		if err := c.DeleteTask(ctx, *deleteID); err != nil {
			return err
		}
		successf("deleted %s", *deleteID)
	case watchCmd.FullCommand():
		view, err := taskView(*watchStatus, *watchDate, *watchAssignee)
		if err != nil {
			return err
		}
		return c.WatchTasks(ctx, view, func(tasks []*task.Record, total int) {
			fmt.Fprint(os.Stdout, "\033[H\033[2J")
			printTasks(os.Stdout, tasks, total)
		})
	}
	return nil
}

// editTask overlays the flags the user passed onto the current task.
func editTask(ctx context.Context, c *client.TaskClient) error {
	all, _, err := c.ListTasks(ctx, roomezv1.TaskView{})
	if err != nil {
		return err
	}
	var cur *task.Record
	for _, r := range all {
		if r.ID == *editID {
			cur = r
			break
		}
	}
	if cur == nil {
		return fmt.Errorf("task %s not found", *editID)
	}
	in, err := editIn.overlay(cur)
	if err != nil {
		return err
	}
	if *editTitle != "" {
		in.Title = *editTitle
	}
	r, err := c.EditTask(ctx, cur.ID, in)
	if err != nil {
		return err
	}
	successf("updated %s", r.ID)
	return nil
}

func taskView(status, date, assignee string) (roomezv1.TaskView, error) {
	if _, err := task.ParseStatusFilter(status); err != nil {
		return roomezv1.TaskView{}, err
	}
	view := roomezv1.TaskView{StatusFilter: status, Assignee: assignee}
	if date != "" {
		d, err := parseTime(date)
		if err != nil {
			return roomezv1.TaskView{}, err
		}
		view.SelectedDate = &d
	}
	return view, nil
}
