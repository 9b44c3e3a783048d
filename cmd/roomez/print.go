package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/kazz187/roomez/internal/client"
	"github.com/kazz187/roomez/internal/task"
	namecolor "github.com/kazz187/roomez/pkg/color"
)

var (
	overdueColor = color.New(color.FgRed, color.Bold)
	doneColor    = color.New(color.FgGreen)
	progColor    = color.New(color.FgYellow)
	dimColor     = color.New(color.Faint)
)

func statusColor(s task.Status) *color.Color {
	switch s {
	case task.StatusDone:
		return doneColor
	case task.StatusInProgress:
		return progColor
	default:
		return color.New(color.Reset)
	}
}

func formatTask(r *task.Record, now time.Time) string {
	due := "-"
	if r.DueDate != nil {
		due = r.DueDate.Local().Format("Mon Jan 2 15:04")
	}
	line := fmt.Sprintf("%-36s  %-11s  %-6s  %-16s  %-10s  %s",
		r.ID, statusColor(r.Status).Sprint(r.Status), r.Priority, due, namecolor.Name(r.Assignee, task.UnassignedLabel), r.Title)
	if r.IsRecurring() {
		line += dimColor.Sprintf(" (%s)", r.Frequency)
	}
	if task.IsOverdue(r, now) {
		line += " " + overdueColor.Sprint("OVERDUE")
	}
	return line
}

func printTasks(w io.Writer, tasks []*task.Record, total int) {
	now := time.Now()
	for _, r := range tasks {
		fmt.Fprintln(w, formatTask(r, now))
	}
	fmt.Fprintln(w, dimColor.Sprintf("%d of %d tasks", len(tasks), total))
}

func printTransition(w io.Writer, tr *client.Transition) {
	if !tr.Changed {
		fmt.Fprintf(w, "%s is already %s\n", tr.Task.Title, tr.Task.Status)
		return
	}
	fmt.Fprintf(w, "%s → %s\n", tr.Task.Title, statusColor(tr.Task.Status).Sprint(tr.Task.Status))
	if tr.Successor != nil {
		fmt.Fprintf(w, "next occurrence %s due %s\n", tr.Successor.ID, tr.Successor.DueDate.Local().Format("Mon Jan 2 15:04"))
	}
}

func successf(format string, a ...any) {
	color.New(color.FgGreen).Fprintf(os.Stdout, format+"\n", a...)
}

func errorf(format string, a ...any) {
	color.New(color.FgRed).Fprintf(os.Stderr, "error: "+format+"\n", a...)
}
