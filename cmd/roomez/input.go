package main

import (
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	roomezv1 "github.com/kazz187/roomez/internal/api/roomezv1"
	"github.com/kazz187/roomez/internal/task"
)

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

// parseTime reads a timestamp in local time unless it carries an offset.
func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q, expected YYYY-MM-DD[ HH:MM] or RFC3339", s)
}

type taskFlags struct {
	details, due, assignee, priority, frequency string
	remind                                      bool

	set map[string]*bool
}

func inputFlags(cmd *kingpin.CmdClause) *taskFlags {
	f := &taskFlags{set: map[string]*bool{}}
	flag := func(name, help string) *kingpin.FlagClause {
		f.set[name] = new(bool)
		return cmd.Flag(name, help).IsSetByUser(f.set[name])
	}
	flag("details", "Details").StringVar(&f.details)
	flag("due", "Due date (YYYY-MM-DD[ HH:MM], empty clears it)").StringVar(&f.due)
	flag("assignee", "Roommate responsible (Unassigned for none)").StringVar(&f.assignee)
	flag("priority", "Low, Medium or High").StringVar(&f.priority)
	flag("frequency", "None, Daily, Weekly or Monthly").StringVar(&f.frequency)
	flag("remind", "Send a reminder when overdue").BoolVar(&f.remind)
	return f
}

func (f *taskFlags) isSet(name string) bool {
	return *f.set[name]
}

func (f *taskFlags) input(title string) (roomezv1.TaskInput, error) {
	in := roomezv1.TaskInput{
		Title:       title,
		Details:     f.details,
		Assignee:    f.assignee,
		Priority:    f.priority,
		Frequency:   f.frequency,
		ReminderSet: f.remind,
	}
	if f.due != "" {
		d, err := parseTime(f.due)
		if err != nil {
			return roomezv1.TaskInput{}, err
		}
		in.DueDate = &d
	}
	return in, nil
}

// overlay starts from cur and applies only the flags given on the command line.
func (f *taskFlags) overlay(cur *task.Record) (roomezv1.TaskInput, error) {
	in := roomezv1.TaskInput{
		Title:       cur.Title,
		Details:     cur.Details,
		DueDate:     cur.DueDate,
		Assignee:    cur.Assignee,
		Priority:    string(cur.Priority),
		Frequency:   string(cur.Frequency),
		ReminderSet: cur.ReminderSet,
	}
	if f.isSet("details") {
		in.Details = f.details
	}
	if f.isSet("due") {
		in.DueDate = nil
		if f.due != "" {
			d, err := parseTime(f.due)
			if err != nil {
				return roomezv1.TaskInput{}, err
			}
			in.DueDate = &d
		}
	}
	if f.isSet("assignee") {
		in.Assignee = f.assignee
	}
	if f.isSet("priority") {
		in.Priority = f.priority
	}
	if f.isSet("frequency") {
		in.Frequency = f.frequency
	}
	if f.isSet("remind") {
		in.ReminderSet = f.remind
	}
	return in, nil
}
