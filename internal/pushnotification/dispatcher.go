package pushnotification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kazz187/roomez/internal/eventbus"
)

type Notifier interface {
	SendToRoom(ctx context.Context, roomCode string, payload *NotificationPayload)
}

// Dispatcher turns task events into push notifications for the room.
type Dispatcher struct {
	eventBus *eventbus.Bus
	notifier Notifier
}

func NewDispatcher(eventBus *eventbus.Bus, notifier Notifier) *Dispatcher {
	return &Dispatcher{
		eventBus: eventBus,
		notifier: notifier,
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	subID, ch := d.eventBus.Subscribe(256)
	defer d.eventBus.Unsubscribe(subID)

	slog.Info("push notification dispatcher started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("push notification dispatcher stopped")
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if event.Type == eventbus.EventTaskRecurred {
				d.handleTaskRecurred(ctx, event)
			}
		}
	}
}

func (d *Dispatcher) handleTaskRecurred(ctx context.Context, event *eventbus.Event) {
	body := event.Metadata["title"]
	if due, err := time.Parse(time.RFC3339, event.Metadata["due_date"]); err == nil {
		body = fmt.Sprintf("%s is due %s", body, due.Format("Mon, Jan 2"))
	}
	d.notifier.SendToRoom(ctx, event.RoomCode, &NotificationPayload{
		Title: "Next occurrence scheduled",
		Body:  body,
		URL:   fmt.Sprintf("/rooms/%s/tasks/%s", event.RoomCode, event.TaskID),
		Tag:   event.TaskID,
	})
}
