package repositoryimpl

import (
	"context"
	"strings"

	"github.com/kazz187/roomez/internal/eventbus"
	"github.com/kazz187/roomez/pkg/storage"
)

// WatchLocal publishes room.changed for every task document that changes on disk,
// including edits made by other processes sharing the data directory. It blocks until
// ctx is done.
func WatchLocal(ctx context.Context, local *storage.LocalStorage, eventBus *eventbus.Bus) error {
	return local.Watch(ctx, roomsPrefix, func(p string) {
		roomCode, id, ok := parseTaskPath(p)
		if !ok {
			return
		}
		eventBus.PublishNew(eventbus.EventRoomChanged, roomCode, id, map[string]string{"path": p})
	})
}

// parseTaskPath splits rooms/<ROOM>/tasks/<id>.yaml.
func parseTaskPath(p string) (roomCode, id string, ok bool) {
	parts := strings.Split(p, "/")
	if len(parts) != 4 || parts[0] != roomsPrefix || parts[2] != tasksDir || !strings.HasSuffix(parts[3], yamlExt) {
		return "", "", false
	}
	return parts[1], strings.TrimSuffix(parts[3], yamlExt), true
}
