package task

import "context"

type Repository interface {
	// Save upserts r by ID, merging onto an existing document.
	Save(ctx context.Context, roomCode string, r *Record) error
	Delete(ctx context.Context, roomCode, id string) error
	// List returns the room's tasks ordered by creation time. Malformed documents are skipped.
	List(ctx context.Context, roomCode string) ([]*Record, error)
	Rooms(ctx context.Context) ([]string, error)
}

// CancelHandle identifies one live subscription.
type CancelHandle string

// Store is a Repository that also streams room snapshots.
type Store interface {
	Repository
	// Subscribe delivers the full task list of the room now and after every change,
	// until Unsubscribe is called with the returned handle.
	Subscribe(roomCode string, onUpdate func([]*Record)) (CancelHandle, error)
	Unsubscribe(h CancelHandle)
}
