package repositoryimpl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/kazz187/roomez/internal/task"
	"github.com/kazz187/roomez/pkg/cerr"
)

var _ task.Repository = (*SQLiteRepository)(nil)

// SQLiteRepository stores tasks in a single table keyed by (room_code, id).
type SQLiteRepository struct {
	db *sqlx.DB
}

// NewSQLiteRepository opens (or creates) the database at dbPath and applies pending migrations.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// SQLite serializes writers anyway; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	r := &SQLiteRepository{db: db}
	if err := r.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return r, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := r.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}
	if tableCount > 0 {
		if err := r.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := r.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
		slog.Debug("applied sqlite migration", "version", m.version)
	}
	return nil
}

// taskRow mirrors the tasks table. Nullable columns are pointers so that a missing
// value reaches task.Document as an absent field.
type taskRow struct {
	RoomCode          string     `db:"room_code"`
	ID                *string    `db:"id"`
	Title             *string    `db:"title"`
	Details           *string    `db:"details"`
	Assignee          *string    `db:"assignee"`
	Status            *string    `db:"status"`
	Priority          *string    `db:"priority"`
	Frequency         *string    `db:"frequency"`
	CreatedAt         *time.Time `db:"created_at"`
	UpdatedAt         *time.Time `db:"updated_at"`
	DueDate           *time.Time `db:"due_date"`
	DueDateZone       *string    `db:"due_date_zone"`
	DueDateOffset     *int       `db:"due_date_offset"`
	CompletionPercent *float64   `db:"completion_percent"`
	ReminderSet       *bool      `db:"reminder_set"`
}

func toRow(roomCode string, t *task.Record) taskRow {
	d := task.ToDocument(t)
	row := taskRow{
		RoomCode:          roomCode,
		ID:                d.ID,
		Title:             d.Title,
		Details:           d.Details,
		Assignee:          d.Assignee,
		Status:            d.Status,
		Priority:          d.Priority,
		Frequency:         d.Frequency,
		CreatedAt:         utc(d.CreatedAt),
		UpdatedAt:         utc(d.UpdatedAt),
		DueDate:           utc(d.DueDate),
		CompletionPercent: d.CompletionPercent,
		ReminderSet:       d.ReminderSet,
	}
	// Timestamps are stored in UTC; the due date's zone is kept aside so that
	// calendar math after a reload happens in the user's location.
	if d.DueDate != nil {
		name := d.DueDate.Location().String()
		_, offset := d.DueDate.Zone()
		row.DueDateZone = &name
		row.DueDateOffset = &offset
	}
	return row
}

func (row taskRow) document() task.Document {
	return task.Document{
		ID:                row.ID,
		Title:             row.Title,
		Details:           row.Details,
		Assignee:          row.Assignee,
		Status:            row.Status,
		Priority:          row.Priority,
		Frequency:         row.Frequency,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
		DueDate:           inZone(row.DueDate, row.DueDateZone, row.DueDateOffset),
		CompletionPercent: row.CompletionPercent,
		ReminderSet:       row.ReminderSet,
	}
}

// inZone moves t back into the location it was saved with. A zone name that does
// not load, or that disagrees with the saved offset, becomes a fixed zone.
func inZone(t *time.Time, zone *string, offset *int) *time.Time {
	if t == nil || zone == nil || offset == nil {
		return t
	}
	if loc, err := time.LoadLocation(*zone); err == nil {
		if _, off := t.In(loc).Zone(); off == *offset {
			v := t.In(loc)
			return &v
		}
	}
	v := t.In(time.FixedZone(*zone, *offset))
	return &v
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

const upsertTask = `
INSERT INTO tasks (
	room_code, id, title, details, assignee,
	status, priority, frequency,
	created_at, updated_at, due_date, due_date_zone, due_date_offset,
	completion_percent, reminder_set
) VALUES (
	:room_code, :id, :title, :details, :assignee,
	:status, :priority, :frequency,
	:created_at, :updated_at, :due_date, :due_date_zone, :due_date_offset,
	:completion_percent, :reminder_set
)
ON CONFLICT (room_code, id) DO UPDATE SET
	title = excluded.title,
	details = excluded.details,
	assignee = excluded.assignee,
	status = excluded.status,
	priority = excluded.priority,
	frequency = excluded.frequency,
	created_at = excluded.created_at,
	updated_at = excluded.updated_at,
	due_date = excluded.due_date,
	due_date_zone = excluded.due_date_zone,
	due_date_offset = excluded.due_date_offset,
	completion_percent = excluded.completion_percent,
	reminder_set = excluded.reminder_set`

func (r *SQLiteRepository) Save(ctx context.Context, roomCode string, t *task.Record) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if _, err := r.db.NamedExecContext(ctx, upsertTask, toRow(roomCode, t)); err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("upserting task %s: %w", t.ID, err))
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, roomCode, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE room_code = ? AND id = ?", roomCode, id)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("deleting task %s: %w", id, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("deleting task %s: %w", id, err))
	}
	if n == 0 {
		return cerr.NewError(cerr.NotFound, "task not found", nil)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, roomCode string) ([]*task.Record, error) {
	var rows []taskRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT room_code, id, title, details, assignee, status, priority, frequency,
			created_at, updated_at, due_date, due_date_zone, due_date_offset,
			completion_percent, reminder_set
		FROM tasks
		WHERE room_code = ?
		ORDER BY created_at, id`, roomCode)
	if err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("querying tasks: %w", err))
	}

	all := make([]*task.Record, 0, len(rows))
	for _, row := range rows {
		t, err := row.document().Record()
		if err != nil {
			slog.DebugContext(ctx, "skipping malformed task row", "room", roomCode, "error", err)
			continue
		}
		all = append(all, t)
	}
	sortByCreatedAt(all)
	return all, nil
}

func (r *SQLiteRepository) Rooms(ctx context.Context) ([]string, error) {
	var rooms []string
	if err := r.db.SelectContext(ctx, &rooms, "SELECT DISTINCT room_code FROM tasks ORDER BY room_code"); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("querying rooms: %w", err))
	}
	return rooms, nil
}
