package repositoryimpl

type migration struct {
	version int
	sql     string
}

// migrations must stay ordered; versions are sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	room_code          TEXT NOT NULL,
	id                 TEXT NOT NULL,
	title              TEXT,
	details            TEXT,
	assignee           TEXT,
	status             TEXT,
	priority           TEXT,
	created_at         DATETIME,
	updated_at         DATETIME,
	due_date           DATETIME,
	completion_percent REAL NOT NULL DEFAULT 0,
	reminder_set       INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (room_code, id)
);

CREATE INDEX IF NOT EXISTS idx_tasks_room_created ON tasks(room_code, created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
ALTER TABLE tasks ADD COLUMN frequency TEXT;

CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(due_date) WHERE reminder_set = 1;

INSERT INTO schema_version (version) VALUES (2);
`,
	},
	{
		version: 3,
		sql: `
ALTER TABLE tasks ADD COLUMN due_date_zone TEXT;
ALTER TABLE tasks ADD COLUMN due_date_offset INTEGER;

INSERT INTO schema_version (version) VALUES (3);
`,
	},
}
