package storage

import "database/sql"

// Schema. Timestamps are stored as Unix seconds; zero/NULL means unset.
const schema = `
CREATE TABLE IF NOT EXISTS conversation_state (
	user_id           TEXT PRIMARY KEY,
	paused            INTEGER NOT NULL DEFAULT 0,
	paused_at         INTEGER,
	last_menu_sent_at INTEGER,
	updated_at        INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS unmatched_queries (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    TEXT NOT NULL,
	raw_text   TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_unmatched_created_at
	ON unmatched_queries(created_at);
`

func initSchema(conn *sql.DB) error {
	_, err := conn.Exec(schema)
	return err
}
