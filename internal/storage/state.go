package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UserState is the persisted per-user conversation state. Rows are
// created lazily on first write and never deleted automatically.
type UserState struct {
	UserID         string
	Paused         bool
	PausedAt       time.Time // zero when never paused
	LastMenuSentAt time.Time // zero when no menu sent yet
}

// StateRepository persists per-user conversation state.
type StateRepository struct {
	db *DB
}

// NewStateRepository creates a repository bound to db.
func NewStateRepository(db *DB) *StateRepository {
	return &StateRepository{db: db}
}

// Get returns the state for a user. A user with no row yet gets the
// zero Active state.
func (r *StateRepository) Get(ctx context.Context, userID string) (UserState, error) {
	st := UserState{UserID: userID}
	var pausedAt, menuAt sql.NullInt64
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT paused, paused_at, last_menu_sent_at FROM conversation_state WHERE user_id = ?`,
		userID,
	).Scan(&st.Paused, &pausedAt, &menuAt)
	if errors.Is(err, sql.ErrNoRows) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("query conversation state: %w", err)
	}
	if pausedAt.Valid {
		st.PausedAt = time.Unix(pausedAt.Int64, 0)
	}
	if menuAt.Valid {
		st.LastMenuSentAt = time.Unix(menuAt.Int64, 0)
	}
	return st, nil
}

// SetPaused sets or clears the paused flag, stamping paused_at on pause.
func (r *StateRepository) SetPaused(ctx context.Context, userID string, paused bool, now time.Time) error {
	var pausedAt any
	if paused {
		pausedAt = now.Unix()
	}
	_, err := r.db.conn.ExecContext(ctx, `
		INSERT INTO conversation_state (user_id, paused, paused_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			paused = excluded.paused,
			paused_at = excluded.paused_at,
			updated_at = excluded.updated_at`,
		userID, paused, pausedAt, now.Unix())
	if err != nil {
		return fmt.Errorf("set paused: %w", err)
	}
	return nil
}

// MarkMenuSent stamps last_menu_sent_at.
func (r *StateRepository) MarkMenuSent(ctx context.Context, userID string, now time.Time) error {
	_, err := r.db.conn.ExecContext(ctx, `
		INSERT INTO conversation_state (user_id, last_menu_sent_at, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			last_menu_sent_at = excluded.last_menu_sent_at,
			updated_at = excluded.updated_at`,
		userID, now.Unix(), now.Unix())
	if err != nil {
		return fmt.Errorf("mark menu sent: %w", err)
	}
	return nil
}
