package storage

import (
	"context"
	"fmt"
	"time"
)

// UnmatchedQuery is one query no catalog entry answered, kept for
// offline human review. Append-only; never consulted at runtime.
type UnmatchedQuery struct {
	ID        int64
	UserID    string
	RawText   string
	CreatedAt time.Time
}

// UnmatchedRepository persists the unmatched-query review log.
type UnmatchedRepository struct {
	db *DB
}

// NewUnmatchedRepository creates a repository bound to db.
func NewUnmatchedRepository(db *DB) *UnmatchedRepository {
	return &UnmatchedRepository{db: db}
}

// Append records one unmatched query.
func (r *UnmatchedRepository) Append(ctx context.Context, userID, rawText string, now time.Time) error {
	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO unmatched_queries (user_id, raw_text, created_at) VALUES (?, ?, ?)`,
		userID, rawText, now.Unix())
	if err != nil {
		return fmt.Errorf("append unmatched query: %w", err)
	}
	return nil
}

// Recent returns the newest entries, newest first.
func (r *UnmatchedRepository) Recent(ctx context.Context, limit int) ([]UnmatchedQuery, error) {
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, user_id, raw_text, created_at
		FROM unmatched_queries
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query unmatched log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []UnmatchedQuery
	for rows.Next() {
		var q UnmatchedQuery
		var created int64
		if err := rows.Scan(&q.ID, &q.UserID, &q.RawText, &created); err != nil {
			return nil, fmt.Errorf("scan unmatched row: %w", err)
		}
		q.CreatedAt = time.Unix(created, 0)
		out = append(out, q)
	}
	return out, rows.Err()
}

// Prune keeps only the newest keep entries, bounding the review window.
func (r *UnmatchedRepository) Prune(ctx context.Context, keep int) error {
	_, err := r.db.conn.ExecContext(ctx, `
		DELETE FROM unmatched_queries
		WHERE id NOT IN (
			SELECT id FROM unmatched_queries ORDER BY id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("prune unmatched log: %w", err)
	}
	return nil
}
