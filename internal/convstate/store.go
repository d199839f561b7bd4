// Package convstate implements the per-user conversation state store.
//
// Each user is in one of two states: Active (initial) or Paused. A
// recognized stop command moves a user to Paused, a resume command moves
// them back. The store also tracks when the menu was last sent (a
// cooldown that only varies fallback wording) and an append-only log of
// unmatched queries for offline review.
//
// State is persisted in SQLite so pauses survive restarts. Read-modify-
// write sequences for one user are serialized by a striped mutex keyed on
// the user id; different users never contend on the same stripe beyond
// hash collisions.
package convstate

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/misrsweets/sweetbot-go/internal/logger"
	"github.com/misrsweets/sweetbot-go/internal/storage"
)

const stripes = 64

// Store is the conversation state store.
type Store struct {
	states    *storage.StateRepository
	unmatched *storage.UnmatchedRepository
	logger    *logger.Logger
	keep      int // unmatched entries retained after a prune

	locks [stripes]sync.Mutex
	now   func() time.Time
}

// New creates a Store over the given repositories. keep bounds the
// unmatched review log; values <= 0 disable pruning.
func New(states *storage.StateRepository, unmatched *storage.UnmatchedRepository, keep int, log *logger.Logger) *Store {
	return &Store{
		states:    states,
		unmatched: unmatched,
		logger:    log.WithModule("convstate"),
		keep:      keep,
		now:       time.Now,
	}
}

func (s *Store) lock(userID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return &s.locks[h.Sum32()%stripes]
}

// IsPaused reports whether the user is currently Paused. Storage errors
// are logged and treated as Active so a failing state store never blocks
// the bot.
func (s *Store) IsPaused(ctx context.Context, userID string) bool {
	st, err := s.states.Get(ctx, userID)
	if err != nil {
		s.logger.WithUser(userID).WithError(err).Error("Failed to read pause state")
		return false
	}
	return st.Paused
}

// SetPaused transitions the user between Active and Paused. Returns the
// previous paused value.
func (s *Store) SetPaused(ctx context.Context, userID string, paused bool) (bool, error) {
	mu := s.lock(userID)
	mu.Lock()
	defer mu.Unlock()

	st, err := s.states.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	if err := s.states.SetPaused(ctx, userID, paused, s.now()); err != nil {
		return st.Paused, err
	}
	return st.Paused, nil
}

// WasMenuRecentlySent reports whether the menu was sent to the user
// within the window. Used only to vary fallback wording, never to
// suppress information.
func (s *Store) WasMenuRecentlySent(ctx context.Context, userID string, window time.Duration) bool {
	st, err := s.states.Get(ctx, userID)
	if err != nil {
		s.logger.WithUser(userID).WithError(err).Error("Failed to read menu cooldown")
		return false
	}
	if st.LastMenuSentAt.IsZero() {
		return false
	}
	return s.now().Sub(st.LastMenuSentAt) < window
}

// MarkMenuSent records that the full menu was just sent to the user.
func (s *Store) MarkMenuSent(ctx context.Context, userID string) {
	mu := s.lock(userID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.states.MarkMenuSent(ctx, userID, s.now()); err != nil {
		s.logger.WithUser(userID).WithError(err).Error("Failed to mark menu sent")
	}
}

// LogUnmatched appends a query to the review log and prunes the log to
// its bound. Failures are logged; the reply path never depends on this.
func (s *Store) LogUnmatched(ctx context.Context, userID, rawText string) {
	if err := s.unmatched.Append(ctx, userID, rawText, s.now()); err != nil {
		s.logger.WithUser(userID).WithError(err).Error("Failed to log unmatched query")
		return
	}
	if s.keep > 0 {
		if err := s.unmatched.Prune(ctx, s.keep); err != nil {
			s.logger.WithError(err).Warn("Failed to prune unmatched log")
		}
	}
}

// RecentUnmatched returns the newest unmatched queries for review.
func (s *Store) RecentUnmatched(ctx context.Context, limit int) ([]storage.UnmatchedQuery, error) {
	return s.unmatched.Recent(ctx, limit)
}

// SetClock overrides the store's clock. Test helper.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}
