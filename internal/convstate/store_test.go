package convstate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misrsweets/sweetbot-go/internal/logger"
	"github.com/misrsweets/sweetbot-go/internal/storage"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := storage.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(
		storage.NewStateRepository(db),
		storage.NewUnmatchedRepository(db),
		100,
		logger.New("error"),
	)
}

func TestPauseResume(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	assert.False(t, s.IsPaused(ctx, "user-1"), "users start Active")

	prev, err := s.SetPaused(ctx, "user-1", true)
	require.NoError(t, err)
	assert.False(t, prev)
	assert.True(t, s.IsPaused(ctx, "user-1"))

	prev, err = s.SetPaused(ctx, "user-1", false)
	require.NoError(t, err)
	assert.True(t, prev)
	assert.False(t, s.IsPaused(ctx, "user-1"))
}

func TestMenuCooldown(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	base := time.Now()
	current := base
	s.SetClock(func() time.Time { return current })

	assert.False(t, s.WasMenuRecentlySent(ctx, "user-1", 10*time.Minute))

	s.MarkMenuSent(ctx, "user-1")
	assert.True(t, s.WasMenuRecentlySent(ctx, "user-1", 10*time.Minute))

	current = base.Add(11 * time.Minute)
	assert.False(t, s.WasMenuRecentlySent(ctx, "user-1", 10*time.Minute),
		"cooldown expires after the window")
}

func TestLogUnmatchedBounded(t *testing.T) {
	ctx := context.Background()
	db, err := storage.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s := New(storage.NewStateRepository(db), storage.NewUnmatchedRepository(db), 2, logger.New("error"))

	s.LogUnmatched(ctx, "user-1", "اول")
	s.LogUnmatched(ctx, "user-1", "تاني")
	s.LogUnmatched(ctx, "user-1", "تالت")

	recent, err := s.RecentUnmatched(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "تالت", recent[0].RawText)
}

func TestConcurrentPerUserUpdates(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				_, _ = s.SetPaused(ctx, "user-1", true)
				s.MarkMenuSent(ctx, "user-1")
				_, _ = s.SetPaused(ctx, "user-1", false)
			}
		}()
	}
	wg.Wait()

	assert.False(t, s.IsPaused(ctx, "user-1"))
}
