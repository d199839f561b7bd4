package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misrsweets/sweetbot-go/internal/catalog"
	"github.com/misrsweets/sweetbot-go/internal/config"
	"github.com/misrsweets/sweetbot-go/internal/convstate"
	"github.com/misrsweets/sweetbot-go/internal/logger"
	"github.com/misrsweets/sweetbot-go/internal/reply"
	"github.com/misrsweets/sweetbot-go/internal/storage"
)

func price(v float64) *float64 { return &v }
func unit(s string) *string    { return &s }

func testBotConfig() config.BotConfig {
	return config.BotConfig{
		ConfidentThreshold: 0.62,
		DiscardFloor:       0.45,
		TopK:               4,
		MenuCooldown:       10 * time.Minute,
		UnmatchedKeep:      50,
		StopKeywords:       []string{"stop", "قف", "وقف"},
		ResumeKeywords:     []string{"start", "ابدأ"},
		MenuKeywords:       []string{"منيو", "المنيو", "menu"},
		ConfirmKeywords:    []string{"نعم", "ايوه"},
	}
}

func newTestProcessor(t *testing.T) (*Processor, *convstate.Store) {
	t.Helper()

	log := logger.New("error")

	db, err := storage.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	state := convstate.New(
		storage.NewStateRepository(db),
		storage.NewUnmatchedRepository(db),
		50,
		log,
	)

	store := catalog.NewStore(log)
	store.Swap(catalog.Build([]catalog.Product{
		{Name: "بسبوسة سادة", Category: "حلويات شرقية", Price: price(130), Unit: unit("كيلو")},
		{Name: "كنافة بالمكسرات", Category: "حلويات شرقية", Price: price(180), Unit: unit("كيلو")},
		{Name: "تورتة الشيكولاتة", Category: "تورت", Price: price(350.5), Unit: unit("قالب")},
	}, log))

	cfg := testBotConfig()
	p := NewProcessor(cfg, store, state, reply.NewComposer(nil), nil, nil, log)
	return p, state
}

func TestHandleMessagePriceQuery(t *testing.T) {
	p, _ := newTestProcessor(t)

	got := p.HandleMessage(context.Background(), "u1", "بسبوسة سادة")
	assert.Contains(t, got, "بسبوسة سادة")
	assert.Contains(t, got, "130 جنيه")
	assert.Contains(t, got, "كيلو")
}

func TestHandleMessageFoldedSpelling(t *testing.T) {
	p, _ := newTestProcessor(t)

	// ه for ة, missing hamza: still an exact hit after normalization
	got := p.HandleMessage(context.Background(), "u1", "بسبوسه ساده")
	assert.Contains(t, got, "130 جنيه")
}

func TestHandleMessageEmpty(t *testing.T) {
	p, _ := newTestProcessor(t)

	got := p.HandleMessage(context.Background(), "u1", "   ")
	assert.Equal(t, reply.NewComposer(nil).EmptyPrompt(), got)
}

func TestHandleMessageMenuKeyword(t *testing.T) {
	p, state := newTestProcessor(t)
	ctx := context.Background()

	got := p.HandleMessage(ctx, "u1", "عايز اشوف المنيو")
	assert.Contains(t, got, "المنيو الكامل")
	assert.Contains(t, got, "بسبوسة سادة")

	assert.True(t, state.WasMenuRecentlySent(ctx, "u1", 10*time.Minute))
	assert.False(t, state.WasMenuRecentlySent(ctx, "u2", 10*time.Minute))
}

func TestHandleMessageConfirmWordSendsMenu(t *testing.T) {
	p, _ := newTestProcessor(t)

	got := p.HandleMessage(context.Background(), "u1", "نعم")
	assert.Contains(t, got, "المنيو الكامل")
}

func TestHandleMessagePauseAndResume(t *testing.T) {
	p, state := newTestProcessor(t)
	ctx := context.Background()
	c := reply.NewComposer(nil)

	assert.Equal(t, c.PauseAck(), p.HandleMessage(ctx, "u1", "قف"))
	assert.True(t, state.IsPaused(ctx, "u1"))

	// While paused everything except control commands gets the notice
	assert.Equal(t, c.PausedNotice(), p.HandleMessage(ctx, "u1", "بسبوسة سادة"))
	assert.Equal(t, c.PausedNotice(), p.HandleMessage(ctx, "u1", "منيو"))

	assert.Equal(t, c.ResumeAck(), p.HandleMessage(ctx, "u1", "ابدأ"))
	assert.False(t, state.IsPaused(ctx, "u1"))

	// Resuming an active user is a distinct acknowledgement
	assert.Equal(t, c.AlreadyActive(), p.HandleMessage(ctx, "u1", "start"))
}

func TestHandleMessagePauseIsPerUser(t *testing.T) {
	p, _ := newTestProcessor(t)
	ctx := context.Background()

	p.HandleMessage(ctx, "u1", "stop")

	got := p.HandleMessage(ctx, "u2", "بسبوسة سادة")
	assert.Contains(t, got, "130 جنيه")
}

func TestHandleMessageFallbackLogsUnmatched(t *testing.T) {
	p, state := newTestProcessor(t)
	ctx := context.Background()

	got := p.HandleMessage(ctx, "u1", "hello there 42")
	assert.Contains(t, got, "سجلنا سؤالك")

	recent, err := state.RecentUnmatched(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "hello there 42", recent[0].RawText)
}

func TestHandleMessageSuggestions(t *testing.T) {
	p, _ := newTestProcessor(t)

	// Close to بسبوسة سادة but below the confident threshold with the
	// default tunables, so it lands in the suggestion band
	got := p.HandleMessage(context.Background(), "u1", "عندكم بسبوسه")
	if assert.Contains(t, got, "تقصد") {
		assert.Contains(t, got, "بسبوسة سادة")
	}
}
