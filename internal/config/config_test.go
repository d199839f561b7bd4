package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 0.62, cfg.Bot.ConfidentThreshold)
	assert.Equal(t, 0.45, cfg.Bot.DiscardFloor)
	assert.Equal(t, 4, cfg.Bot.TopK)
	assert.Equal(t, 10*time.Minute, cfg.Bot.MenuCooldown)
	assert.Contains(t, cfg.Bot.StopKeywords, "قف")
	assert.Contains(t, cfg.Bot.MenuKeywords, "منيو")
	assert.False(t, cfg.DeliveryEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MATCH_CONFIDENT_THRESHOLD", "0.7")
	t.Setenv("MENU_COOLDOWN", "5m")
	t.Setenv("STOP_KEYWORDS", "stop, خلاص")
	t.Setenv("FACEBOOK_PAGE_ACCESS_TOKEN", "tok")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 0.7, cfg.Bot.ConfidentThreshold)
	assert.Equal(t, 5*time.Minute, cfg.Bot.MenuCooldown)
	assert.Equal(t, []string{"stop", "خلاص"}, cfg.Bot.StopKeywords)
	assert.True(t, cfg.DeliveryEnabled())
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("MATCH_TOP_K", "many")
	t.Setenv("MENU_COOLDOWN", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Bot.TopK)
	assert.Equal(t, 10*time.Minute, cfg.Bot.MenuCooldown)
}

func TestSQLitePath(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/lib/sweetbot")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/sweetbot/sweetbot.db", cfg.SQLitePath())
}
