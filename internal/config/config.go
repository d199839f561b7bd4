// Package config provides application configuration management.
// It loads settings from environment variables (with .env support) and
// provides defaults for server mode, matching thresholds, keyword sets
// and the menu cooldown window.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Facebook Messenger configuration
	VerifyToken     string // Webhook subscription verify token
	PageAccessToken string // Graph API page access token (empty = delivery disabled)

	// Polishing provider configuration (both optional)
	GroqAPIKey   string
	OpenAIAPIKey string
	GroqModel    string // Default: llama-3.1-8b-instant
	OpenAIModel  string // Default: gpt-4o-mini

	// Sentry error tracking (optional)
	SentryDSN         string
	SentryEnvironment string

	// Metrics endpoint basic auth (empty password = no auth)
	MetricsUsername string
	MetricsPassword string

	// Admin endpoints bearer token (empty = admin routes disabled)
	AdminToken string

	// Server configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Data configuration
	DataDir     string // Directory for the SQLite state database
	CatalogPath string // Catalog feed file (.txt price list or .xlsx sheet)

	// Bot configuration (embedded)
	Bot BotConfig
}

// BotConfig holds the matching and conversation tunables.
// The keyword sets and thresholds are data on purpose: every deployed
// variant of this bot differed only in these values.
type BotConfig struct {
	// Matching thresholds, on the 0..1 similarity scale
	ConfidentThreshold float64 // Score at or above which a direct answer fires (default 0.62)
	DiscardFloor       float64 // Score below which candidates are dropped entirely (default 0.45)
	TopK               int     // Maximum suggestions offered (default 4)

	// Conversation state
	MenuCooldown  time.Duration // Window in which a menu counts as "recently sent" (default 10m)
	UnmatchedKeep int           // Recent unmatched queries retained per prune (default 500)

	// Control and trigger keyword sets, compared against normalized text
	StopKeywords    []string
	ResumeKeywords  []string
	MenuKeywords    []string
	ConfirmKeywords []string

	// Menu link block appended to catalog listings, one link per line
	MenuLinks []string

	// Polishing call limits
	PolishTimeout     time.Duration // Wall-clock bound per attempt (default 10s)
	PolishMaxAttempts int           // Attempts per provider before fallback (default 3)

	// Per-user rate limiting (token bucket)
	UserRateBurst  float64 // Maximum burst per user (default 10)
	UserRateRefill float64 // Tokens per second (default 0.2)

	// Webhook processing
	WebhookTimeout time.Duration // Bound for handling one event (default 30s)
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first, then reads from env vars.
// Missing delivery or provider tokens are not errors: the affected
// collaborator degrades to a logged no-op and the core keeps running.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		VerifyToken:     getEnv("FACEBOOK_VERIFY_TOKEN", ""),
		PageAccessToken: getEnv("FACEBOOK_PAGE_ACCESS_TOKEN", ""),

		GroqAPIKey:   getEnv("GROQ_API_KEY", ""),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		GroqModel:    getEnv("GROQ_POLISH_MODEL", ""),
		OpenAIModel:  getEnv("OPENAI_POLISH_MODEL", ""),

		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", "production"),

		MetricsUsername: getEnv("METRICS_USERNAME", "prometheus"),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),

		AdminToken: getEnv("ADMIN_TOKEN", ""),

		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		DataDir:     getEnv("DATA_DIR", "./data"),
		CatalogPath: getEnv("CATALOG_PATH", "data.txt"),

		Bot: BotConfig{
			ConfidentThreshold: getEnvFloat("MATCH_CONFIDENT_THRESHOLD", 0.62),
			DiscardFloor:       getEnvFloat("MATCH_DISCARD_FLOOR", 0.45),
			TopK:               getEnvInt("MATCH_TOP_K", 4),

			MenuCooldown:  getEnvDuration("MENU_COOLDOWN", 10*time.Minute),
			UnmatchedKeep: getEnvInt("UNMATCHED_KEEP", 500),

			StopKeywords:    getEnvList("STOP_KEYWORDS", []string{"stop", "pause", "وقف", "قف", "سكت", "بطل", "ايقاف"}),
			ResumeKeywords:  getEnvList("RESUME_KEYWORDS", []string{"start", "resume", "ابدا", "رجع", "رجعلي", "تشغيل"}),
			MenuKeywords:    getEnvList("MENU_KEYWORDS", []string{"منيو", "قايمه", "قائمه", "المنيو", "menu", "كتالوج"}),
			ConfirmKeywords: getEnvList("CONFIRM_KEYWORDS", []string{"نعم", "ايوه", "عايز", "ابعت", "ابعث", "yes", "y"}),

			MenuLinks: getEnvList("MENU_LINKS", nil),

			PolishTimeout:     getEnvDuration("POLISH_TIMEOUT", 10*time.Second),
			PolishMaxAttempts: getEnvInt("POLISH_MAX_ATTEMPTS", 3),

			UserRateBurst:  getEnvFloat("USER_RATE_BURST", 10),
			UserRateRefill: getEnvFloat("USER_RATE_REFILL_PER_SEC", 0.2),

			WebhookTimeout: getEnvDuration("WEBHOOK_TIMEOUT", 30*time.Second),
		},
	}

	return cfg, nil
}

// SQLitePath returns the path to the conversation state database.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "sweetbot.db")
}

// DeliveryEnabled reports whether outbound Messenger delivery is configured.
func (c *Config) DeliveryEnabled() bool {
	return c.PageAccessToken != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList parses a comma-separated env var into a trimmed string slice.
func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
