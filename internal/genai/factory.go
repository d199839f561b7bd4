package genai

import (
	"time"

	"github.com/misrsweets/sweetbot-go/internal/logger"
	"github.com/misrsweets/sweetbot-go/internal/metrics"
)

// Config holds the polishing configuration derived from the app config.
type Config struct {
	GroqAPIKey   string
	GroqModel    string
	OpenAIAPIKey string
	OpenAIModel  string
	Timeout      time.Duration
	MaxAttempts  int
}

// NewPolisher wires the configured providers into a FallbackPolisher.
// Groq is primary (cheap and fast), OpenAI the fallback. With no keys at
// all the returned polisher is a working no-op.
func NewPolisher(cfg Config, log *logger.Logger, m *metrics.Metrics) (*FallbackPolisher, error) {
	var primary, fallback Polisher

	if p, err := newOpenAIPolisher(ProviderGroq, cfg.GroqAPIKey, cfg.GroqModel, log); err != nil {
		return nil, err
	} else if p != nil {
		primary = p
	}

	if p, err := newOpenAIPolisher(ProviderOpenAI, cfg.OpenAIAPIKey, cfg.OpenAIModel, log); err != nil {
		return nil, err
	} else if p != nil {
		if primary == nil {
			primary = p
		} else {
			fallback = p
		}
	}

	retry := DefaultRetryConfig()
	if cfg.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.MaxAttempts
	}

	return NewFallbackPolisher(primary, fallback, retry, cfg.Timeout, log, m), nil
}
