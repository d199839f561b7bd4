package genai

import (
	"context"
	"time"

	"github.com/misrsweets/sweetbot-go/internal/logger"
	"github.com/misrsweets/sweetbot-go/internal/metrics"
)

// FallbackPolisher wraps a primary and a fallback Polisher behind a
// three-layer recovery scheme:
//
//  1. Retry with backoff on the same provider
//  2. Provider fallback (primary -> fallback)
//  3. Graceful degradation: return the deterministic input text
//
// A nil *FallbackPolisher, or one with no providers, is a no-op: Polish
// returns its input. Polish never returns an error; the caller always
// gets usable reply text.
type FallbackPolisher struct {
	primary  Polisher
	fallback Polisher
	retry    RetryConfig
	timeout  time.Duration
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

// NewFallbackPolisher creates the fallback wrapper. Either polisher may
// be nil; timeout bounds the whole Polish call including retries.
func NewFallbackPolisher(primary, fallback Polisher, retry RetryConfig, timeout time.Duration, log *logger.Logger, m *metrics.Metrics) *FallbackPolisher {
	return &FallbackPolisher{
		primary:  primary,
		fallback: fallback,
		retry:    retry,
		timeout:  timeout,
		logger:   log.WithModule("genai"),
		metrics:  m,
	}
}

// Enabled reports whether any provider is configured.
func (f *FallbackPolisher) Enabled() bool {
	return f != nil && (f.primary != nil || f.fallback != nil)
}

// Polish rewords text, degrading to the input on any failure.
func (f *FallbackPolisher) Polish(ctx context.Context, text string) string {
	if !f.Enabled() || text == "" {
		return text
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	if f.primary != nil {
		polished, err := f.polishWithRetry(ctx, f.primary, text)
		if err == nil {
			f.metrics.RecordPolish(string(f.primary.Provider()), "success")
			return polished
		}
		f.metrics.RecordPolish(string(f.primary.Provider()), "error")
		f.logger.WithError(err).
			WithField("provider", string(f.primary.Provider())).
			Warn("Primary polish provider failed")

		if ClassifyError(err) == ActionFail || f.fallback == nil {
			f.degrade()
			return text
		}
	}

	if f.fallback != nil {
		polished, err := f.polishWithRetry(ctx, f.fallback, text)
		if err == nil {
			f.metrics.RecordPolish(string(f.fallback.Provider()), "success")
			return polished
		}
		f.metrics.RecordPolish(string(f.fallback.Provider()), "error")
		f.logger.WithError(err).
			WithField("provider", string(f.fallback.Provider())).
			Warn("Fallback polish provider failed")
	}

	f.degrade()
	return text
}

func (f *FallbackPolisher) polishWithRetry(ctx context.Context, p Polisher, text string) (string, error) {
	var out string
	err := WithRetry(ctx, f.retry, func() error {
		var polishErr error
		out, polishErr = p.Polish(ctx, text)
		return polishErr
	})
	if err != nil {
		return text, err
	}
	return out, nil
}

func (f *FallbackPolisher) degrade() {
	if f.metrics != nil {
		f.metrics.PolishFallbacksTotal.Inc()
	}
}
