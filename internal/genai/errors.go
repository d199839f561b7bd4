package genai

import (
	"context"
	"errors"
	"net/http"

	"github.com/openai/openai-go/v3"
)

// Action is the recovery decision for a provider error.
type Action string

const (
	// ActionRetry: transient; try the same provider again.
	ActionRetry Action = "retry"
	// ActionFallback: this provider is unusable; try the other one.
	ActionFallback Action = "fallback"
	// ActionFail: the request itself is bad; neither retry nor fallback helps.
	ActionFail Action = "fail"
)

// ClassifyError maps a provider error to a recovery action.
//
// Rate limits and server errors are worth retrying. Auth failures move
// straight to the fallback provider, which has its own key. Client errors
// (bad request, unknown model) fail outright. Timeouts skip retries: the
// caller's deadline is nearly spent, so the deterministic text wins.
func ClassifyError(err error) Action {
	if err == nil {
		return ActionFail
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ActionFallback
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return ActionRetry
		case apiErr.StatusCode >= http.StatusInternalServerError:
			return ActionRetry
		case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
			return ActionFallback
		default:
			return ActionFail
		}
	}

	// Unknown transport errors are assumed transient.
	return ActionRetry
}
