// Package genai provides the optional reply-polishing provider.
//
// Polishing rewords a deterministic reply into friendlier Egyptian
// Arabic. It never participates in the matching decision: on any failure
// the caller keeps the deterministic text, so the bot works with no API
// key configured at all.
//
// Providers are OpenAI-compatible chat-completion APIs: Groq (via a
// custom base URL) and OpenAI itself.
package genai

import (
	"context"
	"time"
)

// Provider identifies a polishing backend.
type Provider string

const (
	ProviderGroq   Provider = "groq"
	ProviderOpenAI Provider = "openai"
)

// ProviderEndpoint maps providers to their OpenAI-compatible base URLs.
// An empty value means the SDK default.
var ProviderEndpoint = map[Provider]string{
	ProviderGroq:   "https://api.groq.com/openai/v1/",
	ProviderOpenAI: "",
}

// Default models per provider.
const (
	DefaultGroqPolishModel   = "llama-3.1-8b-instant"
	DefaultOpenAIPolishModel = "gpt-4o-mini"
)

// Polisher rewords candidate text. Implementations must return the input
// unchanged (with a nil error) when they decline to polish, and an error
// only for transport or provider failures.
type Polisher interface {
	Polish(ctx context.Context, text string) (string, error)
	Provider() Provider
}

// RetryConfig bounds the retry loop around one provider.
type RetryConfig struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns the standard polish retry bounds: few
// attempts, brief backoff, since an unpolished reply is always available.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 300 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
	}
}
