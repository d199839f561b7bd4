package genai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/misrsweets/sweetbot-go/internal/logger"
)

// openaiPolisher is the unified OpenAI-compatible Polisher. It serves
// both Groq and OpenAI via a base URL override.
type openaiPolisher struct {
	client   openai.Client
	model    string
	provider Provider
	logger   *logger.Logger
}

// newOpenAIPolisher creates a polisher for the given provider. Returns
// nil when apiKey is empty (polishing disabled for that provider).
func newOpenAIPolisher(provider Provider, apiKey, model string, log *logger.Logger) (*openaiPolisher, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled without a key
	}

	baseURL, ok := ProviderEndpoint[provider]
	if !ok {
		return nil, fmt.Errorf("unsupported polish provider: %s", provider)
	}

	if model == "" {
		switch provider {
		case ProviderGroq:
			model = DefaultGroqPolishModel
		case ProviderOpenAI:
			model = DefaultOpenAIPolishModel
		}
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &openaiPolisher{
		client:   openai.NewClient(opts...),
		model:    model,
		provider: provider,
		logger:   log.WithModule("genai").WithField("provider", string(provider)),
	}, nil
}

// Polish rewords text via a chat completion. Empty or unusable provider
// output degrades to the input text with a nil error.
func (p *openaiPolisher) Polish(ctx context.Context, text string) (string, error) {
	if p == nil || text == "" {
		return text, nil
	}

	params := openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(polishSystemPrompt),
			openai.UserMessage(text),
		},
		Temperature: openai.Float(0.2), // Low temperature: reword, don't invent
		MaxTokens:   openai.Int(300),
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)
	if err != nil {
		p.logger.WithError(err).
			WithField("duration_ms", duration.Milliseconds()).
			Warn("Polish call failed")
		return text, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return text, nil
	}
	polished := strings.TrimSpace(resp.Choices[0].Message.Content)
	if polished == "" {
		return text, nil
	}

	p.logger.WithField("duration_ms", duration.Milliseconds()).
		WithField("total_tokens", resp.Usage.TotalTokens).
		Debug("Polish completed")
	return polished, nil
}

// Provider returns the backing provider.
func (p *openaiPolisher) Provider() Provider {
	return p.provider
}
