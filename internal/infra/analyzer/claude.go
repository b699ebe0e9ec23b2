package analyzer

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultClaudeModel is used when no model is configured for the claude provider.
var DefaultClaudeModel = string(anthropic.ModelClaudeSonnet4_5_20250929)

// Claude analyzes articles with Anthropic's Messages API.
type Claude struct {
	runner
	client anthropic.Client
}

// NewClaude creates a Claude analyzer. BaseURL, when set, replaces the
// public API endpoint.
func NewClaude(cfg Config) *Claude {
	if cfg.Model == "" {
		cfg.Model = DefaultClaudeModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// retries are driven by the runner
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Claude{
		runner: newRunner(ProviderClaude, cfg),
		client: anthropic.NewClient(opts...),
	}
}

// Analyze implements ingest.Analyzer.
func (c *Claude) Analyze(ctx context.Context, title, content string) (string, error) {
	return c.run(ctx, title, content, c.complete)
}

func (c *Claude) complete(ctx context.Context, _ string, userMessage string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		System: []anthropic.TextBlockParam{
			{Text: SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		return "", fmt.Errorf("claude api returned empty response")
	}
	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", fmt.Errorf("claude api returned unexpected response type")
	}
	return textBlock.Text, nil
}
