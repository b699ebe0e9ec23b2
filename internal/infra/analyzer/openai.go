package analyzer

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Defaults of the openai provider: a local Ollama server.
const (
	DefaultOpenAIBaseURL = "http://localhost:11434/v1"
	DefaultOpenAIModel   = "llama3.2"
)

// OpenAI analyzes articles through an OpenAI-compatible chat-completions endpoint.
type OpenAI struct {
	runner
	client *openai.Client
}

// NewOpenAI creates an OpenAI analyzer. Empty BaseURL and Model fall back
// to the Ollama defaults. Ollama ignores the API key, which may be empty.
func NewOpenAI(cfg Config) *OpenAI {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenAIBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL

	return &OpenAI{
		runner: newRunner(ProviderOpenAI, cfg),
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// Analyze implements ingest.Analyzer.
func (o *OpenAI) Analyze(ctx context.Context, title, content string) (string, error) {
	return o.run(ctx, title, content, o.complete)
}

func (o *OpenAI) complete(ctx context.Context, _ string, userMessage string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.config.Model,
		MaxTokens: o.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai api returned empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
