// Package analyzer implements ingest.Analyzer on top of chat-completion
// APIs. The openai provider speaks the OpenAI protocol and targets a local
// Ollama server by default; the claude provider uses the Anthropic Messages
// API; the noop provider produces an offline report for dry runs.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"newsdigest/internal/resilience/circuitbreaker"
	"newsdigest/internal/resilience/retry"
	"newsdigest/internal/usecase/ingest"
	"newsdigest/internal/utils/text"
)

// Provider names.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderNoop   = "noop"
	ProviderNone   = "none"
)

// Config holds the settings shared by every provider.
type Config struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	// Timeout bounds one analysis, retries included.
	Timeout     time.Duration
	MaxAttempts int
	// MaxContentRunes truncates the article body. 0 disables truncation.
	MaxContentRunes   int
	MaxTokens         int
	RequestsPerSecond float64
}

// DefaultConfig returns the settings of a local Ollama analysis.
func DefaultConfig() Config {
	return Config{
		Provider:        ProviderOpenAI,
		Model:           DefaultOpenAIModel,
		BaseURL:         DefaultOpenAIBaseURL,
		Timeout:         120 * time.Second,
		MaxAttempts:     1,
		MaxContentRunes: 12000,
		MaxTokens:       1024,
	}
}

// New returns the analyzer for cfg.Provider. An empty or "none" provider
// disables analysis and yields a nil analyzer.
func New(cfg Config) (ingest.Analyzer, error) {
	switch cfg.Provider {
	case "", ProviderNone:
		return nil, nil
	case ProviderOpenAI:
		return NewOpenAI(cfg), nil
	case ProviderClaude:
		if cfg.APIKey == "" {
			return nil, errors.New("claude analyzer requires an API key")
		}
		return NewClaude(cfg), nil
	case ProviderNoop:
		return NewNoop(), nil
	default:
		return nil, fmt.Errorf("unknown analyzer provider %q", cfg.Provider)
	}
}

// completeFunc sends one chat request and returns the reply text.
type completeFunc func(ctx context.Context, requestID, userMessage string) (string, error)

// runner holds the resilience plumbing common to the remote providers.
type runner struct {
	provider        string
	config          Config
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	limiter         *RateLimiter
	metricsRecorder MetricsRecorder
}

func newRunner(provider string, cfg Config) runner {
	return runner{
		provider:        provider,
		config:          cfg,
		circuitBreaker:  circuitbreaker.New(circuitbreaker.LLMConfig(provider + "-api")),
		retryConfig:     retry.AnalysisConfig(cfg.MaxAttempts),
		limiter:         NewRateLimiter(cfg.RequestsPerSecond),
		metricsRecorder: NewPrometheusMetrics(),
	}
}

// run truncates content, builds the user message and performs the call
// through the rate limiter, the retry loop and the circuit breaker.
func (r *runner) run(ctx context.Context, title, content string, complete completeFunc) (string, error) {
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	requestID := uuid.New().String()

	body, truncated := TruncateContent(content, r.config.MaxContentRunes)
	if truncated {
		r.metricsRecorder.RecordTruncation(r.provider)
		slog.WarnContext(ctx, "article truncated before analysis",
			slog.String("request_id", requestID),
			slog.String("provider", r.provider),
			slog.Int("original_length", text.CountRunes(content)),
			slog.Int("limit", r.config.MaxContentRunes))
	}
	message := BuildUserMessage(title, body)

	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("analysis rate limit wait: %w", err)
	}

	slog.DebugContext(ctx, "starting analysis",
		slog.String("request_id", requestID),
		slog.String("provider", r.provider),
		slog.String("model", r.config.Model),
		slog.Int("input_length", text.CountRunes(body)))

	start := time.Now()
	var report string
	retryErr := retry.WithBackoff(ctx, r.retryConfig, func() error {
		cbResult, err := r.circuitBreaker.Execute(func() (interface{}, error) {
			return complete(ctx, requestID, message)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.WarnContext(ctx, "analysis circuit breaker open, request rejected",
					slog.String("service", r.circuitBreaker.Name()),
					slog.String("state", r.circuitBreaker.State().String()))
				return fmt.Errorf("%s api unavailable: circuit breaker open", r.provider)
			}
			return err
		}
		report = cbResult.(string)
		return nil
	})
	duration := time.Since(start)
	r.metricsRecorder.RecordDuration(r.provider, duration)

	if retryErr != nil {
		slog.ErrorContext(ctx, "analysis failed",
			slog.String("request_id", requestID),
			slog.String("provider", r.provider),
			slog.Duration("duration", duration),
			slog.String("error", retryErr.Error()))
		return "", retryErr
	}

	slog.InfoContext(ctx, "analysis completed",
		slog.String("request_id", requestID),
		slog.String("provider", r.provider),
		slog.Int("report_length", text.CountRunes(report)),
		slog.Duration("duration", duration))
	return report, nil
}
