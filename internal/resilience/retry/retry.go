// Package retry provides an opt-in retry loop with exponential backoff and jitter.
// Pipeline defaults use a single attempt; retries only happen when configured.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/sashabaranov/go-openai"
)

// Config holds the configuration for retry logic.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first one
	MaxAttempts int

	// InitialDelay is the delay before the first retry
	InitialDelay time.Duration

	// MaxDelay is the maximum delay between retries
	MaxDelay time.Duration

	// Multiplier is the multiplier for exponential backoff
	Multiplier float64

	// JitterFraction is the fraction of delay added as random jitter (0.0 to 1.0)
	JitterFraction float64
}

// NoRetry returns a configuration that runs the operation exactly once.
func NoRetry() Config {
	return Config{MaxAttempts: 1}
}

// AnalysisConfig returns the configuration for LLM calls with the given
// number of attempts. Values below one are treated as one.
func AnalysisConfig(maxAttempts int) Config {
	return Config{
		MaxAttempts:    max(maxAttempts, 1),
		InitialDelay:   2 * time.Second,
		MaxDelay:       10 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

// WithBackoff calls fn until it succeeds, fails with an error IsRetryable
// rejects, or MaxAttempts is used up. A single-attempt config returns fn's
// error unchanged.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	if cfg.MaxAttempts <= 1 {
		return fn()
	}

	delay := cfg.InitialDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		switch {
		case err == nil:
			if attempt > 1 {
				slog.Info("operation succeeded after retry", slog.Int("attempt", attempt))
			}
			return nil
		case !IsRetryable(err):
			slog.Warn("non-retryable error, aborting",
				slog.Int("attempt", attempt),
				slog.Any("error", err))
			return err
		case attempt >= cfg.MaxAttempts:
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, err)
		}

		slog.Warn("operation failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("delay", delay),
			slog.Any("error", err))

		if err := sleep(ctx, delay); err != nil {
			return fmt.Errorf("retry aborted: %w", err)
		}
		delay = cfg.next(delay)
	}
}

// next returns the delay that follows d.
func (cfg Config) next(d time.Duration) time.Duration {
	d = min(time.Duration(float64(d)*cfg.Multiplier), cfg.MaxDelay)

	jitter := min(cfg.JitterFraction, 1.0)
	if jitter <= 0 {
		return d
	}
	// #nosec G404 -- jitter does not need cryptographic randomness
	return d + time.Duration(rand.Float64()*float64(d)*jitter)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRetryable reports whether err is transient: a network timeout, a refused
// or reset connection, or an HTTP status of 408, 429 or 5xx. Cancellation is
// never retried.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if code, ok := StatusCode(err); ok {
		return code == http.StatusRequestTimeout ||
			code == http.StatusTooManyRequests ||
			(code >= 500 && code < 600)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	for _, errno := range []syscall.Errno{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT, syscall.ENETUNREACH} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

// StatusCode extracts the HTTP status carried by err. It understands
// HTTPError and the error types of the OpenAI and Anthropic clients.
func StatusCode(err error) (int, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return reqErr.HTTPStatusCode, true
	}
	var claudeErr *anthropic.Error
	if errors.As(err, &claudeErr) && claudeErr.StatusCode != 0 {
		return claudeErr.StatusCode, true
	}
	return 0, false
}

// HTTPError is a non-2xx response from a plain HTTP call.
// Err optionally carries the client library error it was derived from.
type HTTPError struct {
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap returns the underlying client error, if any.
func (e *HTTPError) Unwrap() error {
	return e.Err
}
