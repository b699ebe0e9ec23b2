package config

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"newsdigest/internal/domain/entity"
)

// Validate checks configuration correctness.
func (c *Config) Validate() error {
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got %v", c.HTTP.Timeout)
	}

	minBodySize := int64(1024)
	maxBodySize := int64(100 * 1024 * 1024)
	if c.HTTP.MaxBodySize < minBodySize || c.HTTP.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.HTTP.MaxBodySize)
	}

	if err := entity.ValidateURL(c.Listing.BaseURL); err != nil {
		return fmt.Errorf("listing base_url: %w", err)
	}
	if err := entity.ValidateURL(c.Listing.ListingURL); err != nil {
		return fmt.Errorf("listing listing_url: %w", err)
	}
	if c.Listing.PathMarker == "" {
		return fmt.Errorf("listing path_marker cannot be empty")
	}

	for i, feedURL := range c.Feed.URLs {
		if err := entity.ValidateURL(feedURL); err != nil {
			return fmt.Errorf("feed urls[%d]: %w", i, err)
		}
	}

	if c.Gate.MinWords < 0 {
		return fmt.Errorf("gate min_words must be non-negative, got %d", c.Gate.MinWords)
	}

	if c.Pipeline.Count < 1 || c.Pipeline.Count > 100 {
		return fmt.Errorf("pipeline count must be between 1 and 100, got %d", c.Pipeline.Count)
	}
	if c.Pipeline.KeywordCount < 1 || c.Pipeline.KeywordCount > 100 {
		return fmt.Errorf("pipeline keyword_count must be between 1 and 100, got %d", c.Pipeline.KeywordCount)
	}
	if c.Pipeline.Delay < 0 {
		return fmt.Errorf("pipeline delay must be non-negative, got %v", c.Pipeline.Delay)
	}
	if c.Pipeline.PreviewWidth < 0 {
		return fmt.Errorf("pipeline preview_width must be non-negative, got %d", c.Pipeline.PreviewWidth)
	}
	if c.Pipeline.Schedule != "" {
		if err := ValidateCronSchedule(c.Pipeline.Schedule); err != nil {
			return err
		}
	}

	return c.LLM.Validate()
}

// Validate checks the analysis settings. A disabled provider skips the
// remaining checks.
func (c *LLMConfig) Validate() error {
	switch c.Provider {
	case ProviderNone, ProviderDisabled, ProviderNoop:
		return nil
	case ProviderOpenAI, ProviderClaude:
	default:
		return fmt.Errorf("unknown llm provider %q", c.Provider)
	}

	if c.Provider == ProviderClaude && c.APIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required for the claude provider")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("llm timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxAttempts < 1 || c.MaxAttempts > 10 {
		return fmt.Errorf("llm max_attempts must be between 1 and 10, got %d", c.MaxAttempts)
	}
	if c.MaxContentRunes < 0 {
		return fmt.Errorf("llm max_content_runes must be non-negative, got %d", c.MaxContentRunes)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("llm requests_per_second must be non-negative, got %v", c.RequestsPerSecond)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("llm max_tokens must be positive, got %d", c.MaxTokens)
	}
	return nil
}

// ValidateCronSchedule validates a five-field cron expression
// ("minute hour day month weekday") with the robfig/cron/v3 parser.
func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("invalid cron schedule: cannot be empty")
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	return nil
}
