// Package config assembles the pipeline configuration.
// Values are layered: DefaultConfig, then an optional YAML file, then the
// environment, then caller overrides such as command-line flags.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	envcfg "newsdigest/pkg/config"
)

// Config holds every tunable of a pipeline run.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Listing  ListingConfig  `yaml:"listing"`
	Search   SearchConfig   `yaml:"search"`
	Feed     FeedConfig     `yaml:"feed"`
	Gate     GateConfig     `yaml:"gate"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	LLM      LLMConfig      `yaml:"llm"`
}

// HTTPConfig controls outbound requests made by adapters and extractors.
type HTTPConfig struct {
	// UserAgent sent with every request. Default: "Mozilla/5.0"
	UserAgent string `yaml:"user_agent"`
	// Timeout per request. Default: 10s
	Timeout time.Duration `yaml:"timeout"`
	// MaxBodySize caps response bodies in bytes. Default: 10MB
	MaxBodySize int64 `yaml:"max_body_size"`
	// DenyPrivateIPs blocks article URLs resolving to private addresses. Default: false
	DenyPrivateIPs bool `yaml:"deny_private_ips"`
}

// ListingConfig configures the listing-page adapter and the structural extractor.
type ListingConfig struct {
	BaseURL    string `yaml:"base_url"`
	ListingURL string `yaml:"listing_url"`
	// PathMarker must appear in an anchor's href for it to count as an article link.
	PathMarker string `yaml:"path_marker"`
	// ContainerSelector is the exact class signature of the article body container.
	ContainerSelector string `yaml:"container_selector"`
	// ContainerClass is the class substring used when the exact signature is absent.
	ContainerClass string `yaml:"container_class"`
}

// SearchConfig configures the news-search API adapter.
type SearchConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
	Language string `yaml:"language"`
	SortBy   string `yaml:"sort_by"`
}

// FeedConfig configures the RSS adapter.
type FeedConfig struct {
	URLs []string `yaml:"urls"`
}

// GateConfig configures the quality gate.
type GateConfig struct {
	// MinWords is the minimum word count of accepted content. Default: 30
	MinWords int `yaml:"min_words"`
}

// PipelineConfig controls the sequential run.
type PipelineConfig struct {
	// Count is the number of references requested by the listing pipeline.
	Count int `yaml:"count"`
	// KeywordCount is the number of references requested by the search and feed pipelines.
	KeywordCount int `yaml:"keyword_count"`
	// Delay between two articles. Zero disables pacing.
	Delay time.Duration `yaml:"delay"`
	// PreviewWidth is the display width of content previews.
	PreviewWidth int `yaml:"preview_width"`
	// Schedule is an optional cron expression repeating the run.
	Schedule string `yaml:"schedule"`
	// AnalyzeAll also sends search and feed articles to the LLM. The listing
	// pipeline analyzes whenever a provider is set.
	AnalyzeAll bool `yaml:"analyze_all"`
}

// LLMConfig configures the analysis consumer.
type LLMConfig struct {
	// Provider is one of "openai", "claude", "noop" or "none". Default: "openai"
	// (a local Ollama server).
	Provider string `yaml:"provider"`
	// Model defaults per provider: llama3.2 for openai, a Sonnet model for claude.
	Model string `yaml:"model"`
	// BaseURL overrides the provider endpoint. The openai provider defaults to a
	// local Ollama server.
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
	// MaxAttempts of one analysis call. 1 means no retry.
	MaxAttempts int `yaml:"max_attempts"`
	// MaxContentRunes truncates article bodies before submission. 0 disables truncation.
	MaxContentRunes int `yaml:"max_content_runes"`
	MaxTokens       int `yaml:"max_tokens"`

	// RequestsPerSecond throttles analysis calls. 0 means unlimited.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// Provider names accepted in LLMConfig.Provider.
// ProviderDisabled is the spelling used in files, the environment and flags;
// Load stores it as ProviderNone.
const (
	ProviderNone     = ""
	ProviderDisabled = "none"
	ProviderOpenAI   = "openai"
	ProviderClaude   = "claude"
	ProviderNoop     = "noop"
)

// DefaultFeeds is the feed list used when none is configured.
var DefaultFeeds = []string{
	"https://www.indiatoday.in/rss/home",
	"https://timesofindia.indiatimes.com/rssfeedstopstories.cms",
	"https://rss.ndtv.com/rss/ndtvnews-topstories.xml",
	"https://www.thehindu.com/news/national/feeder/default.rss",
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			UserAgent:   "Mozilla/5.0",
			Timeout:     10 * time.Second,
			MaxBodySize: 10 * 1024 * 1024,
		},
		Listing: ListingConfig{
			BaseURL:           "https://www.businesstoday.in",
			ListingURL:        "https://www.businesstoday.in/latest",
			PathMarker:        "/story/",
			ContainerSelector: "div.text-formatted.field--name-body",
			ContainerClass:    "field--name-body",
		},
		Search: SearchConfig{
			Endpoint: "https://newsapi.org/v2/everything",
			Language: "en",
			SortBy:   "publishedAt",
		},
		Feed: FeedConfig{
			URLs: append([]string(nil), DefaultFeeds...),
		},
		Gate: GateConfig{
			MinWords: 30,
		},
		Pipeline: PipelineConfig{
			Count:        5,
			KeywordCount: 10,
			Delay:        time.Second,
			PreviewWidth: 500,
		},
		LLM: LLMConfig{
			Provider:        ProviderOpenAI,
			Timeout:         120 * time.Second,
			MaxAttempts:     1,
			MaxContentRunes: 12000,
			MaxTokens:       1024,
		},
	}
}

// Load builds a validated Config. path may be empty, in which case no file is
// read. overrides run after the environment is applied and before the provider
// API key is resolved, so a provider chosen by an override still picks up its
// key from the environment.
func Load(path string, overrides ...func(*Config)) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.applyEnv()
	for _, override := range overrides {
		override(&cfg)
	}
	cfg.LLM.resolve()

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// mergeFile overlays the YAML document at path onto c. Keys absent from the
// file keep their current value.
func (c *Config) mergeFile(path string) error {
	// #nosec G304 -- path is provided by the operator on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.HTTP.UserAgent = envcfg.GetEnvString("DIGEST_USER_AGENT", c.HTTP.UserAgent)
	c.HTTP.Timeout = envcfg.GetEnvDuration("DIGEST_HTTP_TIMEOUT", c.HTTP.Timeout)
	c.HTTP.DenyPrivateIPs = envcfg.GetEnvBool("DIGEST_DENY_PRIVATE_IPS", c.HTTP.DenyPrivateIPs)

	c.Listing.BaseURL = envcfg.GetEnvString("DIGEST_BASE_URL", c.Listing.BaseURL)
	c.Listing.ListingURL = envcfg.GetEnvString("DIGEST_LISTING_URL", c.Listing.ListingURL)
	c.Listing.PathMarker = envcfg.GetEnvString("DIGEST_PATH_MARKER", c.Listing.PathMarker)

	c.Search.Endpoint = envcfg.GetEnvString("NEWSAPI_ENDPOINT", c.Search.Endpoint)
	c.Search.APIKey = envcfg.GetEnvString("NEWSAPI_KEY", c.Search.APIKey)
	c.Search.Language = envcfg.GetEnvString("NEWSAPI_LANGUAGE", c.Search.Language)

	c.Feed.URLs = envcfg.GetEnvStringList("DIGEST_FEEDS", c.Feed.URLs)

	c.Gate.MinWords = envcfg.GetEnvInt("DIGEST_MIN_WORDS", c.Gate.MinWords)
	c.Pipeline.Delay = envcfg.GetEnvDuration("DIGEST_DELAY", c.Pipeline.Delay)
	c.Pipeline.Schedule = envcfg.GetEnvString("DIGEST_SCHEDULE", c.Pipeline.Schedule)
	c.Pipeline.AnalyzeAll = envcfg.GetEnvBool("DIGEST_ANALYZE_ALL", c.Pipeline.AnalyzeAll)

	c.LLM.Provider = envcfg.GetEnvString("LLM_PROVIDER", c.LLM.Provider)
	c.LLM.Model = envcfg.GetEnvString("LLM_MODEL", c.LLM.Model)
	c.LLM.BaseURL = envcfg.GetEnvString("LLM_BASE_URL", c.LLM.BaseURL)
	c.LLM.Timeout = envcfg.GetEnvDuration("LLM_TIMEOUT", c.LLM.Timeout)
	c.LLM.MaxAttempts = envcfg.GetEnvInt("LLM_MAX_ATTEMPTS", c.LLM.MaxAttempts)
	c.LLM.MaxContentRunes = envcfg.GetEnvInt("LLM_MAX_CONTENT_RUNES", c.LLM.MaxContentRunes)
	c.LLM.RequestsPerSecond = envcfg.GetEnvFloat("LLM_REQUESTS_PER_SECOND", c.LLM.RequestsPerSecond)
}

// resolve normalizes the provider name and reads the API key of the final
// provider from the environment.
func (c *LLMConfig) resolve() {
	if c.Provider == ProviderDisabled {
		c.Provider = ProviderNone
	}

	switch c.Provider {
	case ProviderClaude:
		c.APIKey = envcfg.GetEnvString("ANTHROPIC_API_KEY", c.APIKey)
	case ProviderOpenAI:
		c.APIKey = envcfg.GetEnvString("OPENAI_API_KEY", c.APIKey)
	}
}
