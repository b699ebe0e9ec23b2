package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdigest/internal/config"
	"newsdigest/internal/infra/analyzer"
	"newsdigest/internal/infra/extractor"
	"newsdigest/internal/infra/source"
)

func TestBuildPipeline(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Search.APIKey = "key"

	tests := []struct {
		source        string
		wantSource    string
		wantExtractor string
		wantLimit     int
		wantDelay     time.Duration
		wantAnalyzer  bool
	}{
		{source: sourceListing, wantSource: "listing", wantExtractor: "structural", wantLimit: 5, wantDelay: time.Second, wantAnalyzer: true},
		{source: sourceSearch, wantSource: "search", wantExtractor: "readability", wantLimit: 10},
		{source: sourceFeed, wantSource: "feed", wantExtractor: "readability", wantLimit: 10},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			p, err := buildPipeline(cfg, tt.source, &bytes.Buffer{})
			require.NoError(t, err)

			assert.Equal(t, tt.wantSource, p.service.Source.Name())
			assert.Equal(t, tt.wantExtractor, p.service.Extractor.Name())
			assert.Equal(t, tt.wantLimit, p.limit)
			assert.Equal(t, tt.wantDelay, p.service.Delay)
			if tt.wantAnalyzer {
				assert.IsType(t, &analyzer.OpenAI{}, p.service.Analyzer)
			} else {
				assert.Nil(t, p.service.Analyzer)
			}
			assert.Equal(t, 30, p.service.Gate.MinWords)
		})
	}
}

func TestBuildPipeline_AnalyzeAll(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Search.APIKey = "key"
	cfg.LLM.Provider = config.ProviderNoop
	cfg.Pipeline.AnalyzeAll = true

	for _, name := range []string{sourceSearch, sourceFeed} {
		p, err := buildPipeline(cfg, name, &bytes.Buffer{})
		require.NoError(t, err)
		assert.IsType(t, &analyzer.Noop{}, p.service.Analyzer, name)
	}
}

func TestBuildPipeline_ProviderDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LLM.Provider = config.ProviderNone

	p, err := buildPipeline(cfg, sourceListing, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Nil(t, p.service.Analyzer)
}

func TestBuildPipeline_ComponentTypes(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LLM.Provider = config.ProviderNoop

	p, err := buildPipeline(cfg, sourceListing, &bytes.Buffer{})
	require.NoError(t, err)

	assert.IsType(t, &source.Listing{}, p.service.Source)
	assert.IsType(t, &extractor.Structural{}, p.service.Extractor)
	assert.IsType(t, &analyzer.Noop{}, p.service.Analyzer)
}

func TestBuildPipeline_Errors(t *testing.T) {
	cfg := config.DefaultConfig()

	_, err := buildPipeline(cfg, sourceSearch, &bytes.Buffer{})
	assert.ErrorContains(t, err, "NEWSAPI_KEY")

	_, err = buildPipeline(cfg, "twitter", &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown source")

	cfg.LLM.Provider = config.ProviderClaude
	_, err = buildPipeline(cfg, sourceListing, &bytes.Buffer{})
	assert.ErrorContains(t, err, "create analyzer")
}

func TestAnalyzerConfig(t *testing.T) {
	llm := config.DefaultConfig().LLM
	llm.Provider = config.ProviderOpenAI
	llm.Model = "mistral"
	llm.RequestsPerSecond = 0.5

	got := analyzerConfig(llm)

	assert.Equal(t, analyzer.Config{
		Provider:          "openai",
		Model:             "mistral",
		Timeout:           120 * time.Second,
		MaxAttempts:       1,
		MaxContentRunes:   12000,
		MaxTokens:         1024,
		RequestsPerSecond: 0.5,
	}, got)
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "www.businesstoday.in", hostOf("https://www.businesstoday.in"))
	assert.Equal(t, "not a url", hostOf("not a url"))
}
