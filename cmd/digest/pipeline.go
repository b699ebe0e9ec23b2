package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"newsdigest/internal/config"
	"newsdigest/internal/infra/analyzer"
	"newsdigest/internal/infra/extractor"
	"newsdigest/internal/infra/render"
	"newsdigest/internal/infra/source"
	"newsdigest/internal/observability/logging"
	"newsdigest/internal/usecase/ingest"
)

const (
	sourceListing = "listing"
	sourceSearch  = "search"
	sourceFeed    = "feed"
)

// Preview widths of the compact layout used by the search and feed pipelines.
const (
	compactSummaryWidth = 150
	compactContentWidth = 200
)

const maxRedirects = 5

// pipeline is one assembled source variant ready to run.
type pipeline struct {
	name    string
	service *ingest.Service
	limit   int
	banner  string
	out     io.Writer
}

func buildPipeline(cfg config.Config, sourceName string, out io.Writer) (*pipeline, error) {
	client := &http.Client{Timeout: cfg.HTTP.Timeout}
	fetcher := extractor.NewPageFetcher(extractor.FetchConfig{
		UserAgent:      cfg.HTTP.UserAgent,
		Timeout:        cfg.HTTP.Timeout,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		MaxRedirects:   maxRedirects,
		DenyPrivateIPs: cfg.HTTP.DenyPrivateIPs,
	})
	gate := ingest.NewGate(cfg.Gate.MinWords)

	an, err := analyzer.New(analyzerConfig(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("create analyzer: %w", err)
	}

	// Search and feed results are rendered only, unless -analyze-all asks for more.
	var keywordAnalyzer ingest.Analyzer
	if cfg.Pipeline.AnalyzeAll {
		keywordAnalyzer = an
	}

	p := &pipeline{name: sourceName, out: out, limit: cfg.Pipeline.KeywordCount}
	compact := render.NewConsole(out, render.ConsoleConfig{
		Style:        render.StyleCompact,
		ContentWidth: compactContentWidth,
		SummaryWidth: compactSummaryWidth,
		ShowAnalysis: keywordAnalyzer != nil,
	})

	switch sourceName {
	case sourceListing:
		listing, err := source.NewListing(client, source.ListingConfig{
			BaseURL:     cfg.Listing.BaseURL,
			ListingURL:  cfg.Listing.ListingURL,
			PathMarker:  cfg.Listing.PathMarker,
			UserAgent:   cfg.HTTP.UserAgent,
			MaxBodySize: cfg.HTTP.MaxBodySize,
		})
		if err != nil {
			return nil, err
		}
		structural := extractor.NewStructural(fetcher, extractor.StructuralConfig{
			ContainerSelector: cfg.Listing.ContainerSelector,
			ContainerClass:    cfg.Listing.ContainerClass,
		})
		console := render.NewConsole(out, render.ConsoleConfig{
			Style:        render.StyleDetailed,
			ContentWidth: cfg.Pipeline.PreviewWidth,
			ShowAnalysis: an != nil,
		})
		p.service = ingest.NewService(listing, structural, gate, an, console, cfg.Pipeline.Delay)
		p.limit = cfg.Pipeline.Count
		p.banner = fmt.Sprintf("🔍 Scraping latest articles from %s...", hostOf(cfg.Listing.BaseURL))

	case sourceSearch:
		if cfg.Search.APIKey == "" {
			return nil, errors.New("NEWSAPI_KEY is required for the search source")
		}
		search := source.NewNewsAPI(client, source.NewsAPIConfig{
			Endpoint:    cfg.Search.Endpoint,
			APIKey:      cfg.Search.APIKey,
			Language:    cfg.Search.Language,
			SortBy:      cfg.Search.SortBy,
			UserAgent:   cfg.HTTP.UserAgent,
			MaxBodySize: cfg.HTTP.MaxBodySize,
		})
		p.service = ingest.NewService(search, extractor.NewReadability(fetcher), gate, keywordAnalyzer, compact, 0)

	case sourceFeed:
		feed := source.NewFeed(client, cfg.Feed.URLs, cfg.HTTP.UserAgent)
		p.service = ingest.NewService(feed, extractor.NewReadability(fetcher), gate, keywordAnalyzer, compact, 0)

	default:
		return nil, fmt.Errorf("unknown source %q", sourceName)
	}

	return p, nil
}

func analyzerConfig(c config.LLMConfig) analyzer.Config {
	return analyzer.Config{
		Provider:          c.Provider,
		Model:             c.Model,
		BaseURL:           c.BaseURL,
		APIKey:            c.APIKey,
		Timeout:           c.Timeout,
		MaxAttempts:       c.MaxAttempts,
		MaxContentRunes:   c.MaxContentRunes,
		MaxTokens:         c.MaxTokens,
		RequestsPerSecond: c.RequestsPerSecond,
	}
}

// runOnce executes one pipeline run under a fresh run id.
func runOnce(ctx context.Context, logger *slog.Logger, p *pipeline, keyword string) error {
	runLogger := logging.WithRunID(logger, uuid.New().String())
	ctx = logging.WithLogger(ctx, runLogger)

	if p.banner != "" {
		_, _ = fmt.Fprintln(p.out, p.banner)
	}

	stats, err := p.service.Run(ctx, keyword, p.limit)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			runLogger.Info("pipeline run interrupted", slog.String("source", p.name))
			return nil
		}
		runLogger.Error("pipeline run failed", slog.String("source", p.name), slog.Any("error", err))
		return err
	}

	if stats.Discovered == 0 {
		_, _ = fmt.Fprintln(p.out, "No articles found.")
	}
	return nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
