// Command digest discovers news articles from a listing page, a news-search
// API or RSS feeds, extracts their text and prints them, optionally with an
// LLM analysis of each article.
//
// Usage:
//
//	digest -source listing
//	digest -source listing -provider none
//	digest -source search -keyword election
//	digest -source feed -keyword budget -schedule "@hourly"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"newsdigest/internal/config"
	"newsdigest/internal/observability/logging"
	"newsdigest/internal/observability/tracing"
)

type options struct {
	source      string
	keyword     string
	configPath  string
	schedule    string
	metricsAddr string
	provider    string
	count       int
	analyzeAll  bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fset := flag.NewFlagSet("digest", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.StringVar(&opts.source, "source", sourceListing, "article source: listing, search or feed")
	fset.StringVar(&opts.keyword, "keyword", "", "search keyword (prompted on stdin when empty for search and feed)")
	fset.StringVar(&opts.configPath, "config", "", "optional YAML configuration file")
	fset.StringVar(&opts.schedule, "schedule", "", "cron expression repeating the run (e.g. \"@hourly\")")
	fset.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. \":9090\")")
	fset.StringVar(&opts.provider, "provider", "", "LLM provider override: openai, claude, noop or none")
	fset.BoolVar(&opts.analyzeAll, "analyze-all", false, "also analyze search and feed articles with the LLM")
	fset.IntVar(&opts.count, "count", 0, "number of articles (0 uses the configured default)")
	if err := fset.Parse(args); err != nil {
		return opts, err
	}

	switch opts.source {
	case sourceListing, sourceSearch, sourceFeed:
	default:
		return opts, fmt.Errorf("unknown source %q", opts.source)
	}
	return opts, nil
}

// applyFlags overlays command-line values onto cfg.
func applyFlags(cfg *config.Config, opts options) {
	if opts.schedule != "" {
		cfg.Pipeline.Schedule = opts.schedule
	}
	if opts.provider != "" {
		cfg.LLM.Provider = opts.provider
	}
	if opts.count > 0 {
		cfg.Pipeline.Count = opts.count
		cfg.Pipeline.KeywordCount = opts.count
	}
	if opts.analyzeAll {
		cfg.Pipeline.AnalyzeAll = true
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	envErr := godotenv.Load()

	logger := logging.NewFromEnv(stderr)
	slog.SetDefault(logger)

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Warn("failed to load .env file", slog.Any("error", envErr))
	}

	cfg, err := config.Load(opts.configPath, func(c *config.Config) { applyFlags(c, opts) })
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := tracing.Setup()
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	if opts.metricsAddr != "" {
		startMetricsServer(ctx, logger, opts.metricsAddr)
	}

	p, err := buildPipeline(cfg, opts.source, stdout)
	if err != nil {
		logger.Error("failed to build pipeline", slog.Any("error", err))
		return 1
	}

	keyword := opts.keyword
	if opts.source != sourceListing && keyword == "" {
		keyword, err = promptKeyword(stdin, stdout, keywordPrompt(opts.source))
		if err != nil {
			logger.Error("failed to read keyword", slog.Any("error", err))
			return 1
		}
	}

	if cfg.Pipeline.Schedule != "" {
		if err := runScheduled(ctx, logger, cfg.Pipeline.Schedule, func(ctx context.Context) error {
			return runOnce(ctx, logger, p, keyword)
		}); err != nil {
			logger.Error("scheduler failed", slog.Any("error", err))
			return 1
		}
		return 0
	}

	if err := runOnce(ctx, logger, p, keyword); err != nil {
		return 1
	}
	return 0
}
