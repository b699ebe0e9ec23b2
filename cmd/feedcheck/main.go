// Command feedcheck reports the health of the configured RSS/Atom feeds.
//
// Usage:
//
//	feedcheck            # text report on stdout
//	feedcheck -json      # JSON report on stdout
//
// The exit status is 1 when at least one feed is broken.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"newsdigest/internal/config"
	"newsdigest/internal/infra/source"
	"newsdigest/internal/observability/logging"
)

// pauseBetweenFeeds spaces requests to the same publishers.
const pauseBetweenFeeds = 500 * time.Millisecond

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fset := flag.NewFlagSet("feedcheck", flag.ContinueOnError)
	fset.SetOutput(stderr)
	configPath := fset.String("config", "", "optional YAML configuration file")
	asJSON := fset.Bool("json", false, "write the report as JSON")
	pause := fset.Duration("pause", pauseBetweenFeeds, "pause between two feeds")
	if err := fset.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	envErr := godotenv.Load()
	logger := logging.NewFromEnv(stderr)
	slog.SetDefault(logger)
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Warn("failed to load .env file", slog.Any("error", envErr))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	diagnostics := diagnoseAll(ctx, logger, cfg, *pause)

	if *asJSON {
		err = writeJSON(stdout, diagnostics)
	} else {
		err = writeReport(stdout, diagnostics, time.Now())
	}
	if err != nil {
		logger.Error("failed to write report", slog.Any("error", err))
		return 1
	}

	for _, d := range diagnostics {
		if !d.Healthy() {
			return 1
		}
	}
	return 0
}

func diagnoseAll(ctx context.Context, logger *slog.Logger, cfg config.Config, pause time.Duration) []source.FeedDiagnostic {
	client := &http.Client{Timeout: cfg.HTTP.Timeout}
	diagnostics := make([]source.FeedDiagnostic, 0, len(cfg.Feed.URLs))

	for i, feedURL := range cfg.Feed.URLs {
		if i > 0 && !sleep(ctx, pause) {
			break
		}
		logger.Info("diagnosing feed",
			slog.Int("index", i+1),
			slog.Int("total", len(cfg.Feed.URLs)),
			slog.String("url", feedURL))
		diagnostics = append(diagnostics, source.Diagnose(ctx, client, feedURL, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodySize))
	}
	return diagnostics
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func writeJSON(w io.Writer, diagnostics []source.FeedDiagnostic) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(diagnostics)
}

func writeReport(w io.Writer, diagnostics []source.FeedDiagnostic, now time.Time) error {
	statusCount := make(map[string]int)
	var working, broken []source.FeedDiagnostic
	for _, d := range diagnostics {
		statusCount[d.Status]++
		if d.Healthy() {
			working = append(working, d)
		} else {
			broken = append(broken, d)
		}
	}

	p := &printer{w: w}
	p.printf("===============================================\n")
	p.printf("RSS Feed Diagnostic Report\n")
	p.printf("Generated: %s\n", now.Format(time.RFC3339))
	p.printf("Total Feeds: %d\n", len(diagnostics))
	p.printf("===============================================\n\n")

	p.printf("SUMMARY:\n")
	p.printf("  ✅ Working: %d (%.1f%%)\n", len(working), percent(len(working), len(diagnostics)))
	p.printf("  ❌ Broken: %d (%.1f%%)\n", len(broken), percent(len(broken), len(diagnostics)))

	p.printf("\nSTATUS BREAKDOWN:\n")
	statuses := make([]string, 0, len(statusCount))
	for status := range statusCount {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)
	for _, status := range statuses {
		p.printf("  %s: %d\n", status, statusCount[status])
	}

	p.printf("\n✅ WORKING FEEDS (%d):\n", len(working))
	p.printf("-------------------------------------------\n")
	for _, d := range working {
		p.printf("Title: %s\n", d.Title)
		p.printf("  URL: %s\n", d.URL)
		p.printf("  Type: %s | Items: %d | Latest: %s\n", d.FeedType, d.ItemCount, formatLatest(d.Latest))
		p.printf("  Response: %dms | HTTP: %d\n", d.ResponseTime, d.HTTPCode)
		if d.RedirectURL != "" {
			p.printf("  ⚠️  Redirected to: %s\n", d.RedirectURL)
		}
		p.printf("\n")
	}

	p.printf("\n❌ BROKEN FEEDS (%d):\n", len(broken))
	p.printf("-------------------------------------------\n")
	for _, d := range broken {
		p.printf("URL: %s\n", d.URL)
		p.printf("  Status: %s | HTTP: %d\n", d.Status, d.HTTPCode)
		p.printf("  Error: %s\n", d.Error)
		p.printf("  Response: %dms\n\n", d.ResponseTime)
	}
	return p.err
}

// printer keeps the first write error so the report can be written without
// checking every line.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func formatLatest(t *time.Time) string {
	if t == nil {
		return "unknown"
	}
	return t.UTC().Format(time.RFC3339)
}
