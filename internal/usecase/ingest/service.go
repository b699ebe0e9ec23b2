package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"newsdigest/internal/domain/entity"
	"newsdigest/internal/observability/logging"
	"newsdigest/internal/observability/metrics"
	"newsdigest/internal/observability/tracing"
)

// Service runs one pipeline variant: a source, an extractor, the gate and the consumers.
type Service struct {
	Source    SourceAdapter
	Extractor ContentExtractor
	Gate      Gate
	Analyzer  Analyzer // nil disables analysis
	Renderer  Renderer
	Delay     time.Duration // pause after each article
}

// NewService creates a Service. analyzer may be nil.
func NewService(
	source SourceAdapter,
	extractor ContentExtractor,
	gate Gate,
	analyzer Analyzer,
	renderer Renderer,
	delay time.Duration,
) *Service {
	return &Service{
		Source:    source,
		Extractor: extractor,
		Gate:      gate,
		Analyzer:  analyzer,
		Renderer:  renderer,
		Delay:     delay,
	}
}

// RunStats summarises one run.
type RunStats struct {
	Discovered     int
	Extracted      int
	Rejected       int
	Analyzed       int
	AnalysisErrors int
	Duration       time.Duration
}

// Run discovers up to limit references and processes them in order.
//
// Only a discovery error ends the run; per-article failures are recorded in
// the stats and rendered. A cancelled context stops the run between articles;
// the stats and run metrics still cover the articles already processed.
func (s *Service) Run(ctx context.Context, keyword string, limit int) (stats *RunStats, err error) {
	logger := logging.FromContext(ctx)
	start := time.Now()
	stats = &RunStats{}

	refs, err := s.discover(ctx, keyword, limit)
	if err != nil {
		return stats, err
	}
	stats.Discovered = len(refs)
	logger.Info("articles discovered",
		slog.String("source", s.Source.Name()),
		slog.String("keyword", keyword),
		slog.Int("count", len(refs)))

	defer func() {
		stats.Duration = time.Since(start)
		metrics.RecordRun(s.Source.Name(), stats.Duration)

		msg := "pipeline run completed"
		if err != nil {
			msg = "pipeline run interrupted"
		}
		logger.Info(msg,
			slog.String("source", s.Source.Name()),
			slog.Int("discovered", stats.Discovered),
			slog.Int("extracted", stats.Extracted),
			slog.Int("rejected", stats.Rejected),
			slog.Int("analyzed", stats.Analyzed),
			slog.Int("analysis_errors", stats.AnalysisErrors),
			slog.Duration("duration", stats.Duration))
	}()

	for i, ref := range refs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		content, result := s.Process(ctx, ref)
		s.count(stats, content, result)

		if s.Renderer != nil {
			if err := s.Renderer.Render(i+1, content, result); err != nil {
				logger.Warn("render failed", slog.String("url", ref.URL), slog.Any("error", err))
			}
		}

		if i < len(refs)-1 {
			if err := s.pause(ctx); err != nil {
				return stats, err
			}
		}
	}

	return stats, nil
}

func (s *Service) discover(ctx context.Context, keyword string, limit int) ([]entity.ArticleReference, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "ingest.discover")
	defer span.End()
	span.SetAttributes(
		attribute.String("source", s.Source.Name()),
		attribute.Int("limit", limit))

	refs, err := s.Source.Discover(ctx, keyword, limit)
	metrics.RecordDiscovery(s.Source.Name(), len(refs), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "discovery failed")
		return nil, fmt.Errorf("%w from %s: %w", ErrDiscoveryFailed, s.Source.Name(), err)
	}
	if len(refs) > limit {
		refs = refs[:limit]
	}
	return refs, nil
}

// Process extracts, gates and (when an analyzer is set) analyses one article.
// It never fails: every outcome is carried by the returned values.
func (s *Service) Process(ctx context.Context, ref entity.ArticleReference) (entity.ArticleContent, entity.AnalysisResult) {
	logger := logging.FromContext(ctx)
	ctx, span := tracing.GetTracer().Start(ctx, "ingest.article")
	defer span.End()
	span.SetAttributes(attribute.String("url", ref.URL))

	content := s.Extractor.Extract(ctx, ref)
	metrics.RecordExtraction(s.Extractor.Name(), string(content.Status))
	span.SetAttributes(attribute.String("content.status", string(content.Status)))

	result := entity.AnalysisResult{Reference: ref}

	verdict := s.Gate.Check(content)
	metrics.RecordGateDecision(verdict.Accepted)
	if !verdict.Accepted {
		logger.Info("article skipped by quality gate",
			slog.String("url", ref.URL),
			slog.String("reason", verdict.Reason))
		result.Skipped = true
		result.SkipReason = verdict.Reason
		if s.Analyzer != nil {
			metrics.RecordAnalysis("skipped")
		}
		return content, result
	}

	if s.Analyzer == nil {
		return content, result
	}

	report, err := s.Analyzer.Analyze(ctx, ref.Title, content.Body)
	if err != nil {
		logger.Warn("analysis failed", slog.String("url", ref.URL), slog.Any("error", err))
		span.RecordError(err)
		metrics.RecordAnalysis("failure")
		result.Err = err
		return content, result
	}

	metrics.RecordAnalysis("success")
	result.Report = report
	return content, result
}

func (s *Service) count(stats *RunStats, content entity.ArticleContent, result entity.AnalysisResult) {
	if !content.Failed() {
		stats.Extracted++
	}
	switch {
	case result.Skipped:
		stats.Rejected++
	case result.Err != nil:
		stats.AnalysisErrors++
	case s.Analyzer != nil:
		stats.Analyzed++
	}
}

// pause waits Delay or until ctx is done.
func (s *Service) pause(ctx context.Context) error {
	if s.Delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
