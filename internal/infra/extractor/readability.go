package extractor

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"

	"newsdigest/internal/domain/entity"
	"newsdigest/internal/usecase/ingest"
)

// Readability extracts article text from arbitrary pages with Mozilla's
// Readability algorithm.
type Readability struct {
	fetcher *PageFetcher
}

// NewReadability creates a Readability extractor.
func NewReadability(fetcher *PageFetcher) *Readability {
	return &Readability{fetcher: fetcher}
}

// Name implements ingest.ContentExtractor.
func (r *Readability) Name() string { return "readability" }

// Extract fetches and parses the page. Failures are logged and reported as
// StatusFetchError with an empty body.
func (r *Readability) Extract(ctx context.Context, ref entity.ArticleReference) entity.ArticleContent {
	page, err := r.fetcher.Fetch(ctx, ref.URL)
	if err != nil {
		slog.Warn("failed to extract content", slog.String("url", ref.URL), slog.Any("error", err))
		return entity.NewFailedContent(ref, entity.StatusFetchError, fmt.Sprintf("Error fetching content: %v", err))
	}

	pageURL := page.FinalURL
	if pageURL == nil {
		pageURL, _ = url.Parse(ref.URL)
	}

	text, err := ExtractText(page.HTML, pageURL)
	if err != nil {
		slog.Warn("failed to extract content", slog.String("url", ref.URL), slog.Any("error", err))
		return entity.NewFailedContent(ref, entity.StatusFetchError, err.Error())
	}
	if text == "" {
		return entity.NewFailedContent(ref, entity.StatusEmpty, ReasonEmpty)
	}
	return entity.NewContent(ref, text)
}

// ExtractText runs Readability over html and returns the trimmed plain text.
func ExtractText(html []byte, pageURL *url.URL) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(html), pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ingest.ErrExtractionFailed, err)
	}
	return strings.TrimSpace(article.TextContent), nil
}
