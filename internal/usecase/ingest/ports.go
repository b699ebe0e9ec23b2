// Package ingest implements the article-ingestion pipeline: discover references
// from a source, extract each article's content, gate it on quality, and hand
// accepted content to a consumer. Articles are processed strictly one at a time.
package ingest

import (
	"context"

	"newsdigest/internal/domain/entity"
)

// SourceAdapter discovers candidate articles from one kind of source.
//
// keyword may be empty; adapters that do not filter ignore it. At most limit
// references are returned, in source order.
type SourceAdapter interface {
	Name() string
	Discover(ctx context.Context, keyword string, limit int) ([]entity.ArticleReference, error)
}

// ContentExtractor turns an article reference into its body text.
//
// Extract never returns an error: every failure is reported through the
// Status and Reason of the returned content.
type ContentExtractor interface {
	Name() string
	Extract(ctx context.Context, ref entity.ArticleReference) entity.ArticleContent
}

// Analyzer produces a free-text report for an accepted article.
type Analyzer interface {
	Analyze(ctx context.Context, title, content string) (string, error)
}

// Renderer presents one processed article to the user.
// index is 1-based and follows discovery order.
type Renderer interface {
	Render(index int, content entity.ArticleContent, result entity.AnalysisResult) error
}
