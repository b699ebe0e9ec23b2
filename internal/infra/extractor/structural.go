package extractor

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"newsdigest/internal/domain/entity"
)

// Failure reasons reported by the structural extractor.
const (
	ReasonNotFound = "Article content div not found."
	ReasonEmpty    = "Empty article body."
)

// StructuralConfig names the article body container of one site.
type StructuralConfig struct {
	// ContainerSelector is tried first, e.g. "div.text-formatted.field--name-body".
	ContainerSelector string
	// ContainerClass is the class substring of the fallback container, e.g. "field--name-body".
	ContainerClass string
}

// Structural extracts article text from a site-specific container element.
type Structural struct {
	fetcher *PageFetcher
	config  StructuralConfig
}

// NewStructural creates a Structural extractor.
func NewStructural(fetcher *PageFetcher, config StructuralConfig) *Structural {
	return &Structural{fetcher: fetcher, config: config}
}

// Name implements ingest.ContentExtractor.
func (s *Structural) Name() string { return "structural" }

// Extract fetches the page and joins the trimmed text of every paragraph of
// the container with newlines.
func (s *Structural) Extract(ctx context.Context, ref entity.ArticleReference) entity.ArticleContent {
	page, err := s.fetcher.Fetch(ctx, ref.URL)
	if err != nil {
		slog.Warn("failed to fetch article", slog.String("url", ref.URL), slog.Any("error", err))
		return entity.NewFailedContent(ref, entity.StatusFetchError, fmt.Sprintf("Error fetching content: %v", err))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.HTML))
	if err != nil {
		return entity.NewFailedContent(ref, entity.StatusFetchError, fmt.Sprintf("Error fetching content: %v", err))
	}

	body, found := s.ExtractFromDocument(doc)
	switch {
	case !found:
		return entity.NewFailedContent(ref, entity.StatusNotFound, ReasonNotFound)
	case body == "":
		return entity.NewFailedContent(ref, entity.StatusEmpty, ReasonEmpty)
	default:
		return entity.NewContent(ref, body)
	}
}

// ExtractFromDocument returns the container's paragraph text and whether a
// container was found at all.
func (s *Structural) ExtractFromDocument(doc *goquery.Document) (string, bool) {
	container := s.findContainer(doc)
	if container.Length() == 0 {
		return "", false
	}

	paragraphs := container.Find("p").Map(func(_ int, p *goquery.Selection) string {
		return strings.TrimSpace(p.Text())
	})
	return strings.TrimSpace(strings.Join(paragraphs, "\n")), true
}

func (s *Structural) findContainer(doc *goquery.Document) *goquery.Selection {
	if s.config.ContainerSelector != "" {
		if sel := doc.Find(s.config.ContainerSelector).First(); sel.Length() > 0 {
			return sel
		}
	}
	if s.config.ContainerClass == "" {
		return doc.FindNodes()
	}
	return doc.Find("div").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		return strings.Contains(class, s.config.ContainerClass)
	}).First()
}
