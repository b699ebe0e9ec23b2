package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sony/gobreaker"

	"newsdigest/internal/domain/entity"
	"newsdigest/internal/resilience/circuitbreaker"
)

// ListingConfig describes a "latest articles" page.
type ListingConfig struct {
	BaseURL     string
	ListingURL  string
	PathMarker  string
	UserAgent   string
	MaxBodySize int64
}

// Listing discovers article links on a listing page.
//
// Anchors are scanned in document order; an anchor counts when it has a
// title attribute and its href contains PathMarker. There is no pagination
// and no dedup by URL.
type Listing struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         ListingConfig
	base           *url.URL
}

// NewListing creates a Listing adapter. BaseURL must be an absolute URL.
func NewListing(client *http.Client, config ListingConfig) (*Listing, error) {
	base, err := url.Parse(config.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: listing base URL %q", entity.ErrInvalidInput, config.BaseURL)
	}
	return &Listing{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.ListingConfig()),
		config:         config,
		base:           base,
	}, nil
}

// Name implements ingest.SourceAdapter.
func (l *Listing) Name() string { return "listing" }

// Discover fetches the listing page and returns up to limit references.
// The keyword is ignored. A failed page fetch is returned as an error.
func (l *Listing) Discover(ctx context.Context, _ string, limit int) ([]entity.ArticleReference, error) {
	if limit <= 0 {
		return nil, nil
	}

	result, err := l.circuitBreaker.Execute(func() (interface{}, error) {
		return l.fetchDocument(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("listing circuit breaker open, request rejected",
				slog.String("url", l.config.ListingURL),
				slog.String("state", l.circuitBreaker.State().String()))
		}
		return nil, fmt.Errorf("fetch listing page: %w", err)
	}

	return l.extractReferences(result.(*goquery.Document), limit), nil
}

func (l *Listing) fetchDocument(ctx context.Context) (*goquery.Document, error) {
	resp, err := get(ctx, l.client, l.config.ListingURL, l.config.UserAgent)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	// The page is parsed whatever the status; an error page simply yields no links.
	if resp.StatusCode != http.StatusOK {
		slog.Warn("listing page returned non-OK status",
			slog.String("url", l.config.ListingURL),
			slog.Int("status", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(limitBody(resp.Body, l.config.MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	return doc, nil
}

func (l *Listing) extractReferences(doc *goquery.Document, limit int) []entity.ArticleReference {
	refs := make([]entity.ArticleReference, 0, limit)

	doc.Find("a[href][title]").EachWithBreak(func(i int, a *goquery.Selection) bool {
		if len(refs) >= limit {
			return false
		}

		href, _ := a.Attr("href")
		if !strings.Contains(href, l.config.PathMarker) {
			return true
		}

		title, _ := a.Attr("title")
		title = strings.TrimSpace(title)
		if title == "" {
			slog.Debug("skipping article link with empty title", slog.Int("index", i), slog.String("href", href))
			return true
		}

		refs = append(refs, entity.ArticleReference{
			Title:  title,
			URL:    resolveURL(l.base, href),
			Source: l.base.Host,
		})
		return len(refs) < limit
	})

	return refs
}
