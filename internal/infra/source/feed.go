package source

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"newsdigest/internal/domain/entity"
	"newsdigest/internal/resilience/circuitbreaker"
)

// Feed discovers articles from a fixed list of RSS/Atom feeds filtered by keyword.
//
// Feeds are parsed in order and entries are visited in feed order. An entry
// matches when the keyword, case-insensitively, is a substring of its title
// concatenated with its summary. Collection stops as soon as limit matches
// are found: no further entries or feeds are parsed.
type Feed struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	feeds          []string
	userAgent      string
}

// NewFeed creates a Feed adapter over feedURLs.
func NewFeed(client *http.Client, feedURLs []string, userAgent string) *Feed {
	return &Feed{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedConfig()),
		feeds:          append([]string(nil), feedURLs...),
		userAgent:      userAgent,
	}
}

// Name implements ingest.SourceAdapter.
func (f *Feed) Name() string { return "feed" }

// Discover returns up to limit matching entries across all feeds.
// A feed that cannot be fetched or parsed is logged and skipped; the error is always nil.
func (f *Feed) Discover(ctx context.Context, keyword string, limit int) ([]entity.ArticleReference, error) {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	var matched []entity.ArticleReference

	for _, feedURL := range f.feeds {
		if len(matched) >= limit {
			break
		}
		if ctx.Err() != nil {
			break
		}

		slog.Info("parsing feed", slog.String("url", feedURL))
		feed, err := f.parse(ctx, feedURL)
		if err != nil {
			slog.Warn("failed to parse feed", slog.String("url", feedURL), slog.Any("error", err))
			continue
		}

		for _, item := range feed.Items {
			if len(matched) >= limit {
				break
			}
			if !Matches(needle, item.Title, item.Description) {
				continue
			}
			matched = append(matched, toReference(feed, item))
		}
	}

	slog.Info("feed search completed",
		slog.String("keyword", keyword),
		slog.Int("matched", len(matched)))
	return matched, nil
}

func (f *Feed) parse(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	result, err := f.circuitBreaker.Execute(func() (interface{}, error) {
		fp := gofeed.NewParser()
		fp.Client = f.client
		if f.userAgent != "" {
			fp.UserAgent = f.userAgent
		}
		return fp.ParseURLWithContext(feedURL, ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("feed fetch circuit breaker open, request rejected",
				slog.String("url", feedURL),
				slog.String("state", f.circuitBreaker.State().String()))
		}
		return nil, err
	}
	return result.(*gofeed.Feed), nil
}

// Matches reports whether lowered keyword occurs in title+summary, ignoring case.
// An empty keyword matches every entry.
func Matches(loweredKeyword, title, summary string) bool {
	if loweredKeyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(title+summary), loweredKeyword)
}

func toReference(feed *gofeed.Feed, item *gofeed.Item) entity.ArticleReference {
	ref := entity.ArticleReference{
		Title:       strings.TrimSpace(item.Title),
		URL:         strings.TrimSpace(item.Link),
		Summary:     item.Description,
		Source:      feed.Title,
		PublishedAt: item.PublishedParsed,
	}
	if ref.PublishedAt == nil {
		ref.PublishedAt = item.UpdatedParsed
	}
	return ref
}
