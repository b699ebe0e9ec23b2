package source

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"newsdigest/internal/domain/entity"
)

// NewsAPIConfig configures the keyword-search API adapter.
type NewsAPIConfig struct {
	Endpoint    string
	APIKey      string
	Language    string
	SortBy      string
	UserAgent   string
	MaxBodySize int64
}

// NewsAPI discovers articles through a newsapi.org-style "everything" endpoint.
type NewsAPI struct {
	client *http.Client
	config NewsAPIConfig
}

// NewNewsAPI creates a NewsAPI adapter.
func NewNewsAPI(client *http.Client, config NewsAPIConfig) *NewsAPI {
	if config.SortBy == "" {
		config.SortBy = "publishedAt"
	}
	return &NewsAPI{client: client, config: config}
}

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// Name implements ingest.SourceAdapter.
func (n *NewsAPI) Name() string { return "search" }

// Discover queries the API for keyword and returns its article list as-is,
// up to limit entries. Request, status and decoding failures are logged and
// yield an empty list; the error is always nil.
func (n *NewsAPI) Discover(ctx context.Context, keyword string, limit int) ([]entity.ArticleReference, error) {
	logger := slog.Default().With(slog.String("source", n.Name()), slog.String("keyword", keyword))

	resp, err := get(ctx, n.client, n.requestURL(keyword, limit), n.config.UserAgent)
	if err != nil {
		logger.Error("search request failed", slog.Any("error", err))
		return nil, nil
	}
	defer func() { _ = resp.Body.Close() }()

	var payload newsAPIResponse
	decodeErr := json.NewDecoder(limitBody(resp.Body, n.config.MaxBodySize)).Decode(&payload)

	if resp.StatusCode != http.StatusOK {
		logger.Error("search request returned non-OK status",
			slog.Int("status", resp.StatusCode),
			slog.String("code", payload.Code),
			slog.String("message", payload.Message))
		return nil, nil
	}
	if decodeErr != nil {
		logger.Error("failed to decode search response", slog.Any("error", decodeErr))
		return nil, nil
	}

	refs := make([]entity.ArticleReference, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		if limit > 0 && len(refs) >= limit {
			break
		}
		refs = append(refs, entity.ArticleReference{
			Title:       a.Title,
			URL:         a.URL,
			Summary:     a.Description,
			Source:      a.Source.Name,
			PublishedAt: parsePublished(a.PublishedAt),
		})
	}

	logger.Info("fetched search results", slog.Int("count", len(refs)))
	return refs, nil
}

func (n *NewsAPI) requestURL(keyword string, limit int) string {
	params := url.Values{}
	params.Set("q", keyword)
	params.Set("sortBy", n.config.SortBy)
	if n.config.Language != "" {
		params.Set("language", n.config.Language)
	}
	if limit > 0 {
		params.Set("pageSize", strconv.Itoa(limit))
	}
	params.Set("apiKey", n.config.APIKey)
	return n.config.Endpoint + "?" + params.Encode()
}

func parsePublished(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		slog.Debug("unparseable publish time", slog.String("value", s))
		return nil
	}
	return &t
}
