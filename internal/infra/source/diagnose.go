package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Feed health statuses reported by Diagnose.
const (
	FeedOK         = "OK"
	FeedRedirect   = "REDIRECT"
	FeedEmpty      = "EMPTY"
	FeedHTTPError  = "HTTP_ERROR"
	FeedTimeout    = "TIMEOUT"
	FeedReadError  = "READ_ERROR"
	FeedParseError = "PARSE_ERROR"
)

// FeedDiagnostic is the health report of one feed URL.
type FeedDiagnostic struct {
	URL          string     `json:"url"`
	Title        string     `json:"title,omitempty"`
	Status       string     `json:"status"`
	HTTPCode     int        `json:"http_code"`
	FeedType     string     `json:"feed_type,omitempty"`
	ItemCount    int        `json:"item_count"`
	Latest       *time.Time `json:"latest,omitempty"`
	RedirectURL  string     `json:"redirect_url,omitempty"`
	ResponseTime int64      `json:"response_time_ms"`
	Error        string     `json:"error,omitempty"`
}

// Healthy reports whether the feed can be used by the feed pipeline.
func (d FeedDiagnostic) Healthy() bool {
	return d.Status == FeedOK || d.Status == FeedRedirect
}

// Diagnose fetches feedURL once and classifies the outcome. It never fails;
// problems are described by the returned Status and Error.
func Diagnose(ctx context.Context, client *http.Client, feedURL, userAgent string, maxBodySize int64) FeedDiagnostic {
	diag := FeedDiagnostic{URL: feedURL}
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		diag.Status = FeedHTTPError
		diag.Error = err.Error()
		return diag
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := client.Do(req)
	diag.ResponseTime = time.Since(start).Milliseconds()
	if err != nil {
		var urlErr *url.Error
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || (errors.As(err, &urlErr) && urlErr.Timeout()) {
			diag.Status = FeedTimeout
		} else {
			diag.Status = FeedHTTPError
		}
		diag.Error = err.Error()
		return diag
	}
	defer func() { _ = resp.Body.Close() }()

	diag.HTTPCode = resp.StatusCode
	if resp.Request != nil && resp.Request.URL.String() != feedURL {
		diag.RedirectURL = resp.Request.URL.String()
	}

	if resp.StatusCode != http.StatusOK {
		diag.Status = FeedHTTPError
		diag.Error = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, resp.Status)
		return diag
	}

	body, err := io.ReadAll(limitBody(resp.Body, maxBodySize))
	if err != nil {
		diag.Status = FeedReadError
		diag.Error = err.Error()
		return diag
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		diag.Status = FeedParseError
		diag.Error = fmt.Sprintf("%v. Content preview: %s", err, preview(body, 200))
		return diag
	}

	diag.Title = feed.Title
	diag.FeedType = strings.ToUpper(feed.FeedType)
	diag.ItemCount = len(feed.Items)
	diag.Latest = latestItemTime(feed.Items)

	switch {
	case diag.ItemCount == 0:
		diag.Status = FeedEmpty
		diag.Error = "Feed has no items"
	case diag.RedirectURL != "":
		diag.Status = FeedRedirect
	default:
		diag.Status = FeedOK
	}
	return diag
}

func latestItemTime(items []*gofeed.Item) *time.Time {
	var latest *time.Time
	for _, item := range items {
		t := item.PublishedParsed
		if t == nil {
			t = item.UpdatedParsed
		}
		if t != nil && (latest == nil || t.After(*latest)) {
			latest = t
		}
	}
	return latest
}

func preview(body []byte, n int) string {
	s := strings.TrimSpace(string(body))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
