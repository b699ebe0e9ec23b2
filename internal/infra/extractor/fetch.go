// Package extractor implements the ingest.ContentExtractor strategies: a
// structural extractor driven by CSS class signatures and a generic
// extractor built on Mozilla Readability.
package extractor

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"newsdigest/internal/resilience/circuitbreaker"
	"newsdigest/internal/resilience/retry"
	"newsdigest/internal/usecase/ingest"
)

// FetchConfig holds the HTTP settings shared by both extractors.
type FetchConfig struct {
	UserAgent      string
	Timeout        time.Duration
	MaxBodySize    int64
	MaxRedirects   int
	DenyPrivateIPs bool
}

// DefaultFetchConfig returns the settings used when none are given.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		UserAgent:    "Mozilla/5.0",
		Timeout:      10 * time.Second,
		MaxBodySize:  10 * 1024 * 1024,
		MaxRedirects: 5,
	}
}

// Page is a fetched HTML document.
type Page struct {
	HTML     []byte
	FinalURL *url.URL
}

// PageFetcher downloads article pages with a timeout, a size cap, validated
// redirects and one circuit breaker per host.
type PageFetcher struct {
	client *http.Client
	config FetchConfig

	mu       sync.Mutex
	breakers map[string]*circuitbreaker.CircuitBreaker
}

// NewPageFetcher creates a PageFetcher with its own HTTP client.
func NewPageFetcher(config FetchConfig) *PageFetcher {
	f := &PageFetcher{
		config:   config,
		breakers: make(map[string]*circuitbreaker.CircuitBreaker),
	}

	f.client = &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ingest.ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.URL.String(), f.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
	return f
}

// Fetch downloads rawURL through the circuit breaker of its host.
func (f *PageFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if err := validateURL(rawURL, f.config.DenyPrivateIPs); err != nil {
		return nil, err
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ingest.ErrInvalidURL, err)
	}

	result, err := f.breaker(u.Host).Execute(func() (interface{}, error) {
		return f.doFetch(ctx, rawURL)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			return nil, fmt.Errorf("article fetch from %s unavailable: %w", u.Host, err)
		}
		return nil, err
	}
	return result.(*Page), nil
}

func (f *PageFetcher) doFetch(ctx context.Context, rawURL string) (*Page, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ingest.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		isURLErr := errors.As(err, &urlErr)
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) || (isURLErr && urlErr.Timeout()) {
			return nil, fmt.Errorf("%w: request exceeded %v", ingest.ErrTimeout, f.config.Timeout)
		}
		if isURLErr && urlErr.Err != nil {
			return nil, urlErr.Err
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > f.config.MaxBodySize {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ingest.ErrBodyTooLarge, f.config.MaxBodySize)
	}

	page := &Page{HTML: body}
	if resp.Request != nil {
		page.FinalURL = resp.Request.URL
	}
	return page, nil
}

func (f *PageFetcher) breaker(host string) *circuitbreaker.CircuitBreaker {
	f.mu.Lock()
	defer f.mu.Unlock()

	cb, ok := f.breakers[host]
	if !ok {
		cfg := circuitbreaker.ArticleConfig(host)
		cfg.IsSuccessful = hostHealthy
		cb = circuitbreaker.New(cfg)
		f.breakers[host] = cb
	}
	return cb
}

// hostHealthy reports whether err still means the host is answering.
// Refusals such as 403 or 404 and oversized or looping pages concern one
// article, not the host.
func hostHealthy(err error) bool {
	if err == nil {
		return true
	}
	var httpErr *retry.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode < 500
	}
	return errors.Is(err, ingest.ErrBodyTooLarge) ||
		errors.Is(err, ingest.ErrTooManyRedirects) ||
		errors.Is(err, ingest.ErrPrivateIP) ||
		errors.Is(err, ingest.ErrInvalidURL)
}
