package extractor_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdigest/internal/domain/entity"
	"newsdigest/internal/infra/extractor"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Budget Announced</title></head>
<body>
	<nav><a href="/">Home</a> <a href="/world">World</a></nav>
	<article>
		<h1>Budget Announced</h1>
		<p>The finance minister presented the annual budget in parliament on Monday, outlining new spending on infrastructure.</p>
		<p>Economists said the plan would widen the fiscal deficit slightly but support growth in the coming year.</p>
		<p>Opposition leaders criticised the lack of relief for middle-income taxpayers and demanded a debate.</p>
	</article>
	<footer>Copyright</footer>
</body>
</html>`

func TestReadability_Extract_Success(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	cfg := extractor.DefaultFetchConfig()
	cfg.UserAgent = "DigestBot/1.0"
	r := extractor.NewReadability(extractor.NewPageFetcher(cfg))

	content := r.Extract(context.Background(), entity.ArticleReference{Title: "Budget", URL: srv.URL + "/budget"})

	require.False(t, content.Failed(), content.Reason)
	assert.Contains(t, content.Body, "finance minister presented the annual budget")
	assert.Contains(t, content.Body, "Opposition leaders")
	assert.Equal(t, "DigestBot/1.0", gotUA)
}

func TestReadability_Extract_HTTPErrorIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	r := extractor.NewReadability(extractor.NewPageFetcher(extractor.DefaultFetchConfig()))
	content := r.Extract(context.Background(), entity.ArticleReference{URL: srv.URL})

	assert.Equal(t, entity.StatusFetchError, content.Status)
	assert.Empty(t, content.Body)
	assert.Contains(t, content.Reason, "HTTP 404")
}

func TestReadability_Extract_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	cfg := extractor.DefaultFetchConfig()
	cfg.Timeout = 50 * time.Millisecond
	r := extractor.NewReadability(extractor.NewPageFetcher(cfg))

	content := r.Extract(context.Background(), entity.ArticleReference{URL: srv.URL})

	assert.Equal(t, entity.StatusFetchError, content.Status)
	assert.Contains(t, content.Reason, "timeout")
}

func TestReadability_Extract_BodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 4096)))
	}))
	defer srv.Close()

	cfg := extractor.DefaultFetchConfig()
	cfg.MaxBodySize = 1024
	r := extractor.NewReadability(extractor.NewPageFetcher(cfg))

	content := r.Extract(context.Background(), entity.ArticleReference{URL: srv.URL})

	assert.Equal(t, entity.StatusFetchError, content.Status)
	assert.Contains(t, content.Reason, "body too large")
}

func TestReadability_Extract_TooManyRedirects(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer srv.Close()

	cfg := extractor.DefaultFetchConfig()
	cfg.MaxRedirects = 2
	r := extractor.NewReadability(extractor.NewPageFetcher(cfg))

	content := r.Extract(context.Background(), entity.ArticleReference{URL: srv.URL + "/r"})

	assert.Equal(t, entity.StatusFetchError, content.Status)
	assert.Contains(t, content.Reason, "too many redirects")
}

func TestReadability_Extract_PrivateIPDenied(t *testing.T) {
	cfg := extractor.DefaultFetchConfig()
	cfg.DenyPrivateIPs = true
	r := extractor.NewReadability(extractor.NewPageFetcher(cfg))

	content := r.Extract(context.Background(), entity.ArticleReference{URL: "http://127.0.0.1:1/article"})

	assert.Equal(t, entity.StatusFetchError, content.Status)
	assert.Contains(t, content.Reason, "private IP")
}

func TestExtractText(t *testing.T) {
	u, err := url.Parse("https://example.com/budget")
	require.NoError(t, err)

	text, err := extractor.ExtractText([]byte(articleHTML), u)
	require.NoError(t, err)
	assert.Contains(t, text, "Economists said")
	assert.Equal(t, strings.TrimSpace(text), text)
}

func TestReadability_Extract_RefusedArticlesDoNotBlockOthers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/paywalled") {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	r := extractor.NewReadability(extractor.NewPageFetcher(extractor.DefaultFetchConfig()))
	paths := []string{"/ok1", "/paywalled1", "/ok2", "/paywalled2", "/paywalled3", "/paywalled4", "/paywalled5", "/ok3", "/ok4"}

	for _, path := range paths {
		content := r.Extract(context.Background(), entity.ArticleReference{URL: srv.URL + path})
		if strings.HasPrefix(path, "/paywalled") {
			assert.Equal(t, entity.StatusFetchError, content.Status, path)
			assert.Contains(t, content.Reason, "HTTP 403", path)
			continue
		}
		require.False(t, content.Failed(), "%s: %s", path, content.Reason)
		assert.Contains(t, content.Body, "finance minister", path)
	}
}

func TestReadability_Extract_FailingHostDoesNotBlockOtherHosts(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer down.Close()
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer up.Close()

	r := extractor.NewReadability(extractor.NewPageFetcher(extractor.DefaultFetchConfig()))
	for i := 0; i < 6; i++ {
		content := r.Extract(context.Background(), entity.ArticleReference{URL: down.URL + "/story"})
		assert.Equal(t, entity.StatusFetchError, content.Status)
	}

	blocked := r.Extract(context.Background(), entity.ArticleReference{URL: down.URL + "/story"})
	assert.Contains(t, blocked.Reason, "circuit breaker is open")

	content := r.Extract(context.Background(), entity.ArticleReference{URL: up.URL + "/story"})
	require.False(t, content.Failed(), content.Reason)
	assert.Contains(t, content.Body, "finance minister")
}
