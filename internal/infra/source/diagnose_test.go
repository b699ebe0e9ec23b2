package source_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdigest/internal/infra/source"
)

const diagnoseRSS = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Top Stories</title>
<item><title>Old</title><link>https://news.example/old</link><pubDate>Mon, 06 Jan 2025 08:00:00 GMT</pubDate></item>
<item><title>New</title><link>https://news.example/new</link><pubDate>Tue, 07 Jan 2025 09:30:00 GMT</pubDate></item>
</channel></rss>`

const diagnoseAtom = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom"><title>Atom News</title>
<entry><title>Entry</title><link href="https://news.example/e"/><updated>2025-02-01T12:00:00Z</updated></entry>
</feed>`

func diagnoseServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/rss", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(diagnoseRSS))
	})
	mux.HandleFunc("/atom", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(diagnoseAtom))
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/rss", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>Quiet</title></channel></rss>`))
	})
	mux.HandleFunc("/html", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>Not a feed</body></html>`))
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestDiagnose(t *testing.T) {
	srv := diagnoseServer(t)
	client := &http.Client{Timeout: 200 * time.Millisecond}

	tests := []struct {
		path        string
		wantStatus  string
		wantType    string
		wantItems   int
		wantHealthy bool
	}{
		{path: "/rss", wantStatus: source.FeedOK, wantType: "RSS", wantItems: 2, wantHealthy: true},
		{path: "/atom", wantStatus: source.FeedOK, wantType: "ATOM", wantItems: 1, wantHealthy: true},
		{path: "/moved", wantStatus: source.FeedRedirect, wantType: "RSS", wantItems: 2, wantHealthy: true},
		{path: "/empty", wantStatus: source.FeedEmpty, wantType: "RSS"},
		{path: "/html", wantStatus: source.FeedParseError},
		{path: "/missing", wantStatus: source.FeedHTTPError},
		{path: "/slow", wantStatus: source.FeedTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			d := source.Diagnose(context.Background(), client, srv.URL+tt.path, "", 1<<20)

			assert.Equal(t, srv.URL+tt.path, d.URL)
			assert.Equal(t, tt.wantStatus, d.Status, d.Error)
			assert.Equal(t, tt.wantType, d.FeedType)
			assert.Equal(t, tt.wantItems, d.ItemCount)
			assert.Equal(t, tt.wantHealthy, d.Healthy())
			if !tt.wantHealthy {
				assert.NotEmpty(t, d.Error)
			}
		})
	}
}

func TestDiagnose_Details(t *testing.T) {
	srv := diagnoseServer(t)
	client := &http.Client{Timeout: time.Second}

	d := source.Diagnose(context.Background(), client, srv.URL+"/moved", "", 1<<20)
	assert.Equal(t, srv.URL+"/rss", d.RedirectURL)
	assert.Equal(t, "Top Stories", d.Title)
	require.NotNil(t, d.Latest)
	assert.True(t, d.Latest.Equal(time.Date(2025, 1, 7, 9, 30, 0, 0, time.UTC)))

	missing := source.Diagnose(context.Background(), client, srv.URL+"/missing", "", 1<<20)
	assert.Equal(t, http.StatusNotFound, missing.HTTPCode)
	assert.Contains(t, missing.Error, "HTTP 404")

	html := source.Diagnose(context.Background(), client, srv.URL+"/html", "", 1<<20)
	assert.Contains(t, html.Error, "Content preview: <html>")
}
