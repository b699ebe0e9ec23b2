package extractor_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdigest/internal/domain/entity"
	"newsdigest/internal/infra/extractor"
)

func newStructural() *extractor.Structural {
	cfg := extractor.DefaultFetchConfig()
	return extractor.NewStructural(extractor.NewPageFetcher(cfg), extractor.StructuralConfig{
		ContainerSelector: "div.text-formatted.field--name-body",
		ContainerClass:    "field--name-body",
	})
}

func servePage(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStructural_Extract_JoinsParagraphs(t *testing.T) {
	srv := servePage(t, http.StatusOK, `<html><body>
		<div class="text-formatted field--name-body">
			<p>  First paragraph.  </p>
			<p>Second paragraph.</p>
		</div>
		<p>Outside the container.</p>
	</body></html>`)

	ref := entity.ArticleReference{Title: "T", URL: srv.URL + "/story/a"}
	content := newStructural().Extract(context.Background(), ref)

	require.False(t, content.Failed())
	assert.Equal(t, "First paragraph.\nSecond paragraph.", content.Body)
	assert.Equal(t, ref, content.Reference)
}

func TestStructural_Extract_FallbackContainer(t *testing.T) {
	srv := servePage(t, http.StatusOK, `<html><body>
		<div class="clearfix field--name-body extra"><p>Fallback body.</p></div>
	</body></html>`)

	content := newStructural().Extract(context.Background(), entity.ArticleReference{URL: srv.URL})

	require.False(t, content.Failed())
	assert.Equal(t, "Fallback body.", content.Body)
}

func TestStructural_Extract_ContainerNotFound(t *testing.T) {
	srv := servePage(t, http.StatusOK, `<html><body><div class="story"><p>Text</p></div></body></html>`)

	content := newStructural().Extract(context.Background(), entity.ArticleReference{URL: srv.URL})

	assert.Equal(t, entity.StatusNotFound, content.Status)
	assert.Equal(t, entity.FailureMarker+" Article content div not found.", content.Text())
}

func TestStructural_Extract_EmptyBody(t *testing.T) {
	srv := servePage(t, http.StatusOK, `<html><body>
		<div class="text-formatted field--name-body"><p>   </p><span>no paragraphs</span></div>
	</body></html>`)

	content := newStructural().Extract(context.Background(), entity.ArticleReference{URL: srv.URL})

	assert.Equal(t, entity.StatusEmpty, content.Status)
	assert.Equal(t, entity.FailureMarker+" Empty article body.", content.Text())
}

func TestStructural_Extract_FetchError(t *testing.T) {
	srv := servePage(t, http.StatusInternalServerError, "boom")

	content := newStructural().Extract(context.Background(), entity.ArticleReference{URL: srv.URL})

	assert.Equal(t, entity.StatusFetchError, content.Status)
	assert.True(t, strings.HasPrefix(content.Text(), entity.FailureMarker+" Error fetching content:"))
	assert.Contains(t, content.Reason, "HTTP 500")
}

func TestStructural_Extract_InvalidScheme(t *testing.T) {
	content := newStructural().Extract(context.Background(), entity.ArticleReference{URL: "ftp://example.com/x"})

	assert.Equal(t, entity.StatusFetchError, content.Status)
	assert.Contains(t, content.Reason, "scheme 'ftp' not allowed")
}

func TestStructural_ExtractFromDocument(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantBody  string
		wantFound bool
	}{
		{
			name:      "exact selector wins over fallback",
			html:      `<div class="field--name-body"><p>fallback</p></div><div class="text-formatted field--name-body"><p>exact</p></div>`,
			wantBody:  "exact",
			wantFound: true,
		},
		{
			name:      "first fallback container",
			html:      `<div class="a field--name-body"><p>one</p></div><div class="field--name-body"><p>two</p></div>`,
			wantBody:  "one",
			wantFound: true,
		},
		{
			name:      "nested paragraphs are included",
			html:      `<div class="text-formatted field--name-body"><section><p>deep</p></section><p>top</p></div>`,
			wantBody:  "deep\ntop",
			wantFound: true,
		},
		{
			name:      "no container",
			html:      `<article><p>text</p></article>`,
			wantFound: false,
		},
	}

	s := newStructural()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
			require.NoError(t, err)

			body, found := s.ExtractFromDocument(doc)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestStructural_Name(t *testing.T) {
	assert.Equal(t, "structural", newStructural().Name())
}
