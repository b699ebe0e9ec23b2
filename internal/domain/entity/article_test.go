package entity_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdigest/internal/domain/entity"
)

func TestArticleReference_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ref     entity.ArticleReference
		wantErr bool
	}{
		{name: "valid", ref: entity.ArticleReference{Title: "Budget", URL: "https://example.com/story/1"}},
		{name: "blank title", ref: entity.ArticleReference{Title: "  ", URL: "https://example.com/story/1"}, wantErr: true},
		{name: "relative url", ref: entity.ArticleReference{Title: "Budget", URL: "/story/1"}, wantErr: true},
		{name: "ftp url", ref: entity.ArticleReference{Title: "Budget", URL: "ftp://example.com/1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ref.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, entity.ErrValidationFailed))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestArticleContent_Text(t *testing.T) {
	ref := entity.ArticleReference{Title: "T", URL: "https://example.com/a"}

	ok := entity.NewContent(ref, "body text")
	assert.False(t, ok.Failed())
	assert.Equal(t, "body text", ok.Text())
	assert.Equal(t, entity.StatusOK, ok.Status)

	tests := []struct {
		status entity.ContentStatus
		reason string
	}{
		{entity.StatusNotFound, "Article content div not found."},
		{entity.StatusEmpty, "Empty article body."},
		{entity.StatusFetchError, "Error fetching content: HTTP 500"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			c := entity.NewFailedContent(ref, tt.status, tt.reason)
			assert.True(t, c.Failed())
			assert.Empty(t, c.Body)
			assert.Equal(t, "❌ "+tt.reason, c.Text())
			assert.True(t, strings.HasPrefix(c.Text(), entity.FailureMarker))
		})
	}
}

func TestAnalysisResult_Output(t *testing.T) {
	tests := []struct {
		name   string
		result entity.AnalysisResult
		want   string
	}{
		{name: "report", result: entity.AnalysisResult{Report: "1. Summary: ok"}, want: "1. Summary: ok"},
		{name: "skipped", result: entity.AnalysisResult{Skipped: true, SkipReason: "too short"}, want: "⚠️ Skipping due to low content."},
		{name: "error", result: entity.AnalysisResult{Err: errors.New("connection refused")}, want: "❌ LLM Error: connection refused"},
		{name: "skip wins over error", result: entity.AnalysisResult{Skipped: true, Err: errors.New("x")}, want: entity.SkipMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Output())
		})
	}
}
