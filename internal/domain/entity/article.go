// Package entity defines the core domain records of the ingestion pipeline.
// Every record lives for a single pipeline pass: a reference is discovered,
// its content is extracted and gated, and an analysis result is rendered.
package entity

import (
	"strings"
	"time"
)

// FailureMarker prefixes every failure sentinel produced by the pipeline.
const FailureMarker = "❌"

// SkipMessage is the report text of an article rejected by the quality gate.
const SkipMessage = "⚠️ Skipping due to low content."

// ArticleReference is a candidate article discovered by a source adapter.
type ArticleReference struct {
	Title       string
	URL         string
	Summary     string
	Source      string
	PublishedAt *time.Time
}

// Validate checks that the reference carries a title and an absolute http(s) URL.
func (r ArticleReference) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	return ValidateURL(r.URL)
}

// ContentStatus tags the outcome of a content extraction.
type ContentStatus string

const (
	StatusOK         ContentStatus = "ok"
	StatusEmpty      ContentStatus = "empty"
	StatusNotFound   ContentStatus = "not-found"
	StatusFetchError ContentStatus = "fetch-error"
)

// ArticleContent is the extracted body of an article.
// Body is only meaningful when Status is StatusOK; otherwise Reason explains the failure.
type ArticleContent struct {
	Reference ArticleReference
	Body      string
	Status    ContentStatus
	Reason    string
}

// NewContent builds a successful extraction result.
func NewContent(ref ArticleReference, body string) ArticleContent {
	return ArticleContent{Reference: ref, Body: body, Status: StatusOK}
}

// NewFailedContent builds a failed extraction result.
func NewFailedContent(ref ArticleReference, status ContentStatus, reason string) ArticleContent {
	return ArticleContent{Reference: ref, Status: status, Reason: reason}
}

// Failed reports whether the extraction did not produce usable text.
func (c ArticleContent) Failed() bool {
	return c.Status != StatusOK
}

// Text returns the body, or the failure sentinel when extraction failed.
func (c ArticleContent) Text() string {
	if c.Failed() {
		return FailureMarker + " " + c.Reason
	}
	return c.Body
}

// AnalysisResult is the consumer output for one article.
type AnalysisResult struct {
	Reference  ArticleReference
	Report     string
	Skipped    bool
	SkipReason string
	Err        error
}

// Output returns the text shown to the user for this result.
func (a AnalysisResult) Output() string {
	switch {
	case a.Skipped:
		return SkipMessage
	case a.Err != nil:
		return FailureMarker + " LLM Error: " + a.Err.Error()
	default:
		return a.Report
	}
}
