// Package render writes processed articles to a terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"

	"newsdigest/internal/domain/entity"
)

// Style selects the block layout.
type Style int

const (
	// StyleDetailed prints a banner per article with a long preview and the
	// analysis report. Used by the listing pipeline.
	StyleDetailed Style = iota
	// StyleCompact prints a numbered list entry with metadata and short
	// previews. Used by the search and feed pipelines.
	StyleCompact
)

// Separator closes every detailed block.
const Separator = "-----------------------------------------------------"

// ConsoleConfig controls the layout of a Console.
type ConsoleConfig struct {
	Style Style
	// ContentWidth is the display width of the content preview.
	ContentWidth int
	// SummaryWidth is the display width of the summary preview. 0 hides the summary.
	SummaryWidth int
	// ShowAnalysis prints the analysis output (report, skip notice or error).
	ShowAnalysis bool
}

// Console renders articles to an io.Writer. It is safe for concurrent use.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	config ConsoleConfig
}

// NewConsole creates a Console writing to w.
func NewConsole(w io.Writer, config ConsoleConfig) *Console {
	return &Console{w: w, config: config}
}

// Render implements ingest.Renderer.
func (c *Console) Render(index int, content entity.ArticleContent, result entity.AnalysisResult) error {
	var b strings.Builder
	switch c.config.Style {
	case StyleCompact:
		c.compact(&b, index, content, result)
	default:
		c.detailed(&b, index, content, result)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := io.WriteString(c.w, b.String())
	return err
}

func (c *Console) detailed(b *strings.Builder, index int, content entity.ArticleContent, result entity.AnalysisResult) {
	ref := content.Reference
	fmt.Fprintf(b, "\n🔹 [%d] %s\n", index, ref.Title)
	fmt.Fprintf(b, "🔗 %s\n", ref.URL)
	fmt.Fprintf(b, "\n📝 Content Preview:\n%s\n\n", Preview(content.Text(), c.config.ContentWidth))
	if c.config.ShowAnalysis {
		fmt.Fprintf(b, "🤖 LLM Analysis:\n%s\n\n", result.Output())
	}
	b.WriteString(Separator + "\n\n")
}

func (c *Console) compact(b *strings.Builder, index int, content entity.ArticleContent, result entity.AnalysisResult) {
	ref := content.Reference
	if ref.Source != "" {
		fmt.Fprintf(b, "%d. %s (%s)\n", index, ref.Title, ref.Source)
	} else {
		fmt.Fprintf(b, "%d. %s\n", index, ref.Title)
	}
	fmt.Fprintf(b, "   Published: %s\n", FormatPublished(ref.PublishedAt))
	fmt.Fprintf(b, "   Link: %s\n", ref.URL)
	if c.config.SummaryWidth > 0 && ref.Summary != "" {
		fmt.Fprintf(b, "   Summary: %s\n", Preview(ref.Summary, c.config.SummaryWidth))
	}
	fmt.Fprintf(b, "   Content Preview: %s\n", Preview(content.Text(), c.config.ContentWidth))
	if c.config.ShowAnalysis {
		fmt.Fprintf(b, "   Analysis:\n%s\n", indent(result.Output(), "      "))
	}
	b.WriteString("\n")
}

// Preview returns the first width display columns of s followed by "...".
// Wide characters count as two columns. A non-positive width keeps s whole.
func Preview(s string, width int) string {
	if width > 0 {
		s = runewidth.Truncate(s, width, "")
	}
	return s + "..."
}

// FormatPublished renders a publication time, or "unknown" when absent.
func FormatPublished(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "unknown"
	}
	return t.Format(time.RFC1123)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
