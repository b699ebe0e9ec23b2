package analyzer

import (
	"context"
	"fmt"
	"strings"
)

// noopSummaryWords is the number of leading words echoed as the summary.
const noopSummaryWords = 40

// Noop produces a report in the five-part format without calling a model.
type Noop struct{}

// NewNoop creates a Noop analyzer.
func NewNoop() *Noop {
	return &Noop{}
}

// Analyze implements ingest.Analyzer.
func (n *Noop) Analyze(_ context.Context, title, content string) (string, error) {
	words := strings.Fields(content)
	if len(words) > noopSummaryWords {
		words = append(words[:noopSummaryWords], "...")
	}
	return fmt.Sprintf(`1. Summary: %s: %s
2. Sentiment: Neutral
3. Socio-economic Impact: not analyzed
4. Political Impact: not analyzed
5. Stock Market Impact: not analyzed`, title, strings.Join(words, " ")), nil
}
