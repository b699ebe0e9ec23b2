package ingest

import (
	"fmt"
	"strings"

	"newsdigest/internal/domain/entity"
	"newsdigest/internal/utils/text"
)

// DefaultMinWords is the minimum word count of content accepted by the gate.
const DefaultMinWords = 30

// Verdict is the quality gate decision for one article.
type Verdict struct {
	Accepted bool
	Reason   string
	Words    int
}

// Gate rejects content that is a failure sentinel or too short.
// It is a pure value; the zero Gate accepts any non-sentinel content.
type Gate struct {
	MinWords int
}

// NewGate returns a gate with the given word threshold.
// A negative threshold falls back to DefaultMinWords.
func NewGate(minWords int) Gate {
	if minWords < 0 {
		minWords = DefaultMinWords
	}
	return Gate{MinWords: minWords}
}

// Evaluate decides on raw content. The title does not influence the decision.
func (g Gate) Evaluate(_ string, content string) Verdict {
	if strings.HasPrefix(content, entity.FailureMarker) {
		return Verdict{Reason: "extraction failed"}
	}

	words := text.CountWords(content)
	if words < g.MinWords {
		return Verdict{
			Reason: fmt.Sprintf("content too short: %d words, minimum %d", words, g.MinWords),
			Words:  words,
		}
	}
	return Verdict{Accepted: true, Words: words}
}

// Check applies Evaluate to a typed extraction result.
// A failed extraction is rejected like its sentinel text would be.
func (g Gate) Check(c entity.ArticleContent) Verdict {
	if c.Failed() {
		return Verdict{Reason: fmt.Sprintf("extraction %s: %s", c.Status, c.Reason)}
	}
	return g.Evaluate(c.Reference.Title, c.Body)
}
