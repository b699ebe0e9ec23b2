package analyzer

import (
	"fmt"

	"newsdigest/internal/utils/text"
)

// SystemPrompt is the instruction sent with every analysis request.
const SystemPrompt = `You are a global news analyst.
Given a news article, respond with the following format:
1. Summary: ...
2. Sentiment: Positive / Negative / Neutral
3. Socio-economic Impact: ...
4. Political Impact: ...
5. Stock Market Impact: ...`

// TruncationMarker is appended on its own line to truncated content.
const TruncationMarker = "[content truncated]"

// BuildUserMessage formats the article for the model.
func BuildUserMessage(title, content string) string {
	return fmt.Sprintf("Title: %s\n\nContent:\n%s", title, content)
}

// TruncateContent cuts content to maxRunes runes and appends the marker
// line. A non-positive maxRunes leaves content untouched.
func TruncateContent(content string, maxRunes int) (string, bool) {
	if maxRunes <= 0 {
		return content, false
	}
	cut, truncated := text.TruncateRunes(content, maxRunes)
	if !truncated {
		return content, false
	}
	return cut + "\n" + TruncationMarker, true
}
