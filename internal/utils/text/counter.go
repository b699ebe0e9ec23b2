// Package text provides small text measurement helpers shared by the gate,
// the analyzers and the console renderer.
package text

import "strings"

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Multi-byte characters count as one.
//
//	CountRunes("hello")     // 5
//	CountRunes("héllo世界") // 7
func CountRunes(text string) int {
	return len([]rune(text))
}

// CountWords counts whitespace-separated words.
// Any run of Unicode whitespace separates words; leading and trailing space is ignored.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// TruncateRunes cuts text to at most limit runes without splitting a character.
// It reports whether the text was shortened. A non-positive limit disables truncation.
func TruncateRunes(text string, limit int) (string, bool) {
	if limit <= 0 {
		return text, false
	}
	count := 0
	for i := range text {
		if count == limit {
			return text[:i], true
		}
		count++
	}
	return text, false
}
