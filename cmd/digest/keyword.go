package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

func keywordPrompt(sourceName string) string {
	if sourceName == sourceFeed {
		return "Enter keyword to search in RSS feeds: "
	}
	return "Enter keyword to search news: "
}

// promptKeyword writes prompt to w and reads one trimmed line from r.
// End of input yields whatever was typed, possibly the empty string.
func promptKeyword(r io.Reader, w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read keyword: %w", err)
	}
	return strings.TrimSpace(line), nil
}
