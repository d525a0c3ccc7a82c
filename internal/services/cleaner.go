package services

import (
	"regexp"
	"strings"

	apperrors "github.com/bobarin/podcaster/internal/errors"
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	footnotePattern   = regexp.MustCompile(`\[\d+\]`)
)

// TextCleaner normalizes scraped article text before planning.
type TextCleaner struct{}

func NewTextCleaner() *TextCleaner {
	return &TextCleaner{}
}

// Clean collapses whitespace runs to a single space, drops numeric footnote
// markers such as [12] and removes blank lines.
func (c *TextCleaner) Clean(raw string) (string, error) {
	content := whitespacePattern.ReplaceAllString(raw, " ")
	content = footnotePattern.ReplaceAllString(content, "")

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	cleaned := strings.TrimSpace(strings.Join(lines, "\n"))
	if cleaned == "" {
		return "", apperrors.ContentProcessing("failed to clean text: no content left", nil)
	}
	return cleaned, nil
}
