package services

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// TimestampLayout is the second-resolution timestamp embedded in every
// generated file name.
const TimestampLayout = "20060102_150405"

var (
	labelStripPattern = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s\p{Z}-]`)
	labelSpacePattern = regexp.MustCompile(`[\s\p{Z}]+`)
)

// SanitizeLabel turns a title or chapter label into a file name fragment:
// characters other than letters, digits, underscore, whitespace and hyphen
// are dropped, then whitespace runs become a single underscore.
func SanitizeLabel(label string) string {
	s := labelStripPattern.ReplaceAllString(strings.TrimSpace(label), "")
	s = labelSpacePattern.ReplaceAllString(s, "_")
	if s == "" {
		return "untitled"
	}
	return s
}

// Timestamp formats t with TimestampLayout.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// createExclusive creates dir if needed and opens name inside it for writing.
// It fails when the file already exists so concurrent runs never overwrite
// each other's artifacts.
func createExclusive(dir, name string) (*os.File, string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, path, nil
}

// writeExclusive writes data to a new file under dir.
func writeExclusive(dir, name string, data []byte) (string, error) {
	f, path, err := createExclusive(dir, name)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}
