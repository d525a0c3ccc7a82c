package commands

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadArticle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "article.txt")
	if err := os.WriteFile(path, []byte("Some article text"), 0644); err != nil {
		t.Fatal(err)
	}

	body, err := readArticle(path)
	if err != nil {
		t.Fatalf("readArticle failed: %v", err)
	}
	if body != "Some article text" {
		t.Errorf("unexpected body %q", body)
	}

	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, []byte("  \n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := readArticle(empty); err == nil {
		t.Error("expected error for empty article")
	}

	if _, err := readArticle(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected error for missing article")
	}
}

func TestWriteOutputToFile(t *testing.T) {
	outputPath = filepath.Join(t.TempDir(), "out.json")
	t.Cleanup(func() { outputPath = "" })

	if err := writeJSON(map[string]string{"title": "Test"}); err != nil {
		t.Fatalf("writeJSON failed: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{\n  \"title\": \"Test\"\n}\n" {
		t.Errorf("unexpected output %q", data)
	}
}

func TestCreateRequiresSource(t *testing.T) {
	rootCmd.SetArgs([]string{"create", "--title", "Only title"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err == nil {
		t.Error("expected error when neither --url nor --file is given")
	}
}
