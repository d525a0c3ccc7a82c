package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/bobarin/podcaster/internal/app"
	"github.com/bobarin/podcaster/internal/config"
)

// loadPipeline loads the configuration and builds the pipeline.
func loadPipeline(ctx context.Context) (*app.Pipeline, error) {
	if !verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return app.Build(ctx, cfg)
}

// readArticle reads the article body from path, or stdin when path is "-".
func readArticle(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read article: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("article %s is empty", path)
	}
	return string(data), nil
}

// writeOutput writes data to --output, or stdout when unset.
func writeOutput(data []byte) error {
	if outputPath == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	fmt.Fprintf(os.Stderr, "Saved to %s\n", outputPath)
	return nil
}

func writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(append(data, '\n'))
}
