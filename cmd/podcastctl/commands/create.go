package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	createURL   string
	createTitle string
	createFile  string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a podcast from a wiki URL or a local article",
	Long: `Create a podcast from a wiki URL or a local article.

Either --url, or --title together with --file, is required.
Prints the podcast and script paths as JSON.

Examples:
  podcastctl create --url https://namu.wiki/w/Example
  podcastctl create --title "Example" --file article.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if createURL == "" && (createTitle == "" || createFile == "") {
			return fmt.Errorf("either --url or both --title and --file are required")
		}

		ctx := cmd.Context()
		p, err := loadPipeline(ctx)
		if err != nil {
			return err
		}

		title, body := strings.TrimSpace(createTitle), ""
		if createURL != "" {
			doc, err := p.Fetcher.Fetch(ctx, createURL)
			if err != nil {
				return err
			}
			title, body = doc.Title, doc.Body
		} else {
			if body, err = readArticle(createFile); err != nil {
				return err
			}
		}

		cleaned, err := p.Cleaner.Clean(body)
		if err != nil {
			return err
		}

		result, err := p.Assembler.CreatePodcast(ctx, title, cleaned)
		if err != nil {
			return err
		}

		return writeJSON(result)
	},
}

func init() {
	createCmd.Flags().StringVar(&createURL, "url", "", "Wiki article URL")
	createCmd.Flags().StringVar(&createTitle, "title", "", "Article title (with --file)")
	createCmd.Flags().StringVarP(&createFile, "file", "f", "", "Article text file, - for stdin")
	createCmd.MarkFlagsMutuallyExclusive("url", "file")
}
