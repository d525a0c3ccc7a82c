package commands

import (
	"github.com/spf13/cobra"

	"github.com/bobarin/podcaster/internal/models"
)

var scrapeURL string

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch and clean a wiki article",
	Long: `Fetch and clean a wiki article.

Prints {status, title, content} as JSON.

Example:
  podcastctl scrape --url https://namu.wiki/w/Example -o article.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, err := loadPipeline(ctx)
		if err != nil {
			return err
		}

		doc, err := p.Fetcher.Fetch(ctx, scrapeURL)
		if err != nil {
			return err
		}

		content, err := p.Cleaner.Clean(doc.Body)
		if err != nil {
			return err
		}

		return writeJSON(models.ScrapeResponse{
			Status:  models.ResponseStatusSuccess,
			Title:   doc.Title,
			Content: content,
		})
	},
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeURL, "url", "", "Wiki article URL")
	scrapeCmd.MarkFlagRequired("url")
}
