package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	outputPath string
)

var rootCmd = &cobra.Command{
	Use:   "podcastctl",
	Short: "Turn wiki articles into narrated podcasts",
	Long: `Turn wiki articles into narrated podcasts.

Commands:
  create  - Scrape (or read) an article and produce the final podcast mp3
  scrape  - Fetch and clean an article
  script  - Write the chapter scripts without synthesizing audio`,
	SilenceUsage: true,
}

// Execute runs the root command. An interrupt cancels the running pipeline.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print pipeline logs")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Write the result to a file instead of stdout")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(scriptCmd)
}
