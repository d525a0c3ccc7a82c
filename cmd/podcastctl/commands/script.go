package commands

import (
	"github.com/spf13/cobra"

	"github.com/bobarin/podcaster/internal/models"
)

var (
	scriptTitle string
	scriptFile  string
	scriptJSON  bool
)

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Write chapter scripts without synthesizing audio",
	Long: `Write chapter scripts without synthesizing audio.

Prints the joined script, or the full response with --json.

Example:
  podcastctl script --title "Example" --file article.txt -o script.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := readArticle(scriptFile)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		p, err := loadPipeline(ctx)
		if err != nil {
			return err
		}

		chapters, err := p.Assembler.GenerateScripts(ctx, scriptTitle, body)
		if err != nil {
			return err
		}

		script := models.JoinScripts(chapters)
		if scriptJSON {
			return writeJSON(models.ScriptResponse{
				Status:   models.ResponseStatusSuccess,
				Title:    scriptTitle,
				Script:   script,
				Chapters: chapters,
			})
		}
		return writeOutput([]byte(script + "\n"))
	},
}

func init() {
	scriptCmd.Flags().StringVar(&scriptTitle, "title", "", "Article title")
	scriptCmd.Flags().StringVarP(&scriptFile, "file", "f", "", "Article text file, - for stdin")
	scriptCmd.Flags().BoolVar(&scriptJSON, "json", false, "Print chapters as JSON")
	scriptCmd.MarkFlagRequired("title")
	scriptCmd.MarkFlagRequired("file")
}
