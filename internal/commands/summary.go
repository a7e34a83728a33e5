package mtdash

import (
	"fmt"

	"github.com/mwiater/mtdash/internal/tui"
	"github.com/spf13/cobra"
)

// summaryCmd prints the dashboard once to the terminal.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the summary, BLEU scores and examples",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config()
		charts := tui.NewTextEngine()
		p, err := runPipeline(cmd.Context(), charts, cfg.Input)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSummary(cfg.ReportTitle(), p.doc, charts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
