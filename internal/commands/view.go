package mtdash

import (
	"github.com/mwiater/mtdash/internal/tui"
	"github.com/spf13/cobra"
)

// viewCmd opens the interactive terminal dashboard.
var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse the dashboard in the terminal",
	Long: `View opens a scrollable terminal dashboard. Press 'a' to apply a results
file (an empty path re-applies the sample) and 'q' to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config()
		return tui.RunViewer(cmd.Context(), cfg.ReportTitle(), cfg.Input)
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
