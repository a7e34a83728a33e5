package mtdash

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/mwiater/mtdash/internal/dashboard"
	"github.com/mwiater/mtdash/internal/logging"
	"github.com/mwiater/mtdash/internal/results"
	"github.com/spf13/cobra"
)

var (
	validResult   = color.New(color.FgGreen).SprintFunc()
	invalidResult = color.New(color.FgRed).SprintFunc()
	dumpPayload   bool
)

// validateCmd checks results files without rendering them.
var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Check that results files can be shown",
	Long: `Validate parses each file (or --input when no file is given) and checks it
for the counts, losses and bleu objects the dashboard needs. --dump prints the
decoded payload.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files := args
		if len(files) == 0 {
			if input := config().Input; input != "" {
				files = []string{input}
			}
		}
		if len(files) == 0 {
			return fmt.Errorf("no file to validate: pass a path or set --input")
		}

		failed := 0
		for _, file := range files {
			if !validateFile(cmd, file) {
				failed++
			}
		}
		if failed > 0 {
			cmd.SilenceUsage = true
			return fmt.Errorf("%d of %d files failed validation", failed, len(files))
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&dumpPayload, "dump", false, "pretty-print the decoded payload")
	rootCmd.AddCommand(validateCmd)
}

func validateFile(cmd *cobra.Command, file string) bool {
	out := cmd.OutOrStdout()

	res := <-dashboard.ReadText(dashboard.LocalFile(file))
	if res.Err != nil {
		fmt.Fprintf(out, "%s %s: %v\n", invalidResult("FAIL"), file, res.Err)
		return false
	}
	p, err := results.Parse(res.Text)
	if err != nil {
		fmt.Fprintf(out, "%s %s: %v\n", invalidResult("FAIL"), file, err)
		logging.LogEvent("validate %s: %v", file, err)
		return false
	}

	fmt.Fprintf(out, "%s %s: %d epochs, %d examples, best model %s\n",
		validResult("OK"), file, p.Epochs, len(p.Examples), orDash(results.BestModel(p.Bleu)))
	if dumpPayload {
		pp.Fprintln(out, p)
	}
	return true
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
