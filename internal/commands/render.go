package mtdash

import (
	"bytes"
	"fmt"

	"github.com/mwiater/mtdash/internal/chart"
	"github.com/mwiater/mtdash/internal/dashboard"
	"github.com/mwiater/mtdash/internal/logging"
	"github.com/mwiater/mtdash/internal/util"
	"github.com/spf13/cobra"
)

// renderCmd writes the dashboard as a self-contained HTML page.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the dashboard to a static HTML page",
	Long: `Render loads --input (or the built-in sample), validates it and writes the
dashboard page to --output. With --pngDir both charts are also written as PNG
images.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config()
		path, err := renderPage(cmd, cfg.Input, cfg.OutputPath(), cfg.PNGDir, cfg.ReportTitle())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Dashboard written to %s\n", path)
		if cfg.PNGDir != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Charts written to %s\n", cfg.PNGDir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
}

func renderPage(cmd *cobra.Command, input, output, pngDir, title string) (string, error) {
	browser := chart.NewChartJSEngine()
	var engine chart.Engine = browser
	if pngDir != "" {
		engine = chart.Tee(browser, chart.NewPNGEngine(pngDir))
	}

	p, err := runPipeline(cmd.Context(), engine, input)
	if err != nil {
		return "", err
	}

	data, err := dashboard.BuildPage(title, p.doc, browser, nil, "", p.session.State())
	if err != nil {
		return "", fmt.Errorf("build page: %w", err)
	}
	var buf bytes.Buffer
	if err := dashboard.RenderPage(&buf, data); err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	if err := util.WriteFile(output, buf.Bytes()); err != nil {
		return "", fmt.Errorf("write %s: %w", output, err)
	}
	logging.LogEvent("dashboard page written to %s", output)
	return output, nil
}
