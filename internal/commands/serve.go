package mtdash

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mwiater/mtdash/internal/dashboard"
	"github.com/mwiater/mtdash/internal/logging"
	"github.com/mwiater/mtdash/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd runs the browser viewer.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard with an apply form",
	Long: `Serve starts a local web viewer on --addr. The page shows the built-in
sample (or --input) and lets a results file be uploaded and applied. The JSON
API under /api is open to --allowedOrigins.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config()
		srv, err := server.New(server.Options{
			Title:          cfg.ReportTitle(),
			MaxUploadBytes: cfg.UploadLimit(),
			AllowedOrigins: cfg.Origins(),
		})
		if err != nil {
			return err
		}
		defer srv.Session().Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Input != "" {
			if err := <-srv.Session().Trigger(ctx, dashboard.LocalFile(cfg.Input)); err != nil {
				return fmt.Errorf("apply %s: %w", cfg.Input, err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Serving %q on http://%s (Ctrl+C to stop)\n", cfg.ReportTitle(), cfg.ListenAddr())
		logging.LogEvent("serving session %s on %s", srv.Session().ID, cfg.ListenAddr())
		return server.Run(ctx, cfg.ListenAddr(), srv.Routes())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
