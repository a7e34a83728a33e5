package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		cfg = &fallback
	}

	input := cfg.Input
	if strings.TrimSpace(input) == "" {
		input = "(built-in sample)"
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Title:           %s\n", cfg.ReportTitle())
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Listen Addr:     %s\n", cfg.ListenAddr())
	fmt.Fprintf(out, "  Input:           %s\n", input)
	fmt.Fprintf(out, "  Output:          %s\n", cfg.OutputPath())
	if cfg.PNGDir != "" {
		fmt.Fprintf(out, "  PNG Dir:         %s\n", cfg.PNGDir)
	}
	fmt.Fprintf(out, "  Upload Limit:    %d bytes\n", cfg.UploadLimit())
	if origins := cfg.Origins(); len(origins) > 0 {
		fmt.Fprintf(out, "  Allowed Origins: %s\n", strings.Join(origins, ", "))
	}
}
