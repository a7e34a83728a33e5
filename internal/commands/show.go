package mtdash

import (
	"github.com/mwiater/mtdash/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showCmd represents the 'show' command group for displaying resources.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for displaying resources",
	Long:  `The 'show' command groups subcommands that display information about mtdash itself.`,
}

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON config is loaded properly and overridden by flags and MTDASH_* environment variables accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		fallback := appconfig.Config{
			Debug:          viper.GetBool("debug"),
			LogFile:        viper.GetString("logFile"),
			Title:          viper.GetString("title"),
			Addr:           viper.GetString("addr"),
			Input:          viper.GetString("input"),
			Output:         viper.GetString("output"),
			PNGDir:         viper.GetString("pngDir"),
			MaxUploadBytes: viper.GetInt64("maxUploadBytes"),
			AllowedOrigins: viper.GetStringSlice("allowedOrigins"),
		}
		file := ""
		if cfg := GetConfig(); cfg != nil {
			file = cfg.ConfigPath
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), file, GetConfig(), fallback)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.AddCommand(showConfigCmd)
}
