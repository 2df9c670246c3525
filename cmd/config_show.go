package cmd

import (
	"fmt"
	"io"

	"csv2json/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the effective configuration and the resolved config file path.

Values combine defaults, the config file, CSV2JSON_* environment variables and flags.
This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  csv2json config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Invalid config:", err)
			return
		}

		printConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), cfg)
	},
}

func printConfig(w io.Writer, configPath string, cfg *config.Config) {
	if configPath != "" {
		fmt.Fprintln(w, "Config file loaded from:", configPath)
	} else {
		fmt.Fprintln(w, "No config file loaded, using defaults.")
	}
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintf(w, "input: %s\n", cfg.Input)
	fmt.Fprintf(w, "output: %s\n", cfg.Output)
	fmt.Fprintf(w, "delimiter: %q\n", string(cfg.DelimiterRune()))
	fmt.Fprintf(w, "base_dir: %s\n", cfg.BaseDir)
	fmt.Fprintf(w, "format: %s\n", cfg.Format)
	fmt.Fprintf(w, "output_format: %s\n", cfg.OutputFormat)
	fmt.Fprintf(w, "sheet: %s\n", cfg.Sheet)
	fmt.Fprintf(w, "table: %s\n", cfg.Table)
	fmt.Fprintf(w, "strict: %t\n", cfg.Strict)
	fmt.Fprintf(w, "log.level: %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "log.format: %s\n", cfg.Log.Format)
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
