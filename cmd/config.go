package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage csv2json configuration file values.",
	Long: `Create, edit, display, and delete the csv2json configuration file.

The configuration stores defaults for the conversion flags:
- input / output / base_dir
- delimiter / format / output_format / sheet / table
- strict
- log.level / log.format

Flags and CSV2JSON_* environment variables take precedence over the file.`,
	Example: `
  # Create default config in $HOME/.csv2json.yaml
  csv2json config create

  # Show active config and source file
  csv2json config show

  # Open active config in editor (creates example if missing)
  csv2json config edit

  # Delete active config file
  csv2json config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
