package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errNoConfigFile = errors.New("no configuration file found")

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the csv2json configuration file.

The file named by --configFile is deleted when given, otherwise the file csv2json
loaded from $HOME or the current directory. Conversions fall back to the built-in
defaults (customer-data.csv, comma delimiter, non-strict) afterwards.`,
	Example: `
  # Delete active config
  csv2json config delete

  # Delete config at a custom path
  csv2json --configFile ./custom-csv2json.yaml config delete
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return deleteConfigFile(cmd.OutOrStdout(), cfgFile, viper.ConfigFileUsed())
	},
}

func deleteConfigFile(w io.Writer, configFileFlag, configFileUsed string) error {
	configPath := strings.TrimSpace(configFileFlag)
	if configPath == "" {
		configPath = strings.TrimSpace(configFileUsed)
	}
	if configPath == "" {
		return errNoConfigFile
	}

	if err := os.Remove(configPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w at %s", errNoConfigFile, configPath)
		}
		return fmt.Errorf("error deleting configuration file: %w", err)
	}

	fmt.Fprintf(w, "Configuration file successfully deleted: %s\n", configPath)
	return nil
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}
