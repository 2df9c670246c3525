package cmd

import (
	"fmt"
	"io"

	"csv2json/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the effective settings.",
	Long: `Create a csv2json configuration file holding the effective settings.

The file is written to --configFile when given, otherwise to $HOME/.csv2json.yaml.
Values come from the defaults and any CSV2JSON_* environment variables, so
CSV2JSON_DELIMITER=';' csv2json config create stores a semicolon delimiter.

An existing file is never overwritten.`,
	Example: `
  # Create default config at $HOME/.csv2json.yaml
  csv2json config create

  # Create a project config with a tab delimiter and strict exit codes
  CSV2JSON_DELIMITER='\t' CSV2JSON_STRICT=true csv2json --configFile ./csv2json.yaml config create
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		_, err = saveConfig(cmd.OutOrStdout(), configPath, cfg)
		return err
	},
}

// saveConfig writes cfg to path unless a config file already exists there.
func saveConfig(w io.Writer, path string, cfg *config.Config) (bool, error) {
	created, err := ensureConfigFile(path, config.TemplateYAML(*cfg))
	if err != nil {
		return false, err
	}

	if !created {
		fmt.Fprintf(w, "Config file already exists at: %s\n", path)
		return false, nil
	}

	fmt.Fprintf(w, "New config file created at: %s\n", path)
	fmt.Fprintf(w, "delimiter: %q, base_dir: %q, strict: %t\n", string(cfg.DelimiterRune()), cfg.BaseDir, cfg.Strict)
	return true, nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)
}
