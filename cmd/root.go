/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"csv2json/config"
	"csv2json/converter"
	"csv2json/internal/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// errConversionFailed is returned in strict mode after the converter has
// already printed its diagnostic.
var errConversionFailed = errors.New("conversion failed")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "csv2json [inputPath] [outputPath]",
	Short: "Convert a CSV file into a pretty-printed JSON array of row objects.",
	Long: `
**********************************************
*                 CSV 2 JSON                 *
**********************************************

Reads a delimited text file, maps every data row to an object keyed by the header
row and writes the rows as a JSON array indented by two spaces.

Both paths are optional and default to customer-data.csv and customer-data.json.
Relative paths are resolved against the directory of the csv2json binary unless
--base-dir is set.

Supported input formats:
- CSV: .csv (any single-character delimiter via --delimiter)
- TSV: .tsv
- Excel: .xlsx, .xlsm

Supported output formats:
- JSON (default)
- CSV: .csv
- Excel: .xlsx
- SQLite: .db, .sqlite, .sqlite3
`,
	Example: `
  # Convert customer-data.csv into customer-data.json next to the binary
  csv2json

  # Convert a custom file
  csv2json customer-data-custom-path.csv customer-data-custom-path.json

  # Resolve paths against the current directory instead of the binary location
  csv2json --base-dir . ./exports/orders.csv ./exports/orders.json

  # Semicolon separated input
  csv2json -d ';' orders.csv orders.json

  # Load rows into a SQLite table
  csv2json orders.csv orders.db --table orders

  # Exit with status 1 when the conversion fails
  csv2json --strict doesnt-exist.csv wont-be-written.json
`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		result := runConversion(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, args)
		if !result.OK() && cfg.Strict {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			return errConversionFailed
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.csv2json.yaml, then ./.csv2json.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Diagnostic log level: trace|debug|info|warn|error|off")
	rootCmd.PersistentFlags().String("log-format", "console", "Diagnostic log format: console|json")

	rootCmd.Flags().StringP("delimiter", "d", ",", "Field delimiter (single character, \\t for tab)")
	rootCmd.Flags().String("base-dir", "", "Directory relative paths are resolved against (default: directory of the binary)")
	rootCmd.Flags().StringP("format", "f", "", "Input format: csv|tsv|excel (optional, inferred from input extension)")
	rootCmd.Flags().StringP("output-format", "o", "", "Output format: json|csv|excel|sqlite (optional, inferred from output extension)")
	rootCmd.Flags().String("sheet", "", "Sheet name for Excel input (default: first sheet)")
	rootCmd.Flags().String("table", "", "Table name for SQLite output (default: derived from input file name)")
	rootCmd.Flags().Bool("strict", false, "Exit with status 1 when the conversion fails")

	bindRootFlags()
}

// bindRootFlags ties the root flags to their viper keys.
func bindRootFlags() {
	bindFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	bindFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))
	bindFlag(config.KeyDelimiter, rootCmd.Flags().Lookup("delimiter"))
	bindFlag(config.KeyBaseDir, rootCmd.Flags().Lookup("base-dir"))
	bindFlag(config.KeyFormat, rootCmd.Flags().Lookup("format"))
	bindFlag(config.KeyOutputFormat, rootCmd.Flags().Lookup("output-format"))
	bindFlag(config.KeySheet, rootCmd.Flags().Lookup("sheet"))
	bindFlag(config.KeyTable, rootCmd.Flags().Lookup("table"))
	bindFlag(config.KeyStrict, rootCmd.Flags().Lookup("strict"))
}

func bindFlag(key string, flag *pflag.Flag) {
	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// runConversion applies positional paths over the loaded configuration and
// runs one conversion.
func runConversion(stdout, stderr io.Writer, cfg *config.Config, args []string) converter.Result {
	options := optionsFromConfig(cfg)
	if len(args) > 0 {
		options.InputPath = args[0]
	}
	if len(args) > 1 {
		options.OutputPath = args[1]
	}

	log := logging.New(logging.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Component: "converter",
		Writer:    stderr,
	})
	return converter.New(stdout, stderr, log).Convert(options)
}

func optionsFromConfig(cfg *config.Config) converter.Options {
	return converter.Options{
		InputPath:    cfg.Input,
		OutputPath:   cfg.Output,
		BaseDir:      cfg.BaseDir,
		Delimiter:    cfg.DelimiterRune(),
		Format:       cfg.Format,
		OutputFormat: cfg.OutputFormat,
		Sheet:        cfg.Sheet,
		Table:        cfg.Table,
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".csv2json" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".csv2json")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// A config file is optional; only report files that exist but cannot be read.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Could not read config file:", err)
		}
	}
}
