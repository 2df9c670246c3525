package config

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyInput        = "input"
	KeyOutput       = "output"
	KeyDelimiter    = "delimiter"
	KeyBaseDir      = "base_dir"
	KeyFormat       = "format"
	KeyOutputFormat = "output_format"
	KeySheet        = "sheet"
	KeyTable        = "table"
	KeyStrict       = "strict"
	KeyLogLevel     = "log.level"
	KeyLogFormat    = "log.format"

	EnvPrefix = "CSV2JSON"

	DefaultInput  = "customer-data.csv"
	DefaultOutput = "customer-data.json"
)

type Config struct {
	Input        string    `mapstructure:"input" validate:"required"`
	Output       string    `mapstructure:"output" validate:"required"`
	Delimiter    string    `mapstructure:"delimiter" validate:"delimiter"`
	BaseDir      string    `mapstructure:"base_dir"`
	Format       string    `mapstructure:"format" validate:"omitempty,oneof=csv tsv excel xlsx xlsm"`
	OutputFormat string    `mapstructure:"output_format" validate:"omitempty,oneof=json csv excel xlsx sqlite"`
	Sheet        string    `mapstructure:"sheet"`
	Table        string    `mapstructure:"table"`
	Strict       bool      `mapstructure:"strict"`
	Log          LogConfig `mapstructure:"log"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=trace debug info warn warning error off disabled"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=console json"`
}

// DelimiterRune returns the configured field delimiter, ',' when unset.
func (c Config) DelimiterRune() rune {
	if c.Delimiter == "" {
		return ','
	}
	if c.Delimiter == `\t` {
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Input:     DefaultInput,
		Output:    DefaultOutput,
		Delimiter: ",",
		Log:       LogConfig{Level: "warn", Format: "console"},
	}
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return TemplateYAML(Defaults())
}

// TemplateYAML renders cfg as a commented config file.
func TemplateYAML(cfg Config) string {
	var b strings.Builder
	b.WriteString("# csv2json configuration\n")
	b.WriteString("# Relative paths are resolved against base_dir (default: directory of the csv2json binary).\n")
	fmt.Fprintf(&b, "input: %q\n", cfg.Input)
	fmt.Fprintf(&b, "output: %q\n", cfg.Output)
	fmt.Fprintf(&b, "delimiter: %q\n", cfg.Delimiter)
	fmt.Fprintf(&b, "base_dir: %q\n", cfg.BaseDir)
	b.WriteString("\n# Optional format overrides; inferred from file extensions when empty.\n")
	fmt.Fprintf(&b, "format: %q\n", cfg.Format)
	fmt.Fprintf(&b, "output_format: %q\n", cfg.OutputFormat)
	fmt.Fprintf(&b, "sheet: %q\n", cfg.Sheet)
	fmt.Fprintf(&b, "table: %q\n", cfg.Table)
	b.WriteString("\n# Exit with status 1 when a conversion fails.\n")
	fmt.Fprintf(&b, "strict: %t\n", cfg.Strict)
	b.WriteString("\nlog:\n")
	fmt.Fprintf(&b, "  level: %q\n", cfg.Log.Level)
	fmt.Fprintf(&b, "  format: %q\n", cfg.Log.Format)
	return b.String()
}

// InvalidKeys lists the config keys (as written in YAML, e.g. log.level)
// rejected by validation. It returns nil for other errors.
func InvalidKeys(err error) []string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return nil
	}

	keys := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		key := fieldError.Namespace()
		if _, rest, ok := strings.Cut(key, "."); ok {
			key = rest
		}
		keys = append(keys, key)
	}
	return keys
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	cfg.OutputFormat = strings.ToLower(strings.TrimSpace(cfg.OutputFormat))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		return name
	})
	if err := validate.RegisterValidation("delimiter", validateDelimiter); err != nil {
		return nil, fmt.Errorf("register delimiter validation: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyInput, DefaultInput)
	v.SetDefault(KeyOutput, DefaultOutput)
	v.SetDefault(KeyDelimiter, ",")
	v.SetDefault(KeyBaseDir, "")
	v.SetDefault(KeyFormat, "")
	v.SetDefault(KeyOutputFormat, "")
	v.SetDefault(KeySheet, "")
	v.SetDefault(KeyTable, "")
	v.SetDefault(KeyStrict, false)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "console")
}

// validateDelimiter accepts a single rune (or the two-character escape \t)
// that cannot be confused with quoting or line breaks.
func validateDelimiter(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" || value == `\t` {
		return true
	}
	if utf8.RuneCountInString(value) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(value)
	switch r {
	case '"', '\r', '\n', utf8.RuneError:
		return false
	}
	return true
}
