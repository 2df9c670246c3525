package converter

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultInputPath  = "customer-data.csv"
	DefaultOutputPath = "customer-data.json"
)

// Options describes one conversion. Zero values fall back to the defaults
// documented on each field.
type Options struct {
	// InputPath defaults to DefaultInputPath.
	InputPath string
	// OutputPath defaults to DefaultOutputPath.
	OutputPath string
	// BaseDir anchors relative paths. Empty means the directory of the
	// running executable.
	BaseDir string
	// Delimiter defaults to ','.
	Delimiter rune
	// Format selects the input reader; inferred from InputPath when empty.
	Format string
	// OutputFormat selects the writer; inferred from OutputPath when empty.
	OutputFormat string
	Sheet        string
	Table        string
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.InputPath) == "" {
		o.InputPath = DefaultInputPath
	}
	if strings.TrimSpace(o.OutputPath) == "" {
		o.OutputPath = DefaultOutputPath
	}
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	if o.BaseDir == "" {
		o.BaseDir = ExecutableDir()
	}
	return o
}

// ResolvePath joins a relative path onto baseDir. Absolute paths are returned
// cleaned but otherwise unchanged.
func ResolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}

// ExecutableDir returns the directory holding the running binary, or the
// empty string when it cannot be determined.
func ExecutableDir() string {
	executable, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(executable); err == nil {
		executable = resolved
	}
	return filepath.Dir(executable)
}
