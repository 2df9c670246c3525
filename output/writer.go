package output

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"csv2json/record"
)

var ErrOutputUnwritable = errors.New("output file is not writable")

// Writer persists a converted document. Implementations replace any existing
// output at path.
type Writer interface {
	Write(path string, header record.Header, doc record.Document) error
}

type Options struct {
	// Table names the sqlite table. Empty derives it from the source path.
	Table      string
	SourcePath string
}

func WriterForFormat(format string, options Options) (Writer, error) {
	switch normalizeFormat(format) {
	case "json":
		return &JSONWriter{}, nil
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	case "sqlite":
		return &SQLiteWriter{Table: tableName(options)}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// DetectFormat returns format when set, otherwise derives it from the output
// extension. Anything unrecognized is written as json.
func DetectFormat(path string, format string) string {
	if normalized := normalizeFormat(format); normalized != "" {
		return normalized
	}

	switch strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".") {
	case "csv":
		return "csv"
	case "xlsx", "xlsm":
		return "excel"
	case "db", "sqlite", "sqlite3":
		return "sqlite"
	default:
		return "json"
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

func tableName(options Options) string {
	if name := strings.TrimSpace(options.Table); name != "" {
		return name
	}
	base := filepath.Base(options.SourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 || base == "." {
		return "rows"
	}
	return b.String()
}

// cells projects obj onto columns; absent keys are empty.
func cells(columns []string, obj record.Object) []string {
	values := make([]string, len(columns))
	for i, column := range columns {
		values[i], _ = obj.Get(column)
	}
	return values
}

func unwritable(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrOutputUnwritable, path, err)
}
