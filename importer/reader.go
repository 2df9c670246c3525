package importer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"csv2json/record"
)

var (
	ErrInputNotFound   = errors.New("input file does not exist")
	ErrInputUnreadable = errors.New("input file is not readable")
	ErrMalformedRow    = errors.New("malformed row")
)

// Source is a pull iterator over the data rows of one input file. The header
// row is consumed when the source is opened.
type Source interface {
	Header() record.Header
	// Next returns the next data row, or io.EOF after the last one.
	Next() ([]string, error)
	Close() error
}

type Options struct {
	Format    string
	Delimiter rune
	Sheet     string
}

// Open stats path and opens the source matching the explicit or inferred format.
func Open(path string, options Options) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrInputUnreadable, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInputUnreadable, path)
	}

	format, err := InferFormat(path, options.Format)
	if err != nil {
		return nil, err
	}

	var source Source
	switch format {
	case "csv":
		delimiter := options.Delimiter
		if delimiter == 0 {
			delimiter = ','
		}
		source, err = OpenCSV(path, delimiter)
	case "tsv":
		source, err = OpenCSV(path, '\t')
	case "excel":
		source, err = OpenExcel(path, options.Sheet)
	default:
		err = fmt.Errorf("unsupported input format: %s", format)
	}
	if err != nil {
		return nil, err
	}
	return source, nil
}

// InferFormat returns format when set, otherwise derives it from the file
// extension. Unknown extensions are read as csv.
func InferFormat(path string, format string) (string, error) {
	if normalized := strings.ToLower(strings.TrimSpace(format)); normalized != "" {
		switch normalized {
		case "csv", "tsv":
			return normalized, nil
		case "excel", "xlsx", "xlsm":
			return "excel", nil
		default:
			return "", fmt.Errorf("unsupported input format: %s", format)
		}
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "tsv", "tab":
		return "tsv", nil
	case "xlsx", "xlsm":
		return "excel", nil
	default:
		return "csv", nil
	}
}
