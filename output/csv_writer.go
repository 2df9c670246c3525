package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"csv2json/record"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, header record.Header, doc record.Document) error {
	file, err := os.Create(path)
	if err != nil {
		return unwritable(path, err)
	}

	if err := writeCSV(file, header, doc); err != nil {
		file.Close()
		return unwritable(path, err)
	}
	if err := file.Close(); err != nil {
		return unwritable(path, err)
	}

	return nil
}

func writeCSV(w io.Writer, header record.Header, doc record.Document) error {
	writer := csv.NewWriter(w)

	columns := header.Columns()
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, obj := range doc {
		if err := writer.Write(cells(columns, obj)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
