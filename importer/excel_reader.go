package importer

import (
	"fmt"
	"io"

	"csv2json/record"

	"github.com/xuri/excelize/v2"
)

type ExcelSource struct {
	file   *excelize.File
	rows   *excelize.Rows
	header record.Header
	row    int
	done   bool
}

// OpenExcel opens the named sheet, or the first sheet when sheet is empty, and
// reads its first row as header.
func OpenExcel(path string, sheet string) (*ExcelSource, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open excel file %s: %w", ErrInputUnreadable, path, err)
	}

	sheetName := sheet
	if sheetName == "" {
		sheetName = file.GetSheetName(0)
	}
	if sheetName == "" {
		_ = file.Close()
		return nil, fmt.Errorf("%w: excel file has no sheets: %s", ErrInputUnreadable, path)
	}

	rows, err := file.Rows(sheetName)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%w: read rows from sheet %s: %w", ErrInputUnreadable, sheetName, err)
	}

	source := &ExcelSource{file: file, rows: rows}
	header, err := source.next()
	if err == io.EOF {
		return source, nil
	}
	if err != nil {
		_ = source.Close()
		return nil, err
	}
	source.header = record.Header(header)

	return source, nil
}

func (s *ExcelSource) Header() record.Header {
	return s.header
}

func (s *ExcelSource) Next() ([]string, error) {
	if s.header == nil {
		return nil, io.EOF
	}
	return s.next()
}

func (s *ExcelSource) next() ([]string, error) {
	if s.done || !s.rows.Next() {
		s.done = true
		if err := s.rows.Error(); err != nil {
			return nil, fmt.Errorf("%w: read excel row %d: %w", ErrMalformedRow, s.row+1, err)
		}
		return nil, io.EOF
	}
	s.row++

	columns, err := s.rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: read excel row %d: %w", ErrMalformedRow, s.row, err)
	}
	return columns, nil
}

func (s *ExcelSource) Close() error {
	rowsErr := s.rows.Close()
	if err := s.file.Close(); err != nil {
		return err
	}
	return rowsErr
}
