package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"csv2json/record"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type CSVSource struct {
	file   *os.File
	reader *csv.Reader
	header record.Header
	row    int
}

// OpenCSV opens path and reads its header row. An empty file yields an empty
// header and no rows.
func OpenCSV(path string, delimiter rune) (*CSVSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open csv file %s: %w", ErrInputUnreadable, path, err)
	}

	buffered := bufio.NewReader(file)
	if prefix, err := buffered.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = buffered.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(buffered)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	source := &CSVSource{file: file, reader: reader, row: 1}

	headers, err := reader.Read()
	if err == io.EOF {
		return source, nil
	}
	if err != nil {
		_ = file.Close()
		return nil, wrapCSVError("read csv header", err)
	}
	source.header = record.Header(headers)

	return source, nil
}

func (s *CSVSource) Header() record.Header {
	return s.header
}

func (s *CSVSource) Next() ([]string, error) {
	if s.header == nil {
		return nil, io.EOF
	}

	row, err := s.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	s.row++
	if err != nil {
		return nil, wrapCSVError(fmt.Sprintf("read csv row %d", s.row), err)
	}
	return row, nil
}

func (s *CSVSource) Close() error {
	return s.file.Close()
}

func wrapCSVError(action string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %s: %w", ErrMalformedRow, action, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrInputUnreadable, action, err)
}
