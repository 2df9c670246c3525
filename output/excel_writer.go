package output

import (
	"fmt"

	"csv2json/record"

	"github.com/xuri/excelize/v2"
)

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, header record.Header, doc record.Document) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)

	columns := header.Columns()
	for col, column := range columns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellStr(sheet, cell, column); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, obj := range doc {
		row := i + 2
		for col, value := range cells(columns, obj) {
			// Blank values stay blank cells, so a trailing blank reads back as a short row.
			if value == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellStr(sheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return unwritable(path, err)
	}

	return nil
}
