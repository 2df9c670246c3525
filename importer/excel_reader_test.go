package importer

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()

	file := excelize.NewFile()
	defer file.Close()

	if sheet != "" && sheet != file.GetSheetName(0) {
		if err := file.SetSheetName(file.GetSheetName(0), sheet); err != nil {
			t.Fatalf("rename sheet: %v", err)
		}
	}
	name := file.GetSheetName(0)
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := file.SetSheetRow(name, cell, &row); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}

	path := filepath.Join(t.TempDir(), "input.xlsx")
	if err := file.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestExcelSource_ReadsFirstSheet(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, "", [][]any{
		{"id", "name"},
		{"1", "Ada"},
		{"2"},
	})

	source, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer source.Close()

	header := source.Header()
	if len(header) != 2 || header[0] != "id" || header[1] != "name" {
		t.Fatalf("unexpected header: %v", header)
	}

	rows := readAll(t, source)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "Ada" || len(rows[1]) != 1 {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestExcelSource_NamedSheet(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, "Customers", [][]any{
		{"id"},
		{"42"},
	})

	source, err := OpenExcel(path, "Customers")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer source.Close()

	rows := readAll(t, source)
	if len(rows) != 1 || rows[0][0] != "42" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestExcelSource_UnknownSheetFails(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, "", [][]any{{"id"}})

	if _, err := OpenExcel(path, "Nope"); err == nil {
		t.Fatalf("expected error for unknown sheet, got nil")
	}
}
