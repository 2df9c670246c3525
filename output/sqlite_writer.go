package output

import (
	"fmt"

	"csv2json/record"
	"csv2json/storage"
)

// SQLiteWriter stores the document as a table inside the sqlite database at path.
type SQLiteWriter struct {
	Table string
}

func (w *SQLiteWriter) Write(path string, header record.Header, doc record.Document) error {
	store, err := storage.OpenSQLite(path)
	if err != nil {
		return unwritable(path, err)
	}
	defer store.Close()

	// Schema and insert failures are not about the path, so they keep their own message.
	if _, err := store.ReplaceTable(w.Table, header, doc); err != nil {
		return fmt.Errorf("write sqlite table %s in %s: %w", w.Table, path, err)
	}
	return nil
}
