package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"csv2json/record"

	_ "modernc.org/sqlite"
)

// RowNumberColumn holds the 1-based position of each data row in the source.
const RowNumberColumn = "__row"

type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// column maps one distinct header name onto its sqlite column.
type column struct {
	key  string
	name string
}

// tableColumns pairs each distinct header name with its sqlite column.
// SQLite compares identifiers case-insensitively, so a name colliding with an
// earlier one (or with RowNumberColumn) gets a numeric suffix: Name, name_2.
func tableColumns(header record.Header) []column {
	taken := map[string]struct{}{strings.ToLower(RowNumberColumn): {}}
	keys := header.Columns()
	cols := make([]column, 0, len(keys))
	for _, key := range keys {
		name := key
		for n := 2; ; n++ {
			if _, ok := taken[strings.ToLower(name)]; !ok {
				break
			}
			name = fmt.Sprintf("%s_%d", key, n)
		}
		taken[strings.ToLower(name)] = struct{}{}
		cols = append(cols, column{key: key, name: name})
	}
	return cols
}

// ReplaceTable drops table, recreates it with one TEXT column per distinct
// header name and inserts doc in a single transaction. Keys missing from a row
// are stored as NULL.
func (s *SQLiteStore) ReplaceTable(table string, header record.Header, doc record.Document) (int, error) {
	columns := tableColumns(header)

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.Exec(`DROP TABLE IF EXISTS ` + quoteIdent(table) + `;`); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("drop table %s: %w", table, err)
	}

	definitions := make([]string, 0, len(columns)+1)
	definitions = append(definitions, quoteIdent(RowNumberColumn)+" INTEGER PRIMARY KEY")
	for _, col := range columns {
		definitions = append(definitions, quoteIdent(col.name)+" TEXT")
	}
	createStmt := fmt.Sprintf("CREATE TABLE %s (\n\t%s\n);", quoteIdent(table), strings.Join(definitions, ",\n\t"))
	if _, err := tx.Exec(createStmt); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("create table %s: %w", table, err)
	}

	names := make([]string, 0, len(columns)+1)
	placeholders := make([]string, 0, len(columns)+1)
	names = append(names, quoteIdent(RowNumberColumn))
	placeholders = append(placeholders, "?")
	for _, col := range columns {
		names = append(names, quoteIdent(col.name))
		placeholders = append(placeholders, "?")
	}
	insertStmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);", quoteIdent(table), strings.Join(names, ", "), strings.Join(placeholders, ", "))

	stmt, err := tx.Prepare(insertStmt)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	args := make([]any, len(columns)+1)
	for i, obj := range doc {
		args[0] = i + 1
		for j, col := range columns {
			if value, ok := obj.Get(col.key); ok {
				args[j+1] = value
			} else {
				args[j+1] = nil
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("insert row %d: %w", i+1, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit transaction: %w", err)
	}

	return inserted, nil
}

// ListRows reads table back in row order. NULL cells are omitted from the
// returned objects.
func (s *SQLiteStore) ListRows(table string) (record.Header, record.Document, error) {
	rows, err := s.db.Query(`SELECT * FROM ` + quoteIdent(table) + ` ORDER BY ` + quoteIdent(RowNumberColumn) + `;`)
	if err != nil {
		return nil, nil, fmt.Errorf("query table %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("read columns of %s: %w", table, err)
	}
	if len(columns) == 0 || columns[0] != RowNumberColumn {
		return nil, nil, fmt.Errorf("table %s has no %s column", table, RowNumberColumn)
	}
	header := record.Header(columns[1:])

	doc := make(record.Document, 0, 128)
	for rows.Next() {
		var rowNumber int64
		values := make([]sql.NullString, len(header))
		dest := make([]any, 0, len(header)+1)
		dest = append(dest, &rowNumber)
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, fmt.Errorf("scan row: %w", err)
		}

		obj := make(record.Object, 0, len(header))
		for i, value := range values {
			if value.Valid {
				obj = append(obj, record.Field{Key: header[i], Value: value.String})
			}
		}
		doc = append(doc, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate rows: %w", err)
	}

	return header, doc, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
