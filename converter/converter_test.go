package converter

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"csv2json/importer"
	"csv2json/internal/logging"
	"csv2json/output"
	"csv2json/record"
	"csv2json/storage"
)

type harness struct {
	dir       string
	converter *Converter
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{dir: t.TempDir(), stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	h.converter = New(h.stdout, h.stderr, logging.Nop())
	return h
}

func (h *harness) write(t *testing.T, name, content string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(h.dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func (h *harness) read(t *testing.T, name string) string {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(h.dir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(content)
}

func decode(t *testing.T, content string) []map[string]string {
	t.Helper()

	var rows []map[string]string
	if err := json.Unmarshal([]byte(content), &rows); err != nil {
		t.Fatalf("decode output json: %v", err)
	}
	return rows
}

func TestConvert_DefaultPaths(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.write(t, DefaultInputPath, "id,first_name,email\n1,Ada,ada@example.com\n2,Grace,grace@example.com\n")

	result := h.converter.Convert(Options{BaseDir: h.dir})
	if !result.OK() {
		t.Fatalf("unexpected error: %v", result.Err)
	}

	wantStdout := "Converting: customer-data.csv into customer-data.json\nDone!\n"
	if h.stdout.String() != wantStdout {
		t.Fatalf("unexpected stdout:\n%s", h.stdout.String())
	}
	if h.stderr.Len() != 0 {
		t.Fatalf("expected empty stderr, got %q", h.stderr.String())
	}
	if result.Rows != 2 {
		t.Fatalf("expected 2 rows, got %d", result.Rows)
	}

	want := `[
  {
    "id": "1",
    "first_name": "Ada",
    "email": "ada@example.com"
  },
  {
    "id": "2",
    "first_name": "Grace",
    "email": "grace@example.com"
  }
]`
	if got := h.read(t, DefaultOutputPath); got != want {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestConvert_MissingInputWritesNothing(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	result := h.converter.Convert(Options{
		InputPath:  "doesnt-exist.csv",
		OutputPath: "wont-be-written.json",
		BaseDir:    h.dir,
	})
	if !errors.Is(result.Err, importer.ErrInputNotFound) {
		t.Fatalf("expected ErrInputNotFound, got %v", result.Err)
	}

	if h.stdout.String() != "Converting: doesnt-exist.csv into wont-be-written.json\n" {
		t.Fatalf("unexpected stdout:\n%s", h.stdout.String())
	}
	lines := strings.Split(strings.TrimSpace(h.stderr.String()), "\n")
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "Got error: ") {
		t.Fatalf("expected exactly one diagnostic line, got %q", h.stderr.String())
	}
	if _, err := os.Stat(filepath.Join(h.dir, "wont-be-written.json")); !os.IsNotExist(err) {
		t.Fatalf("expected no output file, stat err=%v", err)
	}
}

func TestConvert_MalformedInputLeavesExistingOutputUntouched(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.write(t, "bad.csv", "a,b\n1,2\n3,\"open\n")
	h.write(t, "out.json", "previous")

	result := h.converter.Convert(Options{InputPath: "bad.csv", OutputPath: "out.json", BaseDir: h.dir})
	if !errors.Is(result.Err, importer.ErrMalformedRow) {
		t.Fatalf("expected ErrMalformedRow, got %v", result.Err)
	}
	if got := h.read(t, "out.json"); got != "previous" {
		t.Fatalf("expected existing output to stay untouched, got %q", got)
	}
	if strings.Contains(h.stdout.String(), "Done!") {
		t.Fatalf("did not expect completion message")
	}
}

func TestConvert_ShortAndLongRows(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.write(t, "in.csv", "a,b,c\n1\n1,2,3,4\n")

	result := h.converter.Convert(Options{InputPath: "in.csv", OutputPath: "out.json", BaseDir: h.dir})
	if !result.OK() {
		t.Fatalf("unexpected error: %v", result.Err)
	}

	want := `[
  {
    "a": "1"
  },
  {
    "a": "1",
    "b": "2",
    "c": "3"
  }
]`
	if got := h.read(t, "out.json"); got != want {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestConvert_HeaderOnlyProducesEmptyArray(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.write(t, "in.csv", "id,name\n")

	result := h.converter.Convert(Options{InputPath: "in.csv", OutputPath: "out.json", BaseDir: h.dir})
	if !result.OK() {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if got := h.read(t, "out.json"); got != "[]" {
		t.Fatalf("expected [], got %q", got)
	}
}

func TestConvert_IsIdempotent(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.write(t, "in.csv", "id,note\n1,\"comma, inside\"\n2,\"line\nbreak\"\n")

	options := Options{InputPath: "in.csv", OutputPath: "out.json", BaseDir: h.dir}
	if result := h.converter.Convert(options); !result.OK() {
		t.Fatalf("first run: %v", result.Err)
	}
	first := h.read(t, "out.json")
	if result := h.converter.Convert(options); !result.OK() {
		t.Fatalf("second run: %v", result.Err)
	}
	if second := h.read(t, "out.json"); first != second {
		t.Fatalf("expected byte-identical output:\n%s\n---\n%s", first, second)
	}
}

func TestConvert_RoundTripThroughCSV(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	header := record.Header{"id", "name", "quote"}
	doc := record.Document{
		record.Build(header, []string{"1", "Ada", `she said "hi"`}),
		record.Build(header, []string{"2", "Grace", "a,b\nc"}),
		record.Build(header, []string{"3", "", " padded "}),
	}
	if err := (&output.CSVWriter{}).Write(filepath.Join(h.dir, "in.csv"), header, doc); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	result := h.converter.Convert(Options{InputPath: "in.csv", OutputPath: "out.json", BaseDir: h.dir})
	if !result.OK() {
		t.Fatalf("unexpected error: %v", result.Err)
	}

	want, err := output.MarshalDocument(doc)
	if err != nil {
		t.Fatalf("marshal expected: %v", err)
	}
	if got := h.read(t, "out.json"); got != string(want) {
		t.Fatalf("round trip mismatch:\n%s\n---\n%s", got, want)
	}
}

func TestConvert_CustomDelimiterAndAbsolutePaths(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.write(t, "in.csv", "id;name\n1;Ada\n")

	result := h.converter.Convert(Options{
		InputPath:  filepath.Join(h.dir, "in.csv"),
		OutputPath: filepath.Join(h.dir, "out.json"),
		BaseDir:    "/nonexistent-base",
		Delimiter:  ';',
	})
	if !result.OK() {
		t.Fatalf("unexpected error: %v", result.Err)
	}

	rows := decode(t, h.read(t, "out.json"))
	if len(rows) != 1 || rows[0]["name"] != "Ada" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestConvert_UnwritableOutputIsReported(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.write(t, "in.csv", "id\n1\n")

	result := h.converter.Convert(Options{InputPath: "in.csv", OutputPath: "missing/out.json", BaseDir: h.dir})
	if !errors.Is(result.Err, output.ErrOutputUnwritable) {
		t.Fatalf("expected ErrOutputUnwritable, got %v", result.Err)
	}
	if !strings.HasPrefix(h.stderr.String(), "Got error: ") {
		t.Fatalf("expected diagnostic, got %q", h.stderr.String())
	}
}

func TestConvert_SQLiteOutput(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.write(t, "customer-data.csv", "id,name\n1,Ada\n2\n")

	result := h.converter.Convert(Options{OutputPath: "customers.db", BaseDir: h.dir})
	if !result.OK() {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.Format != "sqlite" {
		t.Fatalf("expected sqlite format, got %q", result.Format)
	}

	store, err := storage.OpenSQLite(filepath.Join(h.dir, "customers.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	_, doc, err := store.ListRows("customer_data")
	if err != nil {
		t.Fatalf("list rows: %v", err)
	}
	if len(doc) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(doc))
	}
	if _, ok := doc[1].Get("name"); ok {
		t.Fatalf("expected missing name on second row")
	}
}

func TestConvert_SQLiteOutputWithCaseOnlyDuplicateHeaders(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.write(t, "people.csv", "Name,name\nAda,ada\n")

	result := h.converter.Convert(Options{InputPath: "people.csv", OutputPath: "out.db", BaseDir: h.dir})
	if !result.OK() {
		t.Fatalf("unexpected error: %v (stderr %q)", result.Err, h.stderr.String())
	}

	store, err := storage.OpenSQLite(filepath.Join(h.dir, "out.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	_, doc, err := store.ListRows("people")
	if err != nil {
		t.Fatalf("list rows: %v", err)
	}
	if len(doc) != 1 {
		t.Fatalf("expected 1 row, got %d", len(doc))
	}
	if value, _ := doc[0].Get("name_2"); value != "ada" {
		t.Fatalf("expected suffixed column to hold ada, got %v", doc[0])
	}
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		base string
		path string
		want string
	}{
		{base: "/opt/csv2json", path: "customer-data.csv", want: "/opt/csv2json/customer-data.csv"},
		{base: "/opt/csv2json", path: "../data/in.csv", want: "/opt/data/in.csv"},
		{base: "/opt/csv2json", path: "/tmp/in.csv", want: "/tmp/in.csv"},
		{base: "", path: "in.csv", want: "in.csv"},
	}

	for _, tt := range tests {
		if got := ResolvePath(tt.base, tt.path); got != tt.want {
			t.Fatalf("ResolvePath(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	got := Options{BaseDir: "/base"}.withDefaults()
	if got.InputPath != DefaultInputPath || got.OutputPath != DefaultOutputPath || got.Delimiter != ',' {
		t.Fatalf("unexpected defaults: %+v", got)
	}
	if got.BaseDir != "/base" {
		t.Fatalf("expected explicit base dir to be kept, got %q", got.BaseDir)
	}
}
