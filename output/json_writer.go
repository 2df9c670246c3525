package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"csv2json/record"
)

// JSONWriter writes the document as a JSON array indented by two spaces.
type JSONWriter struct{}

func (w *JSONWriter) Write(path string, _ record.Header, doc record.Document) error {
	content, err := MarshalDocument(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return unwritable(path, err)
	}
	return nil
}

// MarshalDocument renders doc the way it is written to disk: two-space
// indentation, no HTML escaping and no trailing newline.
func MarshalDocument(doc record.Document) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
