package record

import (
	"bytes"
	"encoding/json"
)

// Header is the ordered list of column names taken from the first input row.
type Header []string

// Field is one key/value pair of an Object.
type Field struct {
	Key   string
	Value string
}

// Object is one data row mapped through the header. Keys keep header order.
type Object []Field

// Build maps fields onto header. Missing trailing fields are omitted, extra
// fields are dropped. A duplicate header name keeps its first position and
// takes the last value.
func Build(header Header, fields []string) Object {
	n := len(header)
	if len(fields) < n {
		n = len(fields)
	}

	obj := make(Object, 0, n)
	index := make(map[string]int, n)
	for i := 0; i < n; i++ {
		key := header[i]
		if pos, ok := index[key]; ok {
			obj[pos].Value = fields[i]
			continue
		}
		index[key] = len(obj)
		obj = append(obj, Field{Key: key, Value: fields[i]})
	}
	return obj
}

// Get returns the value stored for key.
func (o Object) Get(key string) (string, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, f.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeString(&buf, f.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Document is the ordered sequence of row objects written as a JSON array.
type Document []Object

func (d Document) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("[]"), nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode([]Object(d)); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Columns returns the distinct header names in first-seen order.
func (h Header) Columns() []string {
	seen := make(map[string]struct{}, len(h))
	columns := make([]string, 0, len(h))
	for _, name := range h {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		columns = append(columns, name)
	}
	return columns
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
