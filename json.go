package tabular

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

// readJSON parses a JSON array of flat records into a dataset. Column order
// follows first appearance across records; keys missing from a record become
// nulls. Nested objects and arrays are rejected.
func readJSON(r io.Reader) (*Dataset, error) {
	dec := json.NewDecoder(skipBOM(r))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array of records", ErrInvalidData)
	}

	var (
		order   []string
		index   = make(map[string]int)
		columns [][]Value
		numRows int
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '{' {
			return nil, fmt.Errorf("%w: array elements must be objects", ErrInvalidData)
		}

		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("%w: object key is not a string", ErrInvalidData)
			}
			valTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
			}
			value, err := valueFromJSONToken(valTok)
			if err != nil {
				return nil, err
			}

			j, known := index[key]
			if !known {
				j = len(order)
				index[key] = j
				order = append(order, key)
				// A column appearing late starts with nulls for earlier rows.
				padded := make([]Value, numRows)
				for i := range padded {
					padded[i] = Null()
				}
				columns = append(columns, padded)
			}
			if len(columns[j]) > numRows {
				return nil, fmt.Errorf("%w: duplicate key %q in record %d", ErrInvalidData, key, numRows)
			}
			columns[j] = append(columns[j], value)
		}
		if _, err := dec.Token(); err != nil { // closing '}'
			return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}

		numRows++
		for j := range columns {
			if len(columns[j]) < numRows {
				columns[j] = append(columns[j], Null())
			}
		}
	}
	if _, err := dec.Token(); err != nil { // closing ']'
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	if len(order) == 0 {
		return nil, fmt.Errorf("%w: no records found", ErrInvalidData)
	}
	cols := make([]Column, len(order))
	for j, name := range order {
		cols[j] = Column{Name: name, Values: promoteDatetimeStrings(columns[j])}
	}
	return NewDataset(cols...)
}

// valueFromJSONToken converts one scalar JSON token to a Value. Numbers split
// into integers and floats; nested structures are rejected.
func valueFromJSONToken(tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return Str(t), nil
	case json.Number:
		if n, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return Int(n), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: unreadable number %q", ErrInvalidData, t.String())
		}
		return Float(f), nil
	case json.Delim:
		return Value{}, fmt.Errorf("%w: nested values are not supported", ErrInvalidData)
	default:
		return Value{}, fmt.Errorf("%w: unsupported JSON value %v", ErrInvalidData, tok)
	}
}

// promoteDatetimeStrings upgrades an all-string column whose values parse as
// datetimes, mirroring the text-format inference.
func promoteDatetimeStrings(values []Value) []Value {
	saw := false
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		s, ok := v.AsString()
		if !ok || !isDatetime(s) {
			return values
		}
		saw = true
	}
	if !saw {
		return values
	}
	promoted := make([]Value, len(values))
	for i, v := range values {
		if v.IsNull() {
			promoted[i] = Null()
			continue
		}
		s, _ := v.AsString()
		t, _ := parseDatetime(s)
		promoted[i] = Time(t)
	}
	return promoted
}

// writeJSON writes the dataset as a JSON array of flat records, keys in
// column order, one record per line. Datetimes are rendered as RFC3339.
func writeJSON(w io.Writer, data *Dataset) error {
	names := data.ColumnNames()
	keys := make([][]byte, len(names))
	for j, name := range names {
		encoded, err := json.Marshal(name)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}
		keys[j] = encoded
	}

	buf := bufio.NewWriter(w)
	_, _ = buf.WriteString("[")
	for i := range data.NumRows() {
		if i > 0 {
			_, _ = buf.WriteString(",")
		}
		_, _ = buf.WriteString("\n")
		_ = buf.WriteByte('{')
		for j, v := range data.Row(i) {
			if j > 0 {
				_ = buf.WriteByte(',')
			}
			_, _ = buf.Write(keys[j])
			_ = buf.WriteByte(':')
			encoded, err := jsonValue(v)
			if err != nil {
				return err
			}
			_, _ = buf.Write(encoded)
		}
		_ = buf.WriteByte('}')
	}
	_, _ = buf.WriteString("\n]\n")
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// jsonValue marshals one cell to its JSON representation. Floats keep a
// decimal point so a whole float does not reload as an integer.
func jsonValue(v Value) ([]byte, error) {
	var payload any
	switch v.Kind() {
	case KindNull:
		payload = nil
	case KindBool:
		payload, _ = v.AsBool()
	case KindInt:
		payload, _ = v.AsInt()
	case KindFloat:
		f, _ := v.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %v is not representable in JSON", ErrWrite, f)
		}
		return []byte(formatFloat(f)), nil
	case KindString:
		payload, _ = v.AsString()
	case KindTime:
		t, _ := v.AsTime()
		payload = t.Format(time.RFC3339)
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return encoded, nil
}
