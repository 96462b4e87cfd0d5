package tabular

import "fmt"

// Column is a named, ordered sequence of scalar values. Load produces columns
// whose non-null values share one kind; hand-built columns are only checked
// when a schema is resolved at export time.
type Column struct {
	Name   string
	Values []Value
}

// NewColumn builds a column from a name and its values.
func NewColumn(name string, values ...Value) Column {
	return Column{Name: name, Values: values}
}

// Dataset is an in-memory table: an ordered set of named columns of equal
// length, rows indexed by position. Datasets are transient; Load constructs a
// fresh one on every call and Export consumes one without retaining it.
type Dataset struct {
	columns []Column
}

// NewDataset builds a dataset from columns. Column names must be non-empty
// and unique, and all columns must have the same length.
func NewDataset(columns ...Column) (*Dataset, error) {
	seen := make(map[string]struct{}, len(columns))
	rows := -1
	for _, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("%w: column name cannot be empty", ErrConfiguration)
		}
		if _, ok := seen[col.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate column name %q", ErrConfiguration, col.Name)
		}
		seen[col.Name] = struct{}{}
		if rows < 0 {
			rows = len(col.Values)
		} else if len(col.Values) != rows {
			return nil, fmt.Errorf("%w: column %q has %d values, want %d",
				ErrConfiguration, col.Name, len(col.Values), rows)
		}
	}
	return &Dataset{columns: columns}, nil
}

// NumColumns returns the number of columns.
func (d *Dataset) NumColumns() int { return len(d.columns) }

// NumRows returns the number of rows.
func (d *Dataset) NumRows() int {
	if len(d.columns) == 0 {
		return 0
	}
	return len(d.columns[0].Values)
}

// Columns returns the columns in order. The returned slice is shared with the
// dataset, not copied.
func (d *Dataset) Columns() []Column { return d.columns }

// ColumnNames returns the column names in order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, col := range d.columns {
		names[i] = col.Name
	}
	return names
}

// Column returns the named column. ok is false when no such column exists.
func (d *Dataset) Column(name string) (Column, bool) {
	for _, col := range d.columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// Row returns the values of row i in column order.
func (d *Dataset) Row(i int) []Value {
	row := make([]Value, len(d.columns))
	for j, col := range d.columns {
		row[j] = col.Values[i]
	}
	return row
}

// AppendRow adds one row to the dataset. The value count must match the
// column count.
func (d *Dataset) AppendRow(values ...Value) error {
	if len(values) != len(d.columns) {
		return fmt.Errorf("%w: row has %d values, dataset has %d columns",
			ErrConfiguration, len(values), len(d.columns))
	}
	for j := range d.columns {
		d.columns[j].Values = append(d.columns[j].Values, values[j])
	}
	return nil
}

// WithColumn returns a copy of the dataset with the named column's values
// replaced. The receiver is not modified.
func (d *Dataset) WithColumn(name string, values []Value) (*Dataset, error) {
	if len(values) != d.NumRows() {
		return nil, fmt.Errorf("%w: column %q replacement has %d values, dataset has %d rows",
			ErrConfiguration, name, len(values), d.NumRows())
	}
	found := false
	columns := make([]Column, len(d.columns))
	for i, col := range d.columns {
		if col.Name == name {
			columns[i] = Column{Name: name, Values: values}
			found = true
			continue
		}
		columns[i] = col
	}
	if !found {
		return nil, fmt.Errorf("%w: no column named %q", ErrConfiguration, name)
	}
	return &Dataset{columns: columns}, nil
}

// Equal reports whether two datasets have the same columns in the same order
// with equal values.
func (d *Dataset) Equal(other *Dataset) bool {
	if d == nil || other == nil {
		return d == other
	}
	if len(d.columns) != len(other.columns) {
		return false
	}
	for i, col := range d.columns {
		oc := other.columns[i]
		if col.Name != oc.Name || len(col.Values) != len(oc.Values) {
			return false
		}
		for j, v := range col.Values {
			if !v.Equal(oc.Values[j]) {
				return false
			}
		}
	}
	return true
}

// concat returns d's rows followed by other's rows. Column names must match
// in name and order.
func (d *Dataset) concat(other *Dataset) (*Dataset, error) {
	if len(d.columns) != len(other.columns) {
		return nil, fmt.Errorf("%w: appending %d columns onto %d",
			ErrConfiguration, len(other.columns), len(d.columns))
	}
	columns := make([]Column, len(d.columns))
	for i, col := range d.columns {
		oc := other.columns[i]
		if col.Name != oc.Name {
			return nil, fmt.Errorf("%w: appended column %q does not match destination column %q",
				ErrConfiguration, oc.Name, col.Name)
		}
		values := make([]Value, 0, len(col.Values)+len(oc.Values))
		values = append(values, col.Values...)
		values = append(values, oc.Values...)
		columns[i] = Column{Name: col.Name, Values: values}
	}
	return &Dataset{columns: columns}, nil
}

// datasetFromRows assembles a dataset from a header and row-major values.
// Rows must already match the header width.
func datasetFromRows(header []string, rows [][]Value) (*Dataset, error) {
	columns := make([]Column, len(header))
	for j, name := range header {
		columns[j] = Column{Name: name, Values: make([]Value, 0, len(rows))}
	}
	for _, row := range rows {
		for j := range columns {
			columns[j].Values = append(columns[j].Values, row[j])
		}
	}
	return NewDataset(columns...)
}

// validateHeader rejects headers unusable as column names. Unlike NewDataset
// this reports ErrInvalidData: a bad header comes from the source content,
// not from the caller.
func validateHeader(names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("%w: missing header row", ErrInvalidData)
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			return fmt.Errorf("%w: empty column name in header", ErrInvalidData)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: duplicate column name %q", ErrInvalidData, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
