package tabular

import "fmt"

// ExportMode controls how Export treats an existing destination.
type ExportMode int

const (
	// ModeWrite replaces the destination entirely
	ModeWrite ExportMode = iota
	// ModeAppend adds rows to the destination, creating it if absent
	ModeAppend
)

// String returns the string representation of ExportMode.
func (m ExportMode) String() string {
	switch m {
	case ModeWrite:
		return "write"
	case ModeAppend:
		return "append"
	default:
		return "write"
	}
}

// validate rejects modes outside the closed enumeration.
func (m ExportMode) validate() error {
	switch m {
	case ModeWrite, ModeAppend:
		return nil
	default:
		return fmt.Errorf("%w: unknown export mode %d", ErrConfiguration, int(m))
	}
}

// ExportOptions configures how a dataset is written to its destination.
//
// Example:
//
//	options := NewExportOptions().
//		WithMode(ModeAppend).
//		WithSchema(ExplicitSchema(map[string]ColumnType{"id": TypeInteger}))
//
//	err := conn.Export(ctx, data, tabular.File("out.csv"), options)
type ExportOptions struct {
	// Mode selects replace-vs-append behavior
	Mode ExportMode
	// Schema declares destination column types
	Schema Schema
}

// NewExportOptions creates default export options (write mode, auto schema).
//
// Modify with:
//   - WithMode(): switch between replacing and appending
//   - WithSchema(): supply explicit column types
func NewExportOptions() ExportOptions {
	return ExportOptions{
		Mode:   ModeWrite,
		Schema: AutoSchema(),
	}
}

// WithMode sets the export mode.
//
// Options:
//   - ModeWrite: replace the destination entirely (default)
//   - ModeAppend: add rows, creating the destination if absent
func (o ExportOptions) WithMode(mode ExportMode) ExportOptions {
	o.Mode = mode
	return o
}

// WithSchema sets the destination schema.
//
// Options:
//   - AutoSchema(): infer column types from the dataset (default)
//   - ExplicitSchema(): use the supplied mapping verbatim
func (o ExportOptions) WithSchema(schema Schema) ExportOptions {
	o.Schema = schema
	return o
}
