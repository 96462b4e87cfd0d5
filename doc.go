// Package tabular moves tabular data between files and database tables
// through a single Connector type offering Load and Export operations.
//
// A Dataset is an ordered collection of named columns whose cells are typed
// values (null, bool, integer, real, text, datetime). Datasets can be loaded
// from CSV, TSV, JSON, Excel (XLSX) and Parquet files, plain or compressed
// with gzip, bzip2, xz or zstandard, and from SQL Server or SQLite tables,
// then exported back to any of those destinations.
//
// # Features
//
//   - Load and export CSV, TSV, JSON, Excel (XLSX) and Parquet files
//   - Transparent compression handling (gzip, bzip2, xz, zstandard)
//   - SQL Server and SQLite table reading and writing over database/sql
//   - Write and append modes with uniform semantics across backends
//   - Automatic schema inference with explicit schema override
//   - Column translation through an external translation service
//
// # Basic Usage
//
// Create a connector and move data between endpoints:
//
//	conn, err := tabular.New(tabular.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	data, err := conn.Load(ctx, tabular.File("input.csv"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = conn.Export(ctx, data, tabular.File("output.xlsx"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Addressing
//
// Endpoints address either a file by path or a database table by a
// (server, database, table) triple:
//
//	tabular.File("report.parquet")
//	tabular.Table("dbhost", "analytics", "daily_sales")
//
// The file format is chosen by extension; "data.csv.gz" is gzip-compressed
// CSV. A table name without server and database is rejected. When both a
// path and a full table triple are set on one endpoint, the table wins.
//
// # Export Modes
//
// Write mode replaces the destination entirely: files are rewritten and
// tables are dropped and recreated. Append mode adds rows to the existing
// destination and creates it when absent:
//
//	opts := tabular.NewExportOptions().
//	    WithMode(tabular.ModeAppend).
//	    WithSchema(tabular.ExplicitSchema(map[string]tabular.ColumnType{
//	        "id":    tabular.TypeInteger,
//	        "price": tabular.TypeReal,
//	    }))
//	err := conn.Export(ctx, data, tabular.Table("dbhost", "analytics", "sales"), opts)
//
// Exports are not atomic; a failure mid-way can leave a partial destination
// behind.
//
// # Schema Inference
//
// With the default automatic schema, each column's destination type is
// derived from its cell kinds. Integer cells mixed with real cells widen to
// a real column; any other mix of kinds is ambiguous and rejected with
// ErrSchemaInference. Loading a text format infers cell types from the raw
// strings, so a CSV column holding "1", "2", "3" round-trips as integers.
//
// # Errors
//
// All failures wrap one of the package's sentinel errors (ErrConfiguration,
// ErrSourceNotFound, ErrUnsupportedFormat, ErrConnection,
// ErrSchemaInference, ErrWrite, ErrTranslationService, ErrInvalidData), so
// callers can branch with errors.Is:
//
//	if _, err := conn.Load(ctx, tabular.File("missing.csv")); errors.Is(err, tabular.ErrSourceNotFound) {
//	    // handle the absent file
//	}
package tabular
