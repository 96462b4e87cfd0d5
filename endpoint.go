package tabular

import "fmt"

// Endpoint identifies a load source or export destination: either a
// filesystem path or a (server, database, table) triple. Endpoints are not
// retained between calls; every operation receives its own.
type Endpoint struct {
	// Path locates a tabular file (.csv, .tsv, .json, .xlsx, .xls, .parquet,
	// optionally with a compression suffix).
	Path string

	// Server, Database and Table identify a database table. All three travel
	// together; a table without server and database is rejected.
	Server   string
	Database string
	Table    string
}

// File returns an endpoint addressing a file by path.
func File(path string) Endpoint {
	return Endpoint{Path: path}
}

// Table returns an endpoint addressing a database table.
func Table(server, database, table string) Endpoint {
	return Endpoint{Server: server, Database: database, Table: table}
}

// IsZero reports whether the endpoint addresses nothing at all.
func (e Endpoint) IsZero() bool {
	return e == Endpoint{}
}

// String renders the endpoint for log output.
func (e Endpoint) String() string {
	if e.Table != "" {
		return fmt.Sprintf("%s/%s.%s", e.Server, e.Database, e.Table)
	}
	return e.Path
}

// endpointKind names the backend an endpoint addresses.
type endpointKind int

const (
	endpointInvalid endpointKind = iota
	endpointFile
	endpointDatabase
)

// resolve validates the endpoint and picks its backend. A table name wins
// over a path when both are given; a table name without server and database
// is a configuration error, as is an endpoint addressing nothing.
func (e Endpoint) resolve() (endpointKind, error) {
	if e.Table != "" {
		if e.Server == "" || e.Database == "" {
			return endpointInvalid, fmt.Errorf("%w: table %q requires server and database",
				ErrConfiguration, e.Table)
		}
		return endpointDatabase, nil
	}
	if e.Path != "" {
		return endpointFile, nil
	}
	return endpointInvalid, fmt.Errorf("%w: endpoint addresses neither a file nor a table", ErrConfiguration)
}
