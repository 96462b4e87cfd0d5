package tabular

import (
	"fmt"
	"net/url"
	"strings"
)

// defaultSQLServerPort is used when the configuration leaves Port unset.
const defaultSQLServerPort = 1433

// dialect abstracts the SQL flavor differences between supported database
// drivers. Each method returns text ready to interpolate into statements;
// only identifiers pass through quoteIdent, data always travels as bind
// arguments.
type dialect interface {
	// dsn builds the driver connection string for the endpoint.
	dsn(cfg Config, server, database string) string
	// quoteIdent quotes a table or column identifier.
	quoteIdent(name string) string
	// placeholder returns the bind parameter marker for 1-based position i.
	placeholder(i int) string
	// columnDDL maps a column type to the backend column type name.
	columnDDL(t ColumnType) string
	// tableExistsQuery returns a single-parameter query that yields a row
	// when the named table exists.
	tableExistsQuery() string
	// dropTableStatement removes the table if it exists.
	dropTableStatement(table string) string
	// arg converts a value into a bind argument the driver accepts.
	arg(v Value) any
}

// dialects maps driver names to their dialect. The driver name doubles as
// the database/sql driver registration name.
var dialects = map[string]dialect{
	"sqlserver": sqlserverDialect{},
	"sqlite":    sqliteDialect{},
}

// sqlserverDialect speaks T-SQL via the microsoft/go-mssqldb driver.
type sqlserverDialect struct{}

func (sqlserverDialect) dsn(cfg Config, server, database string) string {
	port := cfg.Port
	if port == 0 {
		port = defaultSQLServerPort
	}
	u := url.URL{
		Scheme:   "sqlserver",
		Host:     fmt.Sprintf("%s:%d", server, port),
		RawQuery: url.Values{"database": []string{database}}.Encode(),
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	return u.String()
}

func (sqlserverDialect) quoteIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func (sqlserverDialect) placeholder(i int) string {
	return fmt.Sprintf("@p%d", i)
}

func (sqlserverDialect) columnDDL(t ColumnType) string {
	switch t {
	case TypeInteger:
		return "BIGINT"
	case TypeReal:
		return "FLOAT"
	case TypeDatetime:
		return "DATETIME2"
	case TypeBool:
		return "BIT"
	default:
		return "NVARCHAR(MAX)"
	}
}

func (sqlserverDialect) tableExistsQuery() string {
	return "SELECT 1 FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_NAME = @p1"
}

func (d sqlserverDialect) dropTableStatement(table string) string {
	quoted := d.quoteIdent(table)
	literal := strings.ReplaceAll(quoted, "'", "''")
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NOT NULL DROP TABLE %s", literal, quoted)
}

func (sqlserverDialect) arg(v Value) any {
	if v.IsNull() {
		return nil
	}
	switch v.Kind() {
	case KindBool:
		b, _ := v.AsBool()
		return b
	case KindInt:
		n, _ := v.AsInt()
		return n
	case KindFloat:
		f, _ := v.AsFloat()
		return f
	case KindTime:
		t, _ := v.AsTime()
		return t
	default:
		return v.String()
	}
}

// sqliteDialect speaks SQLite via the modernc.org/sqlite driver. It exists
// mainly so the database path can run against a file-backed database in
// tests and small deployments.
type sqliteDialect struct{}

func (sqliteDialect) dsn(_ Config, _, database string) string {
	return database
}

func (sqliteDialect) quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (sqliteDialect) placeholder(int) string {
	return "?"
}

func (sqliteDialect) columnDDL(t ColumnType) string {
	switch t {
	case TypeInteger, TypeBool:
		return "INTEGER"
	case TypeReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

func (sqliteDialect) tableExistsQuery() string {
	return "SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?"
}

func (d sqliteDialect) dropTableStatement(table string) string {
	return "DROP TABLE IF EXISTS " + d.quoteIdent(table)
}

// arg stores datetimes as canonical text and booleans as 0/1 because SQLite
// has no native types for either.
func (sqliteDialect) arg(v Value) any {
	if v.IsNull() {
		return nil
	}
	switch v.Kind() {
	case KindBool:
		b, _ := v.AsBool()
		if b {
			return int64(1)
		}
		return int64(0)
	case KindInt:
		n, _ := v.AsInt()
		return n
	case KindFloat:
		f, _ := v.AsFloat()
		return f
	case KindTime:
		return v.String()
	default:
		return v.String()
	}
}
