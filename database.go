package tabular

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb" // sqlserver driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // sqlite driver
)

// openDatabase opens the database handle for a driver and connection string.
// Declared as a variable so tests can substitute a mocked handle.
var openDatabase = func(driverName, dsn string) (*sql.DB, error) {
	return sql.Open(driverName, dsn)
}

// connectDatabase opens and verifies a connection for the endpoint. A handle
// that cannot be reached reports ErrConnection.
func connectDatabase(ctx context.Context, cfg Config, d dialect, server, database string) (*sql.DB, error) {
	db, err := openDatabase(cfg.Driver, d.dsn(cfg, server, database))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return db, nil
}

// loadDatabase reads an entire table into a dataset.
func (c *Connector) loadDatabase(ctx context.Context, server, database, table string) (*Dataset, error) {
	db, err := connectDatabase(ctx, c.config, c.dialect, server, database)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = db.Close()
	}()

	exists, err := tableExists(ctx, db, c.dialect, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: table %q does not exist", ErrSourceNotFound, table)
	}

	query := "SELECT * FROM " + c.dialect.quoteIdent(table)
	c.logger.Debug("executing query", zap.String("statement", query))
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query table %q: %w", table, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of table %q: %w", table, err)
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	raw := make([]any, len(header))
	ptrs := make([]any, len(header))
	for i := range raw {
		ptrs[i] = &raw[i]
	}

	var records [][]Value
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row of table %q: %w", table, err)
		}
		record := make([]Value, len(header))
		for i, v := range raw {
			record[i] = valueFromSQL(v)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows of table %q: %w", table, err)
	}

	data, err := datasetFromRows(header, records)
	if err != nil {
		return nil, err
	}
	// Backends without a datetime type return timestamps as text.
	for i := range data.columns {
		data.columns[i].Values = promoteDatetimeStrings(data.columns[i].Values)
	}
	return data, nil
}

// valueFromSQL converts a scanned driver value into a Value.
func valueFromSQL(v any) Value {
	switch val := v.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(val)
	case int64:
		return Int(val)
	case float64:
		return Float(val)
	case []byte:
		return Str(string(val))
	case string:
		return Str(val)
	case time.Time:
		return Time(val)
	default:
		return Str(fmt.Sprint(val))
	}
}

// exportDatabase writes a dataset to a table. Write mode replaces any
// existing table; append mode creates the table when missing and inserts
// into it otherwise.
func (c *Connector) exportDatabase(ctx context.Context, server, database, table string, data *Dataset, opts ExportOptions) error {
	types, err := opts.Schema.resolve(data)
	if err != nil {
		return err
	}

	db, err := connectDatabase(ctx, c.config, c.dialect, server, database)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	switch opts.Mode {
	case ModeWrite:
		stmt := c.dialect.dropTableStatement(table)
		c.logger.Debug("executing statement", zap.String("statement", stmt))
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: failed to drop table %q: %v", ErrWrite, table, err)
		}
		if err := c.createTable(ctx, db, table, data, types); err != nil {
			return err
		}
	case ModeAppend:
		exists, err := tableExists(ctx, db, c.dialect, table)
		if err != nil {
			return err
		}
		if !exists {
			if err := c.createTable(ctx, db, table, data, types); err != nil {
				return err
			}
		}
	}
	return c.insertRows(ctx, db, table, data)
}

// tableExists reports whether the table is present in the database.
func tableExists(ctx context.Context, db *sql.DB, d dialect, table string) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, d.tableExistsQuery(), table).Scan(&one)
	switch {
	case err == sql.ErrNoRows:
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to check table %q: %w", table, err)
	}
	return true, nil
}

// createTable issues a CREATE TABLE with one column per dataset column.
func (c *Connector) createTable(ctx context.Context, db *sql.DB, table string, data *Dataset, types []ColumnType) error {
	defs := make([]string, data.NumColumns())
	for j, col := range data.Columns() {
		defs[j] = c.dialect.quoteIdent(col.Name) + " " + c.dialect.columnDDL(types[j])
	}
	stmt := fmt.Sprintf("CREATE TABLE %s (%s)", c.dialect.quoteIdent(table), strings.Join(defs, ", "))
	c.logger.Debug("executing statement", zap.String("statement", stmt))
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("%w: failed to create table %q: %v", ErrWrite, table, err)
	}
	return nil
}

// insertRows inserts every dataset row through a single prepared statement.
func (c *Connector) insertRows(ctx context.Context, db *sql.DB, table string, data *Dataset) error {
	if data.NumRows() == 0 {
		return nil
	}

	names := make([]string, data.NumColumns())
	marks := make([]string, data.NumColumns())
	for j, col := range data.Columns() {
		names[j] = c.dialect.quoteIdent(col.Name)
		marks[j] = c.dialect.placeholder(j + 1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		c.dialect.quoteIdent(table), strings.Join(names, ", "), strings.Join(marks, ", "))
	c.logger.Debug("prepared insert", zap.String("statement", query), zap.Int("rows", data.NumRows()))
	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: failed to prepare insert into %q: %v", ErrWrite, table, err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	args := make([]any, data.NumColumns())
	for i := range data.NumRows() {
		for j, v := range data.Row(i) {
			args[j] = c.dialect.arg(v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("%w: failed to insert row %d into %q: %v", ErrWrite, i, table, err)
		}
	}
	return nil
}
