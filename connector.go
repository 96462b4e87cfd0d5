package tabular

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// Config carries the connector's settings. The zero value is usable: it
// selects the sqlserver driver, no logging and the Google translation
// endpoint.
type Config struct {
	// Driver selects the database backend by database/sql driver name.
	// Supported values are "sqlserver" and "sqlite"; empty means "sqlserver".
	Driver string

	// User and Password authenticate database connections. Both may stay
	// empty for backends that do not require credentials.
	User     string
	Password string

	// Port overrides the database port. Zero selects the driver default.
	Port int

	// Logger receives operation logs. Nil disables logging.
	Logger *zap.Logger

	// Translator services TranslateColumn. Nil selects the public Google
	// translation endpoint.
	Translator Translator
}

// Connector loads and exports tabular datasets across files and database
// tables. A connector is safe for concurrent use; it holds no open
// connections between calls.
type Connector struct {
	config     Config
	dialect    dialect
	logger     *zap.Logger
	translator Translator
}

// New creates a connector from the configuration. An unknown driver name is
// rejected with ErrConfiguration.
func New(cfg Config) (*Connector, error) {
	if cfg.Driver == "" {
		cfg.Driver = "sqlserver"
	}
	d, ok := dialects[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("%w: unknown database driver %q", ErrConfiguration, cfg.Driver)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	translator := cfg.Translator
	if translator == nil {
		translator = NewGoogleTranslator(nil)
	}
	return &Connector{
		config:     cfg,
		dialect:    d,
		logger:     logger,
		translator: translator,
	}, nil
}

// Default returns a connector with the default configuration.
func Default() *Connector {
	c, _ := New(Config{}) // the zero configuration is always valid
	return c
}

// Load reads the endpoint into a dataset. File endpoints are decoded
// according to their extension; database endpoints are read with SELECT *.
func (c *Connector) Load(ctx context.Context, src Endpoint) (*Dataset, error) {
	kind, err := src.resolve()
	if err != nil {
		return nil, err
	}

	var data *Dataset
	switch kind {
	case endpointFile:
		data, err = loadFilePath(ctx, src.Path)
	case endpointDatabase:
		data, err = c.loadDatabase(ctx, src.Server, src.Database, src.Table)
	}
	if err != nil {
		return nil, err
	}

	c.logger.Info("loaded dataset",
		zap.String("source", src.String()),
		zap.Int("columns", data.NumColumns()),
		zap.Int("rows", data.NumRows()))
	return data, nil
}

// Export writes the dataset to the endpoint. Options default to write mode
// with automatic schema inference; pass at most one ExportOptions.
func (c *Connector) Export(ctx context.Context, data *Dataset, dst Endpoint, opts ...ExportOptions) error {
	if data == nil || data.NumColumns() == 0 {
		return fmt.Errorf("%w: dataset has no columns", ErrConfiguration)
	}

	options := NewExportOptions()
	if len(opts) > 0 {
		options = opts[0]
	}
	if err := options.Mode.validate(); err != nil {
		return err
	}

	kind, err := dst.resolve()
	if err != nil {
		return err
	}
	switch kind {
	case endpointFile:
		err = exportFile(ctx, data, dst.Path, options)
	case endpointDatabase:
		err = c.exportDatabase(ctx, dst.Server, dst.Database, dst.Table, data, options)
	}
	if err != nil {
		return err
	}

	c.logger.Info("exported dataset",
		zap.String("destination", dst.String()),
		zap.Stringer("mode", options.Mode),
		zap.Int("columns", data.NumColumns()),
		zap.Int("rows", data.NumRows()))
	return nil
}

// loadFilePath stats the path and decodes the file. A missing file is
// reported before the extension is inspected, so loading "missing.xyz"
// yields ErrSourceNotFound rather than ErrUnsupportedFormat.
func loadFilePath(ctx context.Context, path string) (*Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrConfiguration, path)
	}

	target, err := parseFilePath(path)
	if err != nil {
		return nil, err
	}
	return loadFile(ctx, target)
}

// loadFile opens and decodes a parsed file target.
func loadFile(ctx context.Context, target fileTarget) (*Dataset, error) {
	reader, cleanup, err := openFileReader(target)
	if err != nil {
		return nil, err
	}

	data, err := decodeFile(ctx, reader, target.format)
	if cleanupErr := cleanup(); cleanupErr != nil && err == nil {
		err = cleanupErr
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// decodeFile dispatches to the format's reader.
func decodeFile(ctx context.Context, r io.Reader, format fileFormat) (*Dataset, error) {
	switch format {
	case formatCSV, formatTSV:
		return readDelimited(r, format)
	case formatJSON:
		return readJSON(r)
	case formatExcel:
		return readExcel(r)
	case formatParquet:
		return readParquet(ctx, r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// exportFile writes or appends the dataset to a file path. The schema is
// resolved up front for every export so that ambiguous columns are rejected
// uniformly across formats, including the ones that store plain text.
func exportFile(ctx context.Context, data *Dataset, path string, opts ExportOptions) error {
	target, err := parseFilePath(path)
	if err != nil {
		return err
	}
	types, err := opts.Schema.resolve(data)
	if err != nil {
		return err
	}

	if opts.Mode == ModeAppend {
		if _, err := os.Stat(path); err == nil {
			return appendFile(ctx, target, data, opts)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat file: %w", err)
		}
		// A missing destination behaves like a plain write.
	}
	return writeFile(ctx, target, data, types)
}

// appendFile adds the dataset's rows to an existing file. Plain delimited
// text grows in place, Excel workbooks gain rows on their first sheet, and
// everything else is decoded, concatenated and rewritten.
func appendFile(ctx context.Context, target fileTarget, data *Dataset, opts ExportOptions) error {
	switch {
	case target.format == formatExcel:
		return appendExcelFile(target, data)
	case target.compression == compressionNone && (target.format == formatCSV || target.format == formatTSV):
		return appendDelimited(target, data)
	default:
		existing, err := loadFile(ctx, target)
		if err != nil {
			return err
		}
		merged, err := existing.concat(data)
		if err != nil {
			return err
		}
		var types []ColumnType
		if target.format == formatParquet {
			if types, err = opts.Schema.resolve(merged); err != nil {
				return err
			}
		}
		return writeFile(ctx, target, merged, types)
	}
}

// writeFile encodes the dataset into a fresh file, replacing any previous
// content. The resolved column types are consumed by formats that carry a
// typed schema of their own.
func writeFile(ctx context.Context, target fileTarget, data *Dataset, types []ColumnType) error {
	writer, cleanup, err := createFileWriter(target)
	if err != nil {
		return err
	}

	switch target.format {
	case formatCSV, formatTSV:
		err = writeDelimited(writer, data, target.format)
	case formatJSON:
		err = writeJSON(writer, data)
	case formatExcel:
		err = writeExcel(writer, data)
	case formatParquet:
		err = writeParquet(ctx, writer, data, types)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, target.format)
	}

	// A failed flush or close after a clean encode still loses data.
	if cleanupErr := cleanup(); cleanupErr != nil {
		err = errors.Join(err, cleanupErr)
	}
	return err
}
