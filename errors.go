package tabular

import "errors"

// Sentinel errors returned by Connector operations. Callers match them with
// errors.Is; every returned error wraps exactly one of these.
var (
	// ErrConfiguration indicates caller misuse: missing or ambiguous
	// addressing, a partial table triple, an unrecognized mode, or an
	// explicit schema that does not cover the dataset.
	ErrConfiguration = errors.New("tabular: invalid configuration")

	// ErrSourceNotFound indicates the source file or database table does not exist.
	ErrSourceNotFound = errors.New("tabular: source not found")

	// ErrUnsupportedFormat indicates an unrecognized file extension or a
	// format that cannot be produced (for example bzip2 output).
	ErrUnsupportedFormat = errors.New("tabular: unsupported file format")

	// ErrConnection indicates the database could not be reached.
	ErrConnection = errors.New("tabular: database connection failed")

	// ErrSchemaInference indicates a column holds values of mixed semantic
	// types, so no destination column type could be inferred.
	ErrSchemaInference = errors.New("tabular: ambiguous column type")

	// ErrWrite indicates the destination file could not be written.
	ErrWrite = errors.New("tabular: write failed")

	// ErrTranslationService indicates the external translation service
	// returned an error or an unusable response.
	ErrTranslationService = errors.New("tabular: translation service failed")

	// ErrInvalidData indicates malformed or empty source content, such as a
	// file without a header row or duplicate column names.
	ErrInvalidData = errors.New("tabular: invalid data format")
)
