package tabular

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Supported file format extensions
const (
	extCSV     = ".csv"
	extTSV     = ".tsv"
	extJSON    = ".json"
	extXLSX    = ".xlsx"
	extXLS     = ".xls"
	extParquet = ".parquet"
)

// Compression extensions stacked on top of a format extension
const (
	extGZ   = ".gz"
	extBZ2  = ".bz2"
	extXZ   = ".xz"
	extZSTD = ".zst"
)

// fileFormat represents the tabular file format selected by a path's extension.
type fileFormat int

const (
	// formatUnsupported represents an unrecognized file format
	formatUnsupported fileFormat = iota
	// formatCSV represents comma-separated values
	formatCSV
	// formatTSV represents tab-separated values
	formatTSV
	// formatJSON represents a JSON array of flat records
	formatJSON
	// formatExcel represents an Excel workbook (.xlsx or .xls)
	formatExcel
	// formatParquet represents an Apache Parquet file
	formatParquet
)

// String returns the string representation of fileFormat.
func (f fileFormat) String() string {
	switch f {
	case formatCSV:
		return "csv"
	case formatTSV:
		return "tsv"
	case formatJSON:
		return "json"
	case formatExcel:
		return "excel"
	case formatParquet:
		return "parquet"
	default:
		return "unsupported"
	}
}

// delimiter returns the field delimiter for delimited text formats.
func (f fileFormat) delimiter() rune {
	if f == formatTSV {
		return '\t'
	}
	return ','
}

// fileTarget is a file path decomposed into format and compression.
type fileTarget struct {
	path        string
	format      fileFormat
	compression compressionType
}

// parseFilePath decomposes a path into format and compression by extension.
// The compression suffix is stripped first, so "data.csv.gz" resolves to CSV
// with gzip compression. Unrecognized extensions are rejected.
func parseFilePath(path string) (fileTarget, error) {
	target := fileTarget{path: path, compression: compressionNone}

	name := strings.ToLower(filepath.Base(path))
	for _, c := range []compressionType{compressionGZ, compressionBZ2, compressionXZ, compressionZSTD} {
		if strings.HasSuffix(name, c.extension()) {
			target.compression = c
			name = strings.TrimSuffix(name, c.extension())
			break
		}
	}

	switch filepath.Ext(name) {
	case extCSV:
		target.format = formatCSV
	case extTSV:
		target.format = formatTSV
	case extJSON:
		target.format = formatJSON
	case extXLSX, extXLS:
		target.format = formatExcel
	case extParquet:
		target.format = formatParquet
	default:
		return target, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Base(path))
	}
	return target, nil
}
