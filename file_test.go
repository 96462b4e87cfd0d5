package tabular

import (
	"errors"
	"testing"
)

func TestParseFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		path        string
		format      fileFormat
		compression compressionType
		wantErr     bool
	}{
		{name: "csv", path: "data.csv", format: formatCSV, compression: compressionNone},
		{name: "tsv", path: "data.tsv", format: formatTSV, compression: compressionNone},
		{name: "json", path: "data.json", format: formatJSON, compression: compressionNone},
		{name: "xlsx", path: "report.xlsx", format: formatExcel, compression: compressionNone},
		{name: "xls", path: "report.xls", format: formatExcel, compression: compressionNone},
		{name: "parquet", path: "data.parquet", format: formatParquet, compression: compressionNone},
		{name: "gzip csv", path: "data.csv.gz", format: formatCSV, compression: compressionGZ},
		{name: "bzip2 csv", path: "data.csv.bz2", format: formatCSV, compression: compressionBZ2},
		{name: "xz tsv", path: "data.tsv.xz", format: formatTSV, compression: compressionXZ},
		{name: "zstd json", path: "data.json.zst", format: formatJSON, compression: compressionZSTD},
		{name: "gzip parquet", path: "data.parquet.gz", format: formatParquet, compression: compressionGZ},
		{name: "uppercase extension", path: "DATA.CSV", format: formatCSV, compression: compressionNone},
		{name: "mixed case with compression", path: "Data.Json.GZ", format: formatJSON, compression: compressionGZ},
		{name: "nested path", path: "/tmp/exports/data.csv", format: formatCSV, compression: compressionNone},
		{name: "unknown extension", path: "data.txt", wantErr: true},
		{name: "no extension", path: "data", wantErr: true},
		{name: "bare compression suffix", path: "data.gz", wantErr: true},
		{name: "empty path", path: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			target, err := parseFilePath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Fatalf("parseFilePath(%q) error = %v, want ErrUnsupportedFormat", tt.path, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseFilePath(%q) unexpected error: %v", tt.path, err)
			}
			if target.format != tt.format {
				t.Errorf("format = %v, want %v", target.format, tt.format)
			}
			if target.compression != tt.compression {
				t.Errorf("compression = %v, want %v", target.compression, tt.compression)
			}
			if target.path != tt.path {
				t.Errorf("path = %q, want %q", target.path, tt.path)
			}
		})
	}
}

func TestFileFormatString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format fileFormat
		want   string
	}{
		{formatCSV, "csv"},
		{formatTSV, "tsv"},
		{formatJSON, "json"},
		{formatExcel, "excel"},
		{formatParquet, "parquet"},
		{formatUnsupported, "unsupported"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := tt.format.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileFormatDelimiter(t *testing.T) {
	t.Parallel()

	if got := formatCSV.delimiter(); got != ',' {
		t.Errorf("csv delimiter = %q, want ','", got)
	}
	if got := formatTSV.delimiter(); got != '\t' {
		t.Errorf("tsv delimiter = %q, want tab", got)
	}
}
