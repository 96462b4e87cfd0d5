package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// readDelimited parses CSV or TSV content into a dataset. The first row is
// the header; column types are inferred from the remaining rows.
func readDelimited(r io.Reader, format fileFormat) (*Dataset, error) {
	reader := csv.NewReader(skipBOM(r))
	reader.Comma = format.delimiter()

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: file has no header row", ErrInvalidData)
	}

	header := records[0]
	if err := validateHeader(header); err != nil {
		return nil, err
	}
	return NewDataset(columnsFromStrings(header, records[1:])...)
}

// writeDelimited writes the dataset as CSV or TSV: a header row followed by
// one row per dataset row, nulls as empty fields.
func writeDelimited(w io.Writer, data *Dataset, format fileFormat) error {
	writer := csv.NewWriter(w)
	writer.Comma = format.delimiter()

	if err := writer.Write(data.ColumnNames()); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	record := make([]string, data.NumColumns())
	for i := range data.NumRows() {
		for j, v := range data.Row(i) {
			record[j] = v.String()
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// skipBOM strips a UTF-8 byte order mark, which spreadsheet tools commonly
// prepend to CSV exports.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && bytes.Equal(b, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}
	return br
}
