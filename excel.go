package tabular

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// oleSignature opens an OLE compound document, the container of legacy BIFF
// .xls workbooks. excelize reads only OOXML, so those are rejected early
// with a clear error instead of a generic parse failure.
var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// readExcel parses the first sheet of a workbook into a dataset. The first
// row is the header; short rows are padded and cells beyond the header width
// are dropped. Column types are inferred from the cell strings.
func readExcel(r io.Reader) (*Dataset, error) {
	buffered := bufio.NewReader(r)
	if head, err := buffered.Peek(len(oleSignature)); err == nil && bytes.Equal(head, oleSignature) {
		return nil, fmt.Errorf("%w: legacy xls workbooks are not readable", ErrUnsupportedFormat)
	}

	f, err := excelize.OpenReader(buffered)
	if err != nil {
		return nil, wrapExcelOpenErr(err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidData)
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrInvalidData, sheet)
	}

	header := rows[0]
	if err := validateHeader(header); err != nil {
		return nil, err
	}
	records := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make([]string, len(header))
		copy(record, row)
		records = append(records, record)
	}
	return NewDataset(columnsFromStrings(header, records)...)
}

// writeExcel writes the dataset as a fresh single-sheet workbook. The output
// is always OOXML, even for paths with a legacy .xls suffix.
func writeExcel(w io.Writer, data *Dataset) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := setSheetRows(f, f.GetSheetName(0), 1, true, data); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// applyExcelAppend loads a workbook and appends data's rows after the last
// used row of its first sheet. The sheet's header must match the dataset's
// columns; remaining sheets are left untouched.
func applyExcelAppend(r io.Reader, data *Dataset) (*excelize.File, error) {
	buffered := bufio.NewReader(r)
	if head, err := buffered.Peek(len(oleSignature)); err == nil && bytes.Equal(head, oleSignature) {
		return nil, fmt.Errorf("%w: legacy xls workbooks are not writable", ErrUnsupportedFormat)
	}

	f, err := excelize.OpenReader(buffered)
	if err != nil {
		return nil, wrapExcelOpenErr(err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidData)
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if len(rows) == 0 {
		// Empty sheet: behave like a fresh write.
		if err := setSheetRows(f, sheet, 1, true, data); err != nil {
			_ = f.Close()
			return nil, err
		}
		return f, nil
	}

	if err := matchColumns(rows[0], data.ColumnNames()); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := setSheetRows(f, sheet, len(rows)+1, false, data); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// setSheetRows writes data to the sheet starting at startRow (1-based),
// optionally preceded by a header row.
func setSheetRows(f *excelize.File, sheet string, startRow int, header bool, data *Dataset) error {
	row := startRow
	if header {
		names := data.ColumnNames()
		cells := make([]any, len(names))
		for j, name := range names {
			cells[j] = name
		}
		if err := setSheetRow(f, sheet, row, cells); err != nil {
			return err
		}
		row++
	}
	for i := range data.NumRows() {
		cells := make([]any, data.NumColumns())
		for j, v := range data.Row(i) {
			cells[j] = excelCellValue(v)
		}
		if err := setSheetRow(f, sheet, row, cells); err != nil {
			return err
		}
		row++
	}
	return nil
}

// setSheetRow writes one row of cells starting at column A.
func setSheetRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// excelCellValue converts a cell so excelize stores a native type. Datetimes
// go in as canonical text: an untyped datetime cell survives a round-trip
// without depending on number-format styles.
func excelCellValue(v Value) any {
	switch v.Kind() {
	case KindNull:
		return nil
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
		return v.String()
	default:
		s, _ := v.AsString()
		return s
	}
}

// matchColumns checks that an existing destination header matches the
// dataset's columns in name and order.
func matchColumns(header, names []string) error {
	if len(header) != len(names) {
		return fmt.Errorf("%w: destination has %d columns, dataset has %d",
			ErrConfiguration, len(header), len(names))
	}
	for i := range header {
		if header[i] != names[i] {
			return fmt.Errorf("%w: destination column %q does not match dataset column %q",
				ErrConfiguration, header[i], names[i])
		}
	}
	return nil
}

// wrapExcelOpenErr distinguishes workbooks excelize cannot parse at all, such
// as legacy BIFF .xls files, from corrupted OOXML content.
func wrapExcelOpenErr(err error) error {
	if errors.Is(err, excelize.ErrWorkbookFileFormat) {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return fmt.Errorf("%w: %v", ErrInvalidData, err)
}
