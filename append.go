package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
)

// appendDelimited grows a plain CSV or TSV file in place: the existing
// header is checked against the dataset's columns, then rows are written
// after the current content without repeating the header.
func appendDelimited(target fileTarget, data *Dataset) error {
	file, err := os.Open(target.path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}

	reader := csv.NewReader(skipBOM(file))
	reader.Comma = target.format.delimiter()
	header, err := reader.Read()
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	// A file whose last line lacks a newline would glue the first appended
	// row onto it.
	needsNewline := false
	if info, statErr := file.Stat(); statErr == nil && info.Size() > 0 {
		last := make([]byte, 1)
		if _, readErr := file.ReadAt(last, info.Size()-1); readErr == nil && last[0] != '\n' {
			needsNewline = true
		}
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := matchColumns(header, data.ColumnNames()); err != nil {
		return err
	}

	out, err := os.OpenFile(target.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, target.path, err)
	}
	if needsNewline {
		if _, err := out.WriteString("\n"); err != nil {
			_ = out.Close()
			return fmt.Errorf("%w: %s: %v", ErrWrite, target.path, err)
		}
	}

	writer := csv.NewWriter(out)
	writer.Comma = target.format.delimiter()
	record := make([]string, data.NumColumns())
	for i := range data.NumRows() {
		for j, v := range data.Row(i) {
			record[j] = v.String()
		}
		if err := writer.Write(record); err != nil {
			_ = out.Close()
			return fmt.Errorf("%w: %s: %v", ErrWrite, target.path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = out.Close()
		return fmt.Errorf("%w: %s: %v", ErrWrite, target.path, err)
	}

	if err := out.Sync(); err != nil {
		_ = out.Close()
		return fmt.Errorf("%w: %s: %v", ErrWrite, target.path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, target.path, err)
	}
	return nil
}

// appendExcelFile adds the dataset's rows after the last used row of the
// workbook's first sheet, leaving other sheets untouched. The workbook is
// fully loaded before the file is rewritten, so compressed workbooks work
// the same way.
func appendExcelFile(target fileTarget, data *Dataset) error {
	reader, cleanup, err := openFileReader(target)
	if err != nil {
		return err
	}
	workbook, err := applyExcelAppend(reader, data)
	if cleanupErr := cleanup(); cleanupErr != nil && err == nil {
		err = cleanupErr
	}
	if err != nil {
		return err
	}
	defer func() {
		_ = workbook.Close()
	}()

	writer, finish, err := createFileWriter(target)
	if err != nil {
		return err
	}
	if writeErr := workbook.Write(writer); writeErr != nil {
		err = fmt.Errorf("%w: %s: %v", ErrWrite, target.path, writeErr)
	}
	if finishErr := finish(); finishErr != nil {
		err = errors.Join(err, finishErr)
	}
	return err
}
