package tabular

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
)

// readParquet parses Parquet content into a dataset. Parquet needs random
// access, so the reader is drained into memory first.
func readParquet(ctx context.Context, r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty parquet file", ErrInvalidData)
	}

	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	defer func() {
		_ = pqReader.Close()
	}()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	defer table.Release()

	schema := table.Schema()
	header := make([]string, schema.NumFields())
	for i, field := range schema.Fields() {
		header[i] = field.Name
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	rows := make([][]Value, 0, table.NumRows())
	tableReader := array.NewTableReader(table, 0)
	defer tableReader.Release()

	for tableReader.Next() {
		batch := tableReader.Record()
		numRows := int(batch.NumRows())
		for i := range numRows {
			row := make([]Value, batch.NumCols())
			for j, col := range batch.Columns() {
				row[j] = valueFromArrow(col, i)
			}
			rows = append(rows, row)
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return datasetFromRows(header, rows)
}

// valueFromArrow converts one arrow array element to a Value. Types without
// a native mapping keep their textual rendering.
func valueFromArrow(col arrow.Array, i int) Value {
	if col.IsNull(i) {
		return Null()
	}
	switch arr := col.(type) {
	case *array.Boolean:
		return Bool(arr.Value(i))
	case *array.Int8:
		return Int(int64(arr.Value(i)))
	case *array.Int16:
		return Int(int64(arr.Value(i)))
	case *array.Int32:
		return Int(int64(arr.Value(i)))
	case *array.Int64:
		return Int(arr.Value(i))
	case *array.Uint8:
		return Int(int64(arr.Value(i)))
	case *array.Uint16:
		return Int(int64(arr.Value(i)))
	case *array.Uint32:
		return Int(int64(arr.Value(i)))
	case *array.Float32:
		return Float(float64(arr.Value(i)))
	case *array.Float64:
		return Float(arr.Value(i))
	case *array.String:
		return Str(arr.Value(i))
	case *array.LargeString:
		return Str(arr.Value(i))
	case *array.Timestamp:
		if tsType, ok := arr.DataType().(*arrow.TimestampType); ok {
			return Time(arr.Value(i).ToTime(tsType.Unit).UTC())
		}
		return Str(arr.ValueStr(i))
	case *array.Date32:
		return Time(arr.Value(i).ToTime().UTC())
	case *array.Date64:
		return Time(arr.Value(i).ToTime().UTC())
	default:
		return Str(col.ValueStr(i))
	}
}

// writeParquet writes the dataset as a Parquet file whose arrow schema comes
// from the resolved column types. Every field is nullable.
func writeParquet(_ context.Context, w io.Writer, data *Dataset, types []ColumnType) error {
	fields := make([]arrow.Field, data.NumColumns())
	for j, col := range data.Columns() {
		fields[j] = arrow.Field{Name: col.Name, Type: arrowType(types[j]), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	for j, col := range data.Columns() {
		if err := appendArrowColumn(builder.Field(j), col); err != nil {
			return err
		}
	}

	record := builder.NewRecord()
	defer record.Release()

	table := array.NewTableFromRecords(schema, []arrow.Record{record})
	defer table.Release()

	chunkSize := int64(data.NumRows())
	if chunkSize < 1 {
		chunkSize = 1
	}
	if err := pqarrow.WriteTable(table, w, chunkSize, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// arrowType maps a ColumnType to its arrow representation.
func arrowType(t ColumnType) arrow.DataType {
	switch t {
	case TypeInteger:
		return arrow.PrimitiveTypes.Int64
	case TypeReal:
		return arrow.PrimitiveTypes.Float64
	case TypeDatetime:
		return arrow.FixedWidthTypes.Timestamp_ms
	case TypeBool:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

// appendArrowColumn feeds one column's values into its arrow builder. The
// builder type encodes the resolved column type; values that cannot take
// that type indicate an explicit schema at odds with the data.
func appendArrowColumn(b array.Builder, col Column) error {
	for _, v := range col.Values {
		if v.IsNull() {
			b.AppendNull()
			continue
		}
		switch bld := b.(type) {
		case *array.Int64Builder:
			n, ok := v.AsInt()
			if !ok {
				return columnTypeMismatch(col.Name, TypeInteger, v)
			}
			bld.Append(n)
		case *array.Float64Builder:
			f, ok := v.AsFloat()
			if !ok {
				return columnTypeMismatch(col.Name, TypeReal, v)
			}
			bld.Append(f)
		case *array.TimestampBuilder:
			t, ok := v.AsTime()
			if !ok {
				return columnTypeMismatch(col.Name, TypeDatetime, v)
			}
			bld.Append(arrow.Timestamp(t.UnixMilli()))
		case *array.BooleanBuilder:
			val, ok := v.AsBool()
			if !ok {
				return columnTypeMismatch(col.Name, TypeBool, v)
			}
			bld.Append(val)
		case *array.StringBuilder:
			bld.Append(v.String())
		default:
			return fmt.Errorf("%w: column %q has no parquet mapping", ErrUnsupportedFormat, col.Name)
		}
	}
	return nil
}

// columnTypeMismatch reports a value that cannot be stored under the
// column's declared type.
func columnTypeMismatch(column string, t ColumnType, v Value) error {
	return fmt.Errorf("%w: column %q declared %s but holds a %s value",
		ErrConfiguration, column, t, v.Kind())
}
