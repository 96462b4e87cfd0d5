package tabular

import "fmt"

// ColumnType is a destination column type, produced by schema inference or
// supplied through an explicit Schema.
type ColumnType int

const (
	// TypeText represents a variable-length text column
	TypeText ColumnType = iota
	// TypeInteger represents an integer column
	TypeInteger
	// TypeReal represents a floating-point column
	TypeReal
	// TypeDatetime represents a date/timestamp column
	TypeDatetime
	// TypeBool represents a boolean column
	TypeBool
)

// String returns the string representation of ColumnType.
func (t ColumnType) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeInteger:
		return "integer"
	case TypeReal:
		return "real"
	case TypeDatetime:
		return "datetime"
	case TypeBool:
		return "bool"
	default:
		return "text"
	}
}

// Schema declares destination column types for Export: either inferred from
// the dataset's value kinds or supplied verbatim.
//
// Example:
//
//	err := conn.Export(ctx, data, tabular.File("out.csv"),
//		tabular.NewExportOptions().WithSchema(tabular.ExplicitSchema(map[string]tabular.ColumnType{
//			"id":   tabular.TypeInteger,
//			"name": tabular.TypeText,
//		})))
type Schema struct {
	explicit map[string]ColumnType
}

// AutoSchema infers each column's type from its values at export time. It is
// the default.
func AutoSchema() Schema { return Schema{} }

// ExplicitSchema uses the supplied column-to-type mapping verbatim. The
// mapping must name every dataset column exactly; gaps or extras are rejected
// at export time.
func ExplicitSchema(types map[string]ColumnType) Schema {
	m := make(map[string]ColumnType, len(types))
	for name, t := range types {
		m[name] = t
	}
	return Schema{explicit: m}
}

// IsAuto reports whether column types are inferred rather than supplied.
func (s Schema) IsAuto() bool { return s.explicit == nil }

// resolve produces one ColumnType per dataset column, in column order.
func (s Schema) resolve(data *Dataset) ([]ColumnType, error) {
	types := make([]ColumnType, data.NumColumns())
	if s.IsAuto() {
		for i, col := range data.Columns() {
			t, err := col.inferType()
			if err != nil {
				return nil, err
			}
			types[i] = t
		}
		return types, nil
	}
	if len(s.explicit) != data.NumColumns() {
		return nil, fmt.Errorf("%w: explicit schema names %d columns, dataset has %d",
			ErrConfiguration, len(s.explicit), data.NumColumns())
	}
	for i, col := range data.Columns() {
		t, ok := s.explicit[col.Name]
		if !ok {
			return nil, fmt.Errorf("%w: explicit schema missing column %q", ErrConfiguration, col.Name)
		}
		types[i] = t
	}
	return types, nil
}

// inferType derives the column's destination type from its value kinds.
// Nulls are skipped; integers and floats widen together to real; an empty or
// all-null column falls back to text. Any other mix of kinds is ambiguous.
func (c Column) inferType() (ColumnType, error) {
	var hasBool, hasInt, hasFloat, hasString, hasTime bool
	for _, v := range c.Values {
		switch v.Kind() {
		case KindBool:
			hasBool = true
		case KindInt:
			hasInt = true
		case KindFloat:
			hasFloat = true
		case KindString:
			hasString = true
		case KindTime:
			hasTime = true
		case KindNull:
		}
	}

	kinds := 0
	for _, present := range []bool{hasBool, hasInt || hasFloat, hasString, hasTime} {
		if present {
			kinds++
		}
	}
	if kinds > 1 {
		return TypeText, fmt.Errorf("%w: column %q mixes value types", ErrSchemaInference, c.Name)
	}

	switch {
	case hasFloat:
		return TypeReal, nil
	case hasInt:
		return TypeInteger, nil
	case hasBool:
		return TypeBool, nil
	case hasTime:
		return TypeDatetime, nil
	default:
		return TypeText, nil
	}
}
