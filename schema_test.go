package tabular

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnInferType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		column  Column
		want    ColumnType
		wantErr bool
	}{
		{
			name:   "all integers",
			column: NewColumn("n", Int(1), Int(2), Int(3)),
			want:   TypeInteger,
		},
		{
			name:   "all floats",
			column: NewColumn("n", Float(1.5), Float(2.5)),
			want:   TypeReal,
		},
		{
			name:   "integers and floats widen to real",
			column: NewColumn("n", Int(1), Float(2.5)),
			want:   TypeReal,
		},
		{
			name:   "all strings",
			column: NewColumn("s", Str("a"), Str("b")),
			want:   TypeText,
		},
		{
			name:   "all bools",
			column: NewColumn("b", Bool(true), Bool(false)),
			want:   TypeBool,
		},
		{
			name:   "all datetimes",
			column: NewColumn("t", Time(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))),
			want:   TypeDatetime,
		},
		{
			name:   "nulls are skipped",
			column: NewColumn("n", Null(), Int(1), Null()),
			want:   TypeInteger,
		},
		{
			name:   "all nulls fall back to text",
			column: NewColumn("n", Null(), Null()),
			want:   TypeText,
		},
		{
			name:   "empty column falls back to text",
			column: NewColumn("n"),
			want:   TypeText,
		},
		{
			name:    "integers mixed with text are ambiguous",
			column:  NewColumn("n", Int(1), Str("a"), Int(3)),
			wantErr: true,
		},
		{
			name:    "bools mixed with integers are ambiguous",
			column:  NewColumn("n", Bool(true), Int(1)),
			wantErr: true,
		},
		{
			name:    "datetimes mixed with text are ambiguous",
			column:  NewColumn("n", Time(time.Now()), Str("a")),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.column.inferType()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrSchemaInference)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchemaResolve(t *testing.T) {
	t.Parallel()

	data, err := NewDataset(
		NewColumn("id", Int(1), Int(2)),
		NewColumn("price", Float(9.5), Int(10)),
		NewColumn("name", Str("a"), Str("b")),
	)
	require.NoError(t, err)

	t.Run("auto infers per column", func(t *testing.T) {
		t.Parallel()
		types, err := AutoSchema().resolve(data)
		require.NoError(t, err)
		assert.Equal(t, []ColumnType{TypeInteger, TypeReal, TypeText}, types)
	})

	t.Run("auto rejects mixed column", func(t *testing.T) {
		t.Parallel()
		mixed, err := NewDataset(NewColumn("v", Int(1), Str("a"), Int(3)))
		require.NoError(t, err)
		_, err = AutoSchema().resolve(mixed)
		require.ErrorIs(t, err, ErrSchemaInference)
	})

	t.Run("explicit types used verbatim", func(t *testing.T) {
		t.Parallel()
		schema := ExplicitSchema(map[string]ColumnType{
			"id":    TypeText,
			"price": TypeReal,
			"name":  TypeText,
		})
		types, err := schema.resolve(data)
		require.NoError(t, err)
		assert.Equal(t, []ColumnType{TypeText, TypeReal, TypeText}, types)
	})

	t.Run("explicit schema must cover every column", func(t *testing.T) {
		t.Parallel()
		schema := ExplicitSchema(map[string]ColumnType{"id": TypeInteger})
		_, err := schema.resolve(data)
		require.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("explicit schema rejects unknown columns", func(t *testing.T) {
		t.Parallel()
		schema := ExplicitSchema(map[string]ColumnType{
			"id":    TypeInteger,
			"price": TypeReal,
			"wrong": TypeText,
		})
		_, err := schema.resolve(data)
		require.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("explicit schema skips value inspection", func(t *testing.T) {
		t.Parallel()
		mixed, err := NewDataset(NewColumn("v", Int(1), Str("a")))
		require.NoError(t, err)
		types, err := ExplicitSchema(map[string]ColumnType{"v": TypeText}).resolve(mixed)
		require.NoError(t, err)
		assert.Equal(t, []ColumnType{TypeText}, types)
	})
}

func TestSchemaIsAuto(t *testing.T) {
	t.Parallel()

	assert.True(t, AutoSchema().IsAuto())
	assert.True(t, Schema{}.IsAuto(), "zero Schema should be auto")
	assert.False(t, ExplicitSchema(map[string]ColumnType{"a": TypeText}).IsAuto())
}

func TestColumnTypeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "text", TypeText.String())
	assert.Equal(t, "integer", TypeInteger.String())
	assert.Equal(t, "real", TypeReal.String())
	assert.Equal(t, "datetime", TypeDatetime.String())
	assert.Equal(t, "bool", TypeBool.String())
}
