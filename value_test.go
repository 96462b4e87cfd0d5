package tabular

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValueConstructors(t *testing.T) {
	t.Parallel()

	t.Run("null value", func(t *testing.T) {
		t.Parallel()
		v := Null()
		assert.Equal(t, KindNull, v.Kind(), "should be the null kind")
		assert.True(t, v.IsNull(), "should report null")
	})

	t.Run("zero value is null", func(t *testing.T) {
		t.Parallel()
		var v Value
		assert.True(t, v.IsNull(), "zero Value should be null")
		assert.True(t, v.Equal(Null()), "zero Value should equal Null()")
	})

	t.Run("bool value", func(t *testing.T) {
		t.Parallel()
		v := Bool(true)
		assert.Equal(t, KindBool, v.Kind())
		got, ok := v.AsBool()
		assert.True(t, ok, "AsBool should succeed")
		assert.True(t, got)
	})

	t.Run("int value", func(t *testing.T) {
		t.Parallel()
		v := Int(42)
		assert.Equal(t, KindInt, v.Kind())
		got, ok := v.AsInt()
		assert.True(t, ok, "AsInt should succeed")
		assert.Equal(t, int64(42), got)
	})

	t.Run("float value", func(t *testing.T) {
		t.Parallel()
		v := Float(2.5)
		assert.Equal(t, KindFloat, v.Kind())
		got, ok := v.AsFloat()
		assert.True(t, ok, "AsFloat should succeed")
		assert.InDelta(t, 2.5, got, 0)
	})

	t.Run("string value", func(t *testing.T) {
		t.Parallel()
		v := Str("hello")
		assert.Equal(t, KindString, v.Kind())
		got, ok := v.AsString()
		assert.True(t, ok, "AsString should succeed")
		assert.Equal(t, "hello", got)
	})

	t.Run("time value", func(t *testing.T) {
		t.Parallel()
		ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
		v := Time(ts)
		assert.Equal(t, KindTime, v.Kind())
		got, ok := v.AsTime()
		assert.True(t, ok, "AsTime should succeed")
		assert.True(t, got.Equal(ts))
	})
}

func TestValueAccessorMismatch(t *testing.T) {
	t.Parallel()

	v := Str("not a number")
	_, ok := v.AsInt()
	assert.False(t, ok, "AsInt on a string should fail")
	_, ok = v.AsBool()
	assert.False(t, ok, "AsBool on a string should fail")
	_, ok = v.AsFloat()
	assert.False(t, ok, "AsFloat on a string should fail")
	_, ok = v.AsTime()
	assert.False(t, ok, "AsTime on a string should fail")
}

func TestValueAsFloatWidensInt(t *testing.T) {
	t.Parallel()

	got, ok := Int(3).AsFloat()
	assert.True(t, ok, "integers should widen to float")
	assert.InDelta(t, 3.0, got, 0)
}

func TestValueString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{name: "null renders empty", value: Null(), want: ""},
		{name: "bool true", value: Bool(true), want: "true"},
		{name: "bool false", value: Bool(false), want: "false"},
		{name: "integer", value: Int(42), want: "42"},
		{name: "negative integer", value: Int(-7), want: "-7"},
		{name: "fractional float", value: Float(2.5), want: "2.5"},
		{name: "whole float keeps decimal point", value: Float(2), want: "2.0"},
		{name: "negative whole float", value: Float(-3), want: "-3.0"},
		{name: "large float uses exponent", value: Float(1e21), want: "1e+21"},
		{name: "string passes through", value: Str("text"), want: "text"},
		{
			name:  "datetime canonical layout",
			value: Time(time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)),
			want:  "2024-03-15 10:30:45",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.value.String())
		})
	}
}

func TestValueEqual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    Value
		b    Value
		want bool
	}{
		{name: "equal ints", a: Int(1), b: Int(1), want: true},
		{name: "different ints", a: Int(1), b: Int(2), want: false},
		{name: "int never equals float", a: Int(1), b: Float(1), want: false},
		{name: "nulls are equal", a: Null(), b: Null(), want: true},
		{name: "null differs from empty string", a: Null(), b: Str(""), want: false},
		{name: "equal strings", a: Str("a"), b: Str("a"), want: true},
		{
			name: "times compare by instant",
			a:    Time(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
			b:    Time(time.Date(2024, 1, 1, 13, 0, 0, 0, time.FixedZone("plus1", 3600))),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
		})
	}
}

func TestValueKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "null", KindNull.String())
	assert.Equal(t, "bool", KindBool.String())
	assert.Equal(t, "integer", KindInt.String())
	assert.Equal(t, "float", KindFloat.String())
	assert.Equal(t, "string", KindString.String())
	assert.Equal(t, "datetime", KindTime.String())
	assert.Equal(t, "unknown", ValueKind(99).String())
}
