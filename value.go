package tabular

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// datetimeLayout is the canonical layout used when datetime values are
// rendered to text formats.
const datetimeLayout = "2006-01-02 15:04:05"

// ValueKind identifies the semantic type of a Value.
type ValueKind int

const (
	// KindNull represents a missing value
	KindNull ValueKind = iota
	// KindBool represents a boolean value
	KindBool
	// KindInt represents a 64-bit integer value
	KindInt
	// KindFloat represents a 64-bit floating-point value
	KindFloat
	// KindString represents a text value
	KindString
	// KindTime represents a date or timestamp value
	KindTime
)

// String returns the string representation of ValueKind.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "datetime"
	default:
		return "unknown"
	}
}

// Value is a single scalar cell in a Dataset. The zero Value is the missing
// value (null). Values are immutable; build them with the constructors below.
type Value struct {
	kind ValueKind
	b    bool
	i    int64
	f    float64
	s    string
	t    time.Time
}

// Null returns the missing value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Int returns an integer Value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float returns a floating-point Value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Str returns a text Value.
func Str(v string) Value { return Value{kind: KindString, s: v} }

// Time returns a datetime Value.
func Time(v time.Time) Value { return Value{kind: KindTime, t: v} }

// Kind returns the value's kind.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is missing.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean contents. ok is false when the kind differs.
func (v Value) AsBool() (value, ok bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer contents. ok is false when the kind differs.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the numeric contents as float64. Integer values widen
// without loss of intent; ok is false for non-numeric kinds.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsString returns the text contents. ok is false when the kind differs.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsTime returns the datetime contents. ok is false when the kind differs.
func (v Value) AsTime() (time.Time, bool) { return v.t, v.kind == KindTime }

// Equal reports whether two values have the same kind and contents.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindTime:
		return v.t.Equal(other.t)
	default:
		return false
	}
}

// String renders the value the way text formats store it: null as the empty
// string, booleans as "true"/"false", datetimes in "2006-01-02 15:04:05"
// form, and floats always carrying a decimal point or exponent so a float
// column survives a text round-trip as float rather than integer.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindString:
		return v.s
	case KindTime:
		return v.t.Format(datetimeLayout)
	default:
		return ""
	}
}

// formatFloat formats f keeping a decimal point on whole values.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
