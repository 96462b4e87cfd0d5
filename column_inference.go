package tabular

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Common datetime patterns to detect
var datetimePatterns = []struct {
	pattern *regexp.Regexp
	layouts []string // Multiple layouts for the same pattern
}{
	// ISO8601 formats with timezone
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`),
		[]string{time.RFC3339, time.RFC3339Nano},
	},
	// ISO8601 formats without timezone
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02T15:04:05", "2006-01-02T15:04:05.000"},
	},
	// ISO8601 date and time with space
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02 15:04:05", "2006-01-02 15:04:05.000"},
	},
	// ISO8601 date only
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		[]string{"2006-01-02"},
	},
	// US formats
	{
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4} \d{1,2}:\d{2}:\d{2}( (AM|PM))?$`),
		[]string{"1/2/2006 15:04:05", "1/2/2006 3:04:05 PM", "01/02/2006 15:04:05"},
	},
	{
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
		[]string{"1/2/2006", "01/02/2006"},
	},
	// European formats
	{
		regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4} \d{1,2}:\d{2}:\d{2}$`),
		[]string{"2.1.2006 15:04:05", "02.01.2006 15:04:05"},
	},
	{
		regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`),
		[]string{"2.1.2006", "02.01.2006"},
	},
}

// parseDatetime parses a string as a datetime using the known patterns.
func parseDatetime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, dp := range datetimePatterns {
		if dp.pattern.MatchString(value) {
			// Try each layout for this pattern
			for _, layout := range dp.layouts {
				if t, err := time.Parse(layout, value); err == nil {
					return t, true
				}
			}
		}
	}

	return time.Time{}, false
}

// isDatetime checks if a string value represents a datetime
func isDatetime(value string) bool {
	_, ok := parseDatetime(value)
	return ok
}

// parseBoolString parses explicit boolean spellings. Unlike strconv.ParseBool
// it rejects "1"/"0" and single letters, which would shadow integer columns.
func parseBoolString(value string) (parsed, ok bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

// inferColumnType infers a column type from raw string values as read from
// text formats (CSV, TSV, Excel). Empty values are skipped. A column whose
// non-empty values span more than one category (datetime, numeric, boolean)
// stays text, as does one containing any unclassifiable value.
func inferColumnType(values []string) ColumnType {
	if len(values) == 0 {
		return TypeText
	}

	hasDatetime := false
	hasReal := false
	hasInteger := false
	hasBool := false
	hasText := false

	for _, value := range values {
		// Skip empty values for type inference
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		// Check if it's a datetime first (before checking numbers)
		if isDatetime(value) {
			hasDatetime = true
			continue
		}

		if _, ok := parseBoolString(value); ok {
			hasBool = true
			continue
		}

		// Try to parse as integer
		if _, err := strconv.ParseInt(value, 10, 64); err == nil {
			hasInteger = true
			continue
		}

		// Try to parse as float
		if _, err := strconv.ParseFloat(value, 64); err == nil {
			hasReal = true
			continue
		}

		// If it's not a number, boolean or datetime, it's text
		hasText = true
		break // If any value is text, the whole column is text
	}

	if hasText {
		return TypeText
	}

	// Mixed categories cannot be represented by one typed column.
	categories := 0
	for _, present := range []bool{hasDatetime, hasReal || hasInteger, hasBool} {
		if present {
			categories++
		}
	}
	if categories > 1 {
		return TypeText
	}

	switch {
	case hasDatetime:
		return TypeDatetime
	case hasReal:
		return TypeReal
	case hasInteger:
		return TypeInteger
	case hasBool:
		return TypeBool
	default:
		// Default to text if no values were found
		return TypeText
	}
}

// convertStringColumn converts raw strings to typed values for the inferred
// column type. Empty strings become nulls. If any value resists conversion
// the whole column falls back to text, keeping the column uniform.
func convertStringColumn(values []string, t ColumnType) []Value {
	converted := make([]Value, len(values))
	for i, raw := range values {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			converted[i] = Null()
			continue
		}
		switch t {
		case TypeInteger:
			n, err := strconv.ParseInt(trimmed, 10, 64)
			if err != nil {
				return textColumn(values)
			}
			converted[i] = Int(n)
		case TypeReal:
			f, err := strconv.ParseFloat(trimmed, 64)
			if err != nil {
				return textColumn(values)
			}
			converted[i] = Float(f)
		case TypeDatetime:
			ts, ok := parseDatetime(trimmed)
			if !ok {
				return textColumn(values)
			}
			converted[i] = Time(ts)
		case TypeBool:
			b, ok := parseBoolString(trimmed)
			if !ok {
				return textColumn(values)
			}
			converted[i] = Bool(b)
		default:
			converted[i] = Str(raw)
		}
	}
	return converted
}

// textColumn renders every value as text, keeping empties as nulls.
func textColumn(values []string) []Value {
	converted := make([]Value, len(values))
	for i, raw := range values {
		if strings.TrimSpace(raw) == "" {
			converted[i] = Null()
			continue
		}
		converted[i] = Str(raw)
	}
	return converted
}

// columnsFromStrings builds typed columns from a header and row-major string
// records, inferring each column's type from its values. Records must already
// match the header width.
func columnsFromStrings(header []string, records [][]string) []Column {
	columns := make([]Column, len(header))
	for i, name := range header {
		values := make([]string, len(records))
		for r, record := range records {
			values[r] = record[i]
		}
		columns[i] = Column{
			Name:   name,
			Values: convertStringColumn(values, inferColumnType(values)),
		}
	}
	return columns
}
