// Package coerce converts loosely typed form values into the numbers and
// strings the engine computes with. Values coming from forms may be numbers,
// numeric strings, empty strings or missing entirely; anything that does not
// parse as a finite number becomes 0.
package coerce

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Float returns v as a finite float64, or 0 when v is missing or not numeric.
func Float(v interface{}) float64 {
	f, ok := parseFloat(v)
	if !ok {
		return 0
	}
	return f
}

// FloatOr returns v as a float64, or fallback when v is missing or not numeric.
func FloatOr(v interface{}, fallback float64) float64 {
	f, ok := parseFloat(v)
	if !ok {
		return fallback
	}
	return f
}

// IsNumeric reports whether v holds a finite number or a numeric string.
func IsNumeric(v interface{}) bool {
	_, ok := parseFloat(v)
	return ok
}

// Bool interprets v as a boolean. Strings accept the strconv.ParseBool forms;
// numbers are true when non-zero.
func Bool(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	}
	if f, ok := parseFloat(v); ok {
		return f != 0
	}
	b, err := cast.ToBoolE(v)
	return err == nil && b
}

// String returns v as a trimmed string; nil becomes "".
func String(v interface{}) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

// Normalize returns the canonical string form used to compare stored field
// values: numbers (or numeric strings) in shortest decimal form, nil as "",
// anything else trimmed. 2245, 2245.0 and "2245" all normalize to "2245".
func Normalize(v interface{}) string {
	if v == nil {
		return ""
	}
	if f, ok := parseFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return String(v)
}

func parseFloat(v interface{}) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0, false
	case bool:
		return 0, false
	case string:
		trimmed := strings.TrimSpace(t)
		if trimmed == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		parsed, err := cast.ToFloat64E(v)
		if err != nil {
			return 0, false
		}
		f = parsed
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
