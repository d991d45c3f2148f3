package dataset

import (
	"math"
	"strconv"
	"time"
)

// DateLayout is used whenever a date value is rendered as text.
const DateLayout = "2006-01-02"

// coerce converts v to the storage type of kind. A nil result with ok=true is the null marker.
func coerce(kind Kind, v any) (any, bool) {
	if v == nil {
		return nil, true
	}
	switch kind {
	case Text:
		s, ok := v.(string)
		return s, ok
	case Int:
		switch x := v.(type) {
		case int64:
			return x, true
		case int:
			return int64(x), true
		case int32:
			return int64(x), true
		}
	case Float:
		switch x := v.(type) {
		case float64:
			if math.IsNaN(x) {
				return nil, true
			}
			return x, true
		case float32:
			if math.IsNaN(float64(x)) {
				return nil, true
			}
			return float64(x), true
		case int64:
			return float64(x), true
		case int:
			return float64(x), true
		}
	case Bool:
		b, ok := v.(bool)
		return b, ok
	case Date:
		if t, ok := v.(time.Time); ok {
			return t.UTC(), true
		}
	}
	return nil, false
}

// kindOf infers the column kind a Go value would be stored under.
func kindOf(v any) (Kind, bool) {
	switch v.(type) {
	case string:
		return Text, true
	case int, int32, int64:
		return Int, true
	case float32, float64:
		return Float, true
	case bool:
		return Bool, true
	case time.Time:
		return Date, true
	}
	return Text, false
}

// Format renders a stored value for display. Null renders as the empty string.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(DateLayout)
	default:
		return ""
	}
}

// Equal compares two stored values; int64 and float64 compare numerically.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
		return false
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
