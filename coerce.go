package featenc

import (
	"fmt"
	"math"
	"strconv"
)

// toFloat converts numeric-ish values to float64. Strings must parse as
// numbers; booleans fold to 0/1.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// truthy folds a value to 0 or 1. Nil, false, numeric zero, "" and "0" fold
// to 0; everything else folds to 1.
func truthy(v any) int {
	switch n := v.(type) {
	case nil:
		return 0
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		if n == "" || n == "0" {
			return 0
		}
		return 1
	default:
		if f, ok := toFloat(v); ok {
			if f == 0 {
				return 0
			}
			return 1
		}
		return 1
	}
}

// coerceKind converts a value to its kind's canonical representation:
// integer → int (truncated), numeric → float64, boolean → 0/1 int,
// categorical → unchanged. The second return reports whether the value was
// coercible at all.
func coerceKind(k Kind, v any) (any, bool) {
	switch k {
	case KindInteger:
		f, ok := toFloat(v)
		if !ok {
			return nil, false
		}
		return int(math.Trunc(f)), true
	case KindNumeric:
		f, ok := toFloat(v)
		if !ok {
			return nil, false
		}
		return f, true
	case KindBoolean:
		return truthy(v), true
	default:
		return v, true
	}
}

// stringify renders a value the way it is persisted in mapping files and
// reported on signals. Floats drop a trailing ".0" so 3.0 and 3 share a key.
func stringify(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}
