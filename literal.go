package apischema

import (
	"math"
	"math/big"
	"reflect"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Option values must be concrete literals at compile time. resolveLiteral
// reduces a value to the literal forms the artifacts can carry: string,
// bool, int64, float64, time.Time, nil, and slices or string-keyed maps of
// those. Well-known value objects reduce to strings (uuid.UUID); anything
// that could hide deferred computation, including fmt.Stringers of unknown
// types, is rejected. Arbitrary-precision numerics pass through unchanged
// so the mapper can reject them with a precise error when they land in a
// serialized position.
func resolveLiteral(v any) (any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, true
	case string:
		return x, true
	case bool:
		return x, true
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), uint64(x) <= math.MaxInt64
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), x <= math.MaxInt64
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, true
		}
		if f, err := x.Float64(); err == nil {
			return f, true
		}
		return nil, false
	case time.Time:
		return x, true
	case uuid.UUID:
		return x.String(), true
	case *big.Int, *big.Float, *big.Rat, big.Int, big.Float, big.Rat:
		return v, true
	case []byte:
		return string(x), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			r, ok := resolveLiteral(rv.Index(i).Interface())
			if !ok {
				return nil, false
			}
			out[i] = r
		}
		return out, true
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			r, ok := resolveLiteral(iter.Value().Interface())
			if !ok {
				return nil, false
			}
			out[iter.Key().String()] = r
		}
		return out, true
	}
	return nil, false
}

// isArbitraryPrecision reports whether v is a math/big numeric, directly or
// nested inside a resolved slice.
func isArbitraryPrecision(v any) bool {
	switch x := v.(type) {
	case *big.Int, *big.Float, *big.Rat, big.Int, big.Float, big.Rat:
		return true
	case []any:
		for _, e := range x {
			if isArbitraryPrecision(e) {
				return true
			}
		}
	}
	return false
}

// stringifyLiteral renders a resolved literal in its string form, used for
// enum membership values and temporal examples.
func stringifyLiteral(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true
	}
	return "", false
}

// coerceFloat widens a resolved numeric literal to float64 for bound
// options.
func coerceFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
