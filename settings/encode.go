package settings

import (
	"reflect"
	"time"
)

// encodableValues filters a settings map down to what a durable store can
// represent: strings, booleans, numbers, timestamps, and maps or slices of
// those. Runtime-only option values (mailbox handles, formatter functions,
// typed variants) cannot round-trip through a file or a database row; they
// are dropped rather than failing the whole Put, so a sink configured with
// a raw handle still persists the rest of its options.
func encodableValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if canEncode(v) {
			out[k] = v
		}
	}
	return out
}

func canEncode(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(time.Time); ok {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if !canEncode(rv.Index(i).Interface()) {
				return false
			}
		}
		return true
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return false
		}
		iter := rv.MapRange()
		for iter.Next() {
			if !canEncode(iter.Value().Interface()) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
