package record

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"
)

// Normalize coerces a value produced by a decoder into the closed set of
// types a Value may hold.
//
// Integers of every width become int64 (unsigned values above MaxInt64
// become float64), float32 becomes the float64 with the same shortest
// decimal representation, []byte becomes string, time.Time becomes an
// RFC 3339 string in UTC, maps with string keys become records with sorted
// keys and slices become []Value. Pointers are dereferenced, nil pointers
// become nil.
//
// Returns an error for values with no JSON representation (channels,
// functions, maps with non-string keys).
func Normalize(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool, string, int64, float64, *Record:
		return x, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint:
		return fromUint(uint64(x)), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		return fromUint(x), nil
	case float32:
		f, _ := strconv.ParseFloat(strconv.FormatFloat(float64(x), 'g', -1, 32), 64)
		return f, nil
	case []byte:
		return string(x), nil
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano), nil
	case map[string]any:
		return FromMap(x)
	case []any:
		return normalizeSlice(reflect.ValueOf(x))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return Normalize(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		return normalizeSlice(rv)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("record: unsupported map key type %s", rv.Type().Key())
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return FromMap(m)
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fromUint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}

	return nil, fmt.Errorf("record: unsupported value type %T", v)
}

// FromMap builds a record from an unordered map. Keys are sorted so the
// result is deterministic; callers that know the source column order
// should build the record with Set instead.
func FromMap(m map[string]any) (*Record, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rec := New()
	for _, k := range keys {
		v, err := Normalize(m[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		rec.Set(k, v)
	}
	return rec, nil
}

func normalizeSlice(rv reflect.Value) (Value, error) {
	// []byte arrays are handled above; byte arrays of fixed length are
	// binary data and rendered as strings too.
	if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
		b := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(b), rv)
		return string(b), nil
	}

	items := make([]Value, rv.Len())
	for i := range items {
		item, err := Normalize(rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		items[i] = item
	}
	return items, nil
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return float64(u)
	}
	return int64(u)
}
