// Package record defines the unit of data flowing through the conversion
// pipeline: an ordered mapping from column name to a JSON-compatible value.
//
// Key order is significant. It is preserved from the source, through JSON
// encoding, and determines the CSV header when a record serves as the
// template for a table.
package record

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Value is a JSON-compatible value held by a Record.
//
// The dynamic type is always one of:
//   - nil
//   - bool
//   - int64
//   - float64
//   - string
//   - *Record
//   - []Value
//
// Use Normalize to coerce arbitrary decoder output into this set.
type Value = any

// Record is an ordered mapping from field name to Value.
//
// The zero value is an empty record ready to use.
type Record struct {
	fields *orderedmap.OrderedMap[string, Value]
}

// New creates an empty record.
func New() *Record {
	return &Record{fields: orderedmap.New[string, Value]()}
}

// Set assigns value to key. A new key is appended after all existing keys;
// an existing key keeps its position.
func (r *Record) Set(key string, value Value) {
	if r.fields == nil {
		r.fields = orderedmap.New[string, Value]()
	}
	r.fields.Set(key, value)
}

// Get returns the value stored under key and whether it was present.
func (r *Record) Get(key string) (Value, bool) {
	if r == nil || r.fields == nil {
		return nil, false
	}
	return r.fields.Get(key)
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil || r.fields == nil {
		return 0
	}
	return r.fields.Len()
}

// Keys returns the field names in order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, r.Len())
	r.Range(func(key string, _ Value) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Range calls fn for each field in order until fn returns false.
func (r *Record) Range(fn func(key string, value Value) bool) {
	if r == nil || r.fields == nil {
		return
	}
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Equal reports whether a and b hold the same keys in the same order with
// equal values. Nested records are compared recursively.
func Equal(a, b *Record) bool {
	if a.Len() != b.Len() {
		return false
	}
	if a.Len() == 0 {
		return true
	}
	pa, pb := a.fields.Oldest(), b.fields.Oldest()
	for pa != nil && pb != nil {
		if pa.Key != pb.Key || !valueEqual(pa.Value, pb.Value) {
			return false
		}
		pa, pb = pa.Next(), pb.Next()
	}
	return pa == nil && pb == nil
}

func valueEqual(a, b Value) bool {
	switch av := a.(type) {
	case *Record:
		bv, ok := b.(*Record)
		return ok && Equal(av, bv)
	case []Value:
		bv, ok := b.([]Value)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
