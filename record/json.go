package record

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/segmentio/encoding/json"
)

// MarshalJSON encodes the record as a compact JSON object with keys in
// record order.
//
// Floats always carry a decimal point or an exponent, so 2.0 is written as
// 2.0 and decodes back to a float64. NaN and the infinities have no JSON
// form and are written as null.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	return appendRecord(make([]byte, 0, 64), r)
}

// MarshalValue encodes a single value using the same rules as
// (*Record).MarshalJSON.
func MarshalValue(v Value) ([]byte, error) {
	return appendValue(nil, v)
}

// FormatFloat renders f the way records encode it in JSON: plain decimal
// notation with at least one fractional digit, switching to an exponent
// below 1e-6 and from 1e21 upwards. It returns "" for NaN and the
// infinities.
func FormatFloat(f float64) string {
	if !finite(f) {
		return ""
	}
	return string(appendFloat(nil, f))
}

func appendRecord(b []byte, r *Record) ([]byte, error) {
	b = append(b, '{')
	var err error
	first := true
	r.Range(func(key string, v Value) bool {
		if !first {
			b = append(b, ',')
		}
		first = false
		b = json.AppendEscape(b, key, json.EscapeHTML)
		b = append(b, ':')
		if b, err = appendValue(b, v); err != nil {
			err = fmt.Errorf("field %q: %w", key, err)
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return append(b, '}'), nil
}

func appendValue(b []byte, v Value) ([]byte, error) {
	switch x := v.(type) {
	case nil:
		return append(b, "null"...), nil
	case bool:
		return strconv.AppendBool(b, x), nil
	case int64:
		return strconv.AppendInt(b, x, 10), nil
	case float64:
		if !finite(x) {
			return append(b, "null"...), nil
		}
		return appendFloat(b, x), nil
	case string:
		return json.AppendEscape(b, x, json.EscapeHTML), nil
	case *Record:
		if x == nil {
			return append(b, "null"...), nil
		}
		return appendRecord(b, x)
	case []Value:
		if x == nil {
			return append(b, "null"...), nil
		}
		b = append(b, '[')
		for i, item := range x {
			if i > 0 {
				b = append(b, ',')
			}
			var err error
			if b, err = appendValue(b, item); err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
		}
		return append(b, ']'), nil
	default:
		// values stored without Normalize
		return json.Append(b, x, json.EscapeHTML)
	}
}

func appendFloat(b []byte, f float64) []byte {
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.AppendFloat(b, f, 'g', -1, 64)
	}
	start := len(b)
	b = strconv.AppendFloat(b, f, 'f', -1, 64)
	if bytes.IndexByte(b[start:], '.') < 0 {
		b = append(b, '.', '0')
	}
	return b
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// UnmarshalJSON decodes a JSON object into the record, preserving key order.
// Nested objects decode to *Record and arrays to []Value. Numbers written
// without a fraction or exponent decode to int64 when they fit, every other
// number decodes to float64.
func (r *Record) UnmarshalJSON(data []byte) error {
	t := json.NewTokenizer(data)
	if !t.Next() {
		return tokenError(t, "empty input")
	}
	if t.Delim != '{' {
		return fmt.Errorf("record: expected JSON object, got %s", t.Value)
	}

	decoded, err := decodeObject(t)
	if err != nil {
		return err
	}
	if t.Next() {
		return fmt.Errorf("record: unexpected data after object: %s", t.Value)
	}
	if t.Err != nil {
		return fmt.Errorf("record: %w", t.Err)
	}
	*r = *decoded
	return nil
}

// decodeObject reads the members of an object; t is positioned on its
// opening brace.
func decodeObject(t *json.Tokenizer) (*Record, error) {
	rec := New()
	members, comma := 0, false
	for {
		if !t.Next() {
			return nil, tokenError(t, "unterminated object")
		}
		switch {
		case t.Delim == '}' && !comma:
			return rec, nil
		case t.Delim == ',' && members > 0 && !comma:
			comma = true
			continue
		case !t.IsKey || t.Kind().Class() != json.String || (members > 0 && !comma):
			return nil, fmt.Errorf("record: expected object key, got %s", t.Value)
		}

		key := string(t.String())
		if !t.Next() || t.Delim != ':' {
			return nil, tokenError(t, fmt.Sprintf("expected ':' after key %q", key))
		}
		if !t.Next() {
			return nil, tokenError(t, fmt.Sprintf("missing value for key %q", key))
		}
		value, err := decodeValue(t)
		if err != nil {
			return nil, err
		}
		rec.Set(key, value)
		members++
		comma = false
	}
}

// decodeValue decodes the value t is positioned on.
func decodeValue(t *json.Tokenizer) (Value, error) {
	switch t.Delim {
	case '{':
		return decodeObject(t)
	case '[':
		items := make([]Value, 0)
		comma := false
		for {
			if !t.Next() {
				return nil, tokenError(t, "unterminated array")
			}
			switch {
			case t.Delim == ']' && !comma:
				return items, nil
			case t.Delim == ',' && len(items) > 0 && !comma:
				comma = true
				continue
			case len(items) > 0 && !comma:
				return nil, fmt.Errorf("record: expected ',' in array, got %s", t.Value)
			}
			item, err := decodeValue(t)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			comma = false
		}
	case 0:
	default:
		return nil, fmt.Errorf("record: unexpected delimiter %q", rune(t.Delim))
	}

	switch t.Kind().Class() {
	case json.Null:
		return nil, nil
	case json.Bool:
		return t.Bool(), nil
	case json.String:
		return string(t.String()), nil
	case json.Num:
		if t.Kind() != json.Float {
			if i, err := strconv.ParseInt(string(t.Value), 10, 64); err == nil {
				return i, nil
			}
		}
		f, err := strconv.ParseFloat(string(t.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("record: invalid number %s: %w", t.Value, err)
		}
		return f, nil
	}
	return nil, fmt.Errorf("record: unexpected token %s", t.Value)
}

func tokenError(t *json.Tokenizer, msg string) error {
	if t.Err != nil {
		return fmt.Errorf("record: %s: %w", msg, t.Err)
	}
	return fmt.Errorf("record: %s", msg)
}
