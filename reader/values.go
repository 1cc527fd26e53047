package reader

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/deprecated"
	"github.com/parquet-go/parquet-go/format"

	"github.com/vegasq/parq/record"
)

const (
	// julianUnixEpoch is the Julian day number of 1970-01-01, the base of
	// INT96 timestamps.
	julianUnixEpoch = 2440588

	localTimestampLayout = "2006-01-02T15:04:05.999999999"
	timeOfDayLayout      = "15:04:05.999999999"
)

// leafValue converts a decoded primitive according to the logical type of
// its column.
//
// Timestamps become RFC 3339 strings (without a zone offset when the column
// is not adjusted to UTC), dates become YYYY-MM-DD, times of day become
// HH:MM:SS with fractional seconds, decimals become their exact decimal
// text and UUIDs their canonical form. Binary columns that do not carry
// text are base64 encoded so no byte is lost.
func leafValue(typ parquet.Type, v any) (record.Value, error) {
	if v == nil {
		return nil, nil
	}

	lt := typ.LogicalType()
	if lt == nil {
		return physicalValue(typ.Kind(), v)
	}

	switch {
	case lt.UTF8 != nil, lt.Json != nil, lt.Enum != nil:
		if b, ok := rawBytes(v); ok {
			return string(b), nil
		}
	case lt.Timestamp != nil:
		if t, ok := v.(time.Time); ok {
			return formatTimestamp(t, lt.Timestamp.IsAdjustedToUTC), nil
		}
		if n, ok := integer(v); ok {
			return formatTimestamp(fromEpoch(n, lt.Timestamp.Unit), lt.Timestamp.IsAdjustedToUTC), nil
		}
	case lt.Date != nil:
		if n, ok := integer(v); ok {
			return time.Unix(n*86400, 0).UTC().Format(time.DateOnly), nil
		}
	case lt.Time != nil:
		if n, ok := integer(v); ok {
			return time.Unix(0, 0).UTC().Add(sinceMidnight(n, lt.Time.Unit)).Format(timeOfDayLayout), nil
		}
	case lt.Decimal != nil:
		if unscaled, ok := decimalUnscaled(v); ok {
			return formatDecimal(unscaled, int(lt.Decimal.Scale)), nil
		}
	case lt.UUID != nil:
		if b, ok := rawBytes(v); ok {
			id, err := uuid.FromBytes(b)
			if err != nil {
				return nil, fmt.Errorf("invalid UUID: %w", err)
			}
			return id.String(), nil
		}
	case lt.Integer != nil && !lt.Integer.IsSigned:
		if n, ok := integer(v); ok {
			if lt.Integer.BitWidth == 64 {
				return record.Normalize(uint64(n))
			}
			return int64(uint32(n)), nil
		}
	case lt.Float16 != nil:
		if b, ok := rawBytes(v); ok && len(b) == 2 {
			return float16(binary.LittleEndian.Uint16(b)), nil
		}
	}
	return physicalValue(typ.Kind(), v)
}

// physicalValue converts a value whose logical type, if any, does not
// change its rendering.
func physicalValue(kind parquet.Kind, v any) (record.Value, error) {
	switch kind {
	case parquet.Int96:
		if x, ok := v.(deprecated.Int96); ok {
			return int96Time(x).Format(time.RFC3339Nano), nil
		}
	case parquet.ByteArray, parquet.FixedLenByteArray:
		if b, ok := rawBytes(v); ok {
			return base64.StdEncoding.EncodeToString(b), nil
		}
	}
	return record.Normalize(v)
}

func formatTimestamp(t time.Time, utc bool) string {
	if utc {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t.UTC().Format(localTimestampLayout)
}

func fromEpoch(n int64, unit format.TimeUnit) time.Time {
	switch {
	case unit.Millis != nil:
		return time.UnixMilli(n)
	case unit.Micros != nil:
		return time.UnixMicro(n)
	default:
		return time.Unix(0, n)
	}
}

func sinceMidnight(n int64, unit format.TimeUnit) time.Duration {
	switch {
	case unit.Millis != nil:
		return time.Duration(n) * time.Millisecond
	case unit.Micros != nil:
		return time.Duration(n) * time.Microsecond
	default:
		return time.Duration(n)
	}
}

// int96Time decodes the legacy INT96 timestamp layout: nanoseconds within
// the day in the first eight bytes, then the Julian day number.
func int96Time(v deprecated.Int96) time.Time {
	nanos := int64(uint64(v[1])<<32 | uint64(v[0]))
	days := int64(v[2]) - julianUnixEpoch
	return time.Unix(days*86400, nanos).UTC()
}

// decimalUnscaled returns the unscaled integer of a decimal value stored as
// INT32, INT64 or big-endian two's complement bytes.
func decimalUnscaled(v any) (*big.Int, bool) {
	if n, ok := integer(v); ok {
		return big.NewInt(n), true
	}
	b, ok := rawBytes(v)
	if !ok {
		return nil, false
	}
	n := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8)))
	}
	return n, true
}

func formatDecimal(unscaled *big.Int, scale int) string {
	digits := new(big.Int).Abs(unscaled).String()
	sign := ""
	if unscaled.Sign() < 0 {
		sign = "-"
	}
	if scale <= 0 {
		return sign + digits + strings.Repeat("0", -scale)
	}
	if len(digits) <= scale {
		digits = strings.Repeat("0", scale-len(digits)+1) + digits
	}
	point := len(digits) - scale
	return sign + digits[:point] + "." + digits[point:]
}

// float16 widens an IEEE 754 half precision value.
func float16(bits uint16) float64 {
	sign := 1.0
	if bits&0x8000 != 0 {
		sign = -1
	}
	exp := int(bits>>10) & 0x1f
	frac := float64(bits & 0x3ff)

	switch exp {
	case 0:
		return sign * math.Ldexp(frac, -24)
	case 0x1f:
		if frac == 0 {
			return math.Inf(int(sign))
		}
		return math.NaN()
	}
	return sign * math.Ldexp(1+frac/1024, exp-15)
}

func integer(v any) (int64, bool) {
	switch x := v.(type) {
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case int:
		return int64(x), true
	case uint32:
		return int64(x), true
	}
	return 0, false
}

func rawBytes(v any) ([]byte, bool) {
	switch x := v.(type) {
	case []byte:
		return x, true
	case string:
		return []byte(x), true
	case [16]byte:
		return x[:], true
	}
	return nil, false
}
