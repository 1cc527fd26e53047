package filter

import (
	"fmt"
	"math"

	"github.com/vegasq/parq/record"
)

// Expression is a predicate over a record
type Expression interface {
	Match(rec *record.Record) (bool, error)
}

// BinaryExpr represents AND / OR. The right side is only evaluated when the
// left side does not decide the result.
type BinaryExpr struct {
	Left     Expression
	Operator TokenType // TokenAnd or TokenOr
	Right    Expression
}

// NotExpr negates its inner expression
type NotExpr struct {
	Inner Expression
}

// ComparisonExpr compares a field with a literal. Value is nil, bool, int64,
// float64 or string.
type ComparisonExpr struct {
	Column   string
	Path     []string
	Operator TokenType
	Value    any
}

// NullExpr implements `column IS [NOT] NULL`. A missing column counts as
// null.
type NullExpr struct {
	Column string
	Path   []string
	Negate bool
}

// Match evaluates a binary expression
func (b *BinaryExpr) Match(rec *record.Record) (bool, error) {
	left, err := b.Left.Match(rec)
	if err != nil {
		return false, err
	}

	switch b.Operator {
	case TokenAnd:
		if !left {
			return false, nil
		}
	case TokenOr:
		if left {
			return true, nil
		}
	default:
		return false, fmt.Errorf("unknown logical operator %s", b.Operator)
	}

	return b.Right.Match(rec)
}

// Match evaluates a negation
func (n *NotExpr) Match(rec *record.Record) (bool, error) {
	ok, err := n.Inner.Match(rec)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// Match evaluates a null check
func (n *NullExpr) Match(rec *record.Record) (bool, error) {
	v, _ := lookup(rec, n.Path)
	return (v == nil) != n.Negate, nil
}

// Match evaluates a comparison. Rows without the column never match, except
// for `!= NULL` style checks which treat the missing column as null.
func (c *ComparisonExpr) Match(rec *record.Record) (bool, error) {
	v, ok := lookup(rec, c.Path)
	if !ok && c.Value != nil {
		return false, nil
	}
	matched, err := compare(v, c.Operator, c.Value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", c.Column, err)
	}
	return matched, nil
}

// lookup follows path through nested records.
func lookup(rec *record.Record, path []string) (record.Value, bool) {
	var cur record.Value = rec
	for _, key := range path {
		r, ok := cur.(*record.Record)
		if !ok || r == nil {
			return nil, false
		}
		cur, ok = r.Get(key)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// compare compares a record value with a literal using the given operator
func compare(left any, operator TokenType, right any) (bool, error) {
	// Handle nil values
	if left == nil || right == nil {
		switch operator {
		case TokenEqual:
			return left == nil && right == nil, nil
		case TokenNotEqual:
			return (left == nil) != (right == nil), nil
		default:
			return false, nil
		}
	}

	// int64 pairs compare exactly
	if l, ok := left.(int64); ok {
		if r, ok := right.(int64); ok {
			return compareOrdered(l, operator, r), nil
		}
	}

	leftNum, leftIsNum := toFloat64(left)
	rightNum, rightIsNum := toFloat64(right)
	if leftIsNum && rightIsNum {
		if math.IsNaN(leftNum) || math.IsNaN(rightNum) {
			return operator == TokenNotEqual, nil
		}
		return compareOrdered(leftNum, operator, rightNum), nil
	}

	if l, ok := left.(string); ok {
		if r, ok := right.(string); ok {
			return compareOrdered(l, operator, r), nil
		}
	}

	if l, ok := left.(bool); ok {
		if r, ok := right.(bool); ok {
			return compareBools(l, operator, r)
		}
	}

	return false, fmt.Errorf("%w: cannot compare %s with %s", ErrTypeMismatch, typeName(left), typeName(right))
}

// toFloat64 converts a numeric value to float64
func toFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int64:
		return float64(val), true
	default:
		return 0, false
	}
}

func compareOrdered[T int64 | float64 | string](left T, operator TokenType, right T) bool {
	switch operator {
	case TokenEqual:
		return left == right
	case TokenNotEqual:
		return left != right
	case TokenLess:
		return left < right
	case TokenGreater:
		return left > right
	case TokenLessEqual:
		return left <= right
	case TokenGreaterEqual:
		return left >= right
	default:
		return false
	}
}

// compareBools compares two booleans; only equality is defined
func compareBools(left bool, operator TokenType, right bool) (bool, error) {
	switch operator {
	case TokenEqual:
		return left == right, nil
	case TokenNotEqual:
		return left != right, nil
	default:
		return false, fmt.Errorf("%w: booleans only support = and !=", ErrTypeMismatch)
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case int64, float64:
		return "number"
	case string:
		return "string"
	case *record.Record:
		return "object"
	case []record.Value:
		return "list"
	default:
		return fmt.Sprintf("%T", v)
	}
}
