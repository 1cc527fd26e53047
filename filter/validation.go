package filter

import (
	"errors"
	"fmt"
)

// Limits applied to untrusted expressions
const (
	// MaxExpressionLength is the maximum allowed expression length (64KiB)
	MaxExpressionLength = 64 * 1024

	// MaxTokens is the maximum number of tokens in an expression
	MaxTokens = 1000

	// MaxExpressionDepth is the maximum nesting depth of parentheses and NOT
	MaxExpressionDepth = 100

	// MaxColumnNameLength is the maximum length for a column name
	MaxColumnNameLength = 256
)

var (
	// ErrSyntax is returned when an expression cannot be parsed
	ErrSyntax = errors.New("invalid filter expression")

	// ErrExpressionTooLong is returned when input exceeds MaxExpressionLength
	ErrExpressionTooLong = errors.New("filter expression too long")

	// ErrTooManyTokens is returned when input has too many tokens
	ErrTooManyTokens = errors.New("too many tokens in filter expression")

	// ErrExpressionTooDeep is returned when nesting exceeds MaxExpressionDepth
	ErrExpressionTooDeep = errors.New("filter expression nesting too deep")

	// ErrColumnNameTooLong is returned when a column name is too long
	ErrColumnNameTooLong = errors.New("column name too long")

	// ErrTypeMismatch is returned when a field cannot be compared with a literal
	ErrTypeMismatch = errors.New("type mismatch")
)

// ValidateExpression checks the raw expression length
func ValidateExpression(input string) error {
	if len(input) > MaxExpressionLength {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrExpressionTooLong, len(input), MaxExpressionLength)
	}
	return nil
}

// ValidateColumnName validates column name length
func ValidateColumnName(name string) error {
	if len(name) > MaxColumnNameLength {
		return fmt.Errorf("%w: %d chars (max %d)", ErrColumnNameTooLong, len(name), MaxColumnNameLength)
	}
	return nil
}

// ValidateTokens validates token count
func ValidateTokens(tokens []Token) error {
	if len(tokens) > MaxTokens {
		return fmt.Errorf("%w: %d tokens (max %d)", ErrTooManyTokens, len(tokens), MaxTokens)
	}
	return nil
}
