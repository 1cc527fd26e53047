// Package filter implements the row predicate language used by --where.
//
// An expression compares record fields against literals and combines the
// comparisons with AND, OR, NOT and parentheses:
//
//	age >= 30 and (country = 'NL' or vip = true)
//	address.city != "Berlin"
//	email is not null
//
// Dotted names descend into nested records. Keywords are case-insensitive.
//
// Example usage:
//
//	expr, err := filter.Parse("age > 30")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s = filter.Apply(s, expr)
package filter

// TokenType represents the type of a token
type TokenType int

const (
	// Keywords
	TokenAnd TokenType = iota
	TokenOr
	TokenNot
	TokenIs
	TokenNull

	// Operators
	TokenEqual        // =
	TokenNotEqual     // != or <>
	TokenLess         // <
	TokenGreater      // >
	TokenLessEqual    // <=
	TokenGreaterEqual // >=

	// Punctuation
	TokenLParen
	TokenRParen

	// Literals
	TokenString
	TokenNumber
	TokenIdent
	TokenBool

	// Special
	TokenEOF
	TokenError
)

var tokenNames = [...]string{
	TokenAnd:          "AND",
	TokenOr:           "OR",
	TokenNot:          "NOT",
	TokenIs:           "IS",
	TokenNull:         "NULL",
	TokenEqual:        "=",
	TokenNotEqual:     "!=",
	TokenLess:         "<",
	TokenGreater:      ">",
	TokenLessEqual:    "<=",
	TokenGreaterEqual: ">=",
	TokenLParen:       "(",
	TokenRParen:       ")",
	TokenString:       "string",
	TokenNumber:       "number",
	TokenIdent:        "column name",
	TokenBool:         "boolean",
	TokenEOF:          "end of expression",
	TokenError:        "invalid character",
}

func (t TokenType) String() string {
	if t < 0 || int(t) >= len(tokenNames) {
		return "unknown"
	}
	return tokenNames[t]
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
	Pos   int

	// Quoted is set for backquoted column names, which are never split on
	// dots.
	Quoted bool
}
