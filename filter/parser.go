package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser parses filter expressions into an AST
type Parser struct {
	tokens []Token
	pos    int
	depth  int
}

// NewParser creates a new parser
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() {
	p.pos++
}

// enter tracks nesting of parentheses and NOT so hostile input cannot
// exhaust the stack.
func (p *Parser) enter() error {
	p.depth++
	if p.depth > MaxExpressionDepth {
		return fmt.Errorf("%w: %d (max %d)", ErrExpressionTooDeep, p.depth, MaxExpressionDepth)
	}
	return nil
}

func (p *Parser) exit() {
	p.depth--
}

func (p *Parser) errorf(format string, args ...any) error {
	tok := p.current()
	return fmt.Errorf("%w at position %d: %s", ErrSyntax, tok.Pos+1, fmt.Sprintf(format, args...))
}

// Parse parses a filter expression
func Parse(input string) (Expression, error) {
	if err := ValidateExpression(input); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}

	tokens := Tokenize(input)
	if err := ValidateTokens(tokens); err != nil {
		return nil, err
	}

	p := NewParser(tokens)
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.current().Type != TokenEOF {
		return nil, p.errorf("unexpected %s", describe(p.current()))
	}
	return expr, nil
}

// parseOr parses OR expressions (lowest precedence)
func (p *Parser) parseOr() (Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Operator: TokenOr, Right: right}
	}

	return left, nil
}

// parseAnd parses AND expressions (higher precedence than OR)
func (p *Parser) parseAnd() (Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenAnd {
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Operator: TokenAnd, Right: right}
	}

	return left, nil
}

// parseUnary parses NOT and parenthesised groups
func (p *Parser) parseUnary() (Expression, error) {
	switch p.current().Type {
	case TokenNot:
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.exit()

		p.advance()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &NotExpr{Inner: inner}, nil

	case TokenLParen:
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.exit()

		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.current().Type != TokenRParen {
			return nil, p.errorf("expected ), got %s", describe(p.current()))
		}
		p.advance()
		return inner, nil
	}

	return p.parseComparison()
}

// parseComparison parses `column op value` and `column IS [NOT] NULL`
func (p *Parser) parseComparison() (Expression, error) {
	if p.current().Type != TokenIdent {
		return nil, p.errorf("expected column name, got %s", describe(p.current()))
	}
	column := p.current().Value
	if err := ValidateColumnName(column); err != nil {
		return nil, err
	}
	path := []string{column}
	if !p.current().Quoted {
		path = strings.Split(column, ".")
		for _, part := range path {
			if part == "" {
				return nil, p.errorf("invalid column name %q", column)
			}
		}
	}
	p.advance()

	operator := p.current().Type
	switch operator {
	case TokenIs:
		p.advance()
		negate := false
		if p.current().Type == TokenNot {
			negate = true
			p.advance()
		}
		if p.current().Type != TokenNull {
			return nil, p.errorf("expected NULL after IS, got %s", describe(p.current()))
		}
		p.advance()
		return &NullExpr{Column: column, Path: path, Negate: negate}, nil

	case TokenEqual, TokenNotEqual, TokenLess, TokenGreater, TokenLessEqual, TokenGreaterEqual:
		p.advance()

	default:
		return nil, p.errorf("expected comparison operator after %s, got %s", column, describe(p.current()))
	}

	value, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	if value == nil && operator != TokenEqual && operator != TokenNotEqual {
		return nil, p.errorf("NULL can only be compared with = or !=")
	}

	return &ComparisonExpr{
		Column:   column,
		Path:     path,
		Operator: operator,
		Value:    value,
	}, nil
}

func (p *Parser) parseLiteral() (any, error) {
	tok := p.current()
	switch tok.Type {
	case TokenString:
		p.advance()
		return tok.Value, nil
	case TokenNumber:
		// Try to parse as int first, then float
		if intVal, err := strconv.ParseInt(tok.Value, 10, 64); err == nil {
			p.advance()
			return intVal, nil
		}
		floatVal, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, p.errorf("invalid number %s", tok.Value)
		}
		p.advance()
		return floatVal, nil
	case TokenBool:
		p.advance()
		return strings.EqualFold(tok.Value, "true"), nil
	case TokenNull:
		p.advance()
		return nil, nil
	default:
		return nil, p.errorf("expected value (string, number, boolean or NULL), got %s", describe(tok))
	}
}

func describe(tok Token) string {
	switch tok.Type {
	case TokenEOF:
		return "end of expression"
	case TokenError:
		return fmt.Sprintf("invalid input %q", tok.Value)
	case TokenString:
		return fmt.Sprintf("string %q", tok.Value)
	case TokenIdent, TokenNumber, TokenBool:
		return fmt.Sprintf("%s %s", tok.Type, tok.Value)
	default:
		return fmt.Sprintf("%q", tok.Value)
	}
}
