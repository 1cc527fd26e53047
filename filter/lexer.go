package filter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes filter expressions
type Lexer struct {
	input string
	pos   int // byte offset of ch
	next  int // byte offset after ch
	ch    rune
}

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	l.pos = l.next
	if l.next >= len(l.input) {
		l.ch = 0
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.next:])
	l.ch = r
	l.next += size
}

func (l *Lexer) peekChar() rune {
	if l.next >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.next:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// readString reads a quoted string. The second result is false when the
// closing quote is missing.
func (l *Lexer) readString(quote rune) (string, bool) {
	var result strings.Builder
	l.readChar() // skip opening quote

	for l.ch != quote && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				result.WriteRune('\n')
			case 't':
				result.WriteRune('\t')
			case 0:
				return result.String(), false
			default:
				result.WriteRune(l.ch)
			}
		} else {
			result.WriteRune(l.ch)
		}
		l.readChar()
	}

	if l.ch != quote {
		return result.String(), false
	}
	l.readChar() // skip closing quote
	return result.String(), true
}

func (l *Lexer) readNumber() string {
	start := l.pos
	if l.ch == '-' {
		l.readChar()
	}
	for unicode.IsDigit(l.ch) || l.ch == '.' || l.ch == 'e' || l.ch == 'E' ||
		((l.ch == '+' || l.ch == '-') && (l.input[l.pos-1] == 'e' || l.input[l.pos-1] == 'E')) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readIdentifier reads a column name, including dots for nested fields.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for unicode.IsLetter(l.ch) || unicode.IsDigit(l.ch) || l.ch == '_' || l.ch == '.' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// NextToken returns the next token
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	pos := l.pos
	var tok Token

	switch l.ch {
	case 0:
		tok = Token{Type: TokenEOF}
	case '(':
		tok = Token{Type: TokenLParen, Value: "("}
		l.readChar()
	case ')':
		tok = Token{Type: TokenRParen, Value: ")"}
		l.readChar()
	case '=':
		tok = Token{Type: TokenEqual, Value: "="}
		l.readChar()
		if l.ch == '=' {
			tok.Value = "=="
			l.readChar()
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenNotEqual, Value: "!="}
		} else {
			tok = Token{Type: TokenError, Value: "!"}
		}
		l.readChar()
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = Token{Type: TokenLessEqual, Value: "<="}
		case '>':
			l.readChar()
			tok = Token{Type: TokenNotEqual, Value: "<>"}
		default:
			tok = Token{Type: TokenLess, Value: "<"}
		}
		l.readChar()
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenGreaterEqual, Value: ">="}
		} else {
			tok = Token{Type: TokenGreater, Value: ">"}
		}
		l.readChar()
	case '\'', '"':
		value, ok := l.readString(l.ch)
		if !ok {
			tok = Token{Type: TokenError, Value: "unterminated string"}
		} else {
			tok = Token{Type: TokenString, Value: value}
		}
	case '`':
		// Backquoted names allow columns that are not plain identifiers.
		value, ok := l.readString('`')
		if !ok {
			tok = Token{Type: TokenError, Value: "unterminated column name"}
		} else {
			tok = Token{Type: TokenIdent, Value: value, Quoted: true}
		}
	default:
		switch {
		case unicode.IsDigit(l.ch) || (l.ch == '-' && unicode.IsDigit(l.peekChar())):
			tok = Token{Type: TokenNumber, Value: l.readNumber()}
		case unicode.IsLetter(l.ch) || l.ch == '_':
			value := l.readIdentifier()
			tok = Token{Type: identifierType(value), Value: value}
		default:
			tok = Token{Type: TokenError, Value: string(l.ch)}
			l.readChar()
		}
	}

	tok.Pos = pos
	return tok
}

var keywords = map[string]TokenType{
	"and":   TokenAnd,
	"or":    TokenOr,
	"not":   TokenNot,
	"is":    TokenIs,
	"null":  TokenNull,
	"true":  TokenBool,
	"false": TokenBool,
}

// identifierType determines if an identifier is a keyword
func identifierType(ident string) TokenType {
	if tokType, ok := keywords[strings.ToLower(ident)]; ok {
		return tokType
	}
	return TokenIdent
}

// Tokenize returns all tokens from the input, ending with the first EOF or
// error token.
func Tokenize(input string) []Token {
	lexer := NewLexer(input)
	var tokens []Token

	for {
		tok := lexer.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF || tok.Type == TokenError {
			break
		}
	}

	return tokens
}
