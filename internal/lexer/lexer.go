// Package lexer turns oneim source text into a flat token stream.
//
// The lexer emits only a NEWLINE token for significant line breaks; there
// are no INDENT/DEDENT tokens. Every token carries a 1-indexed column,
// which is what the parser uses to delimit blocks (see internal/parser).
package lexer

import (
	"fmt"

	"github.com/onelang/oneim/internal/diag"
	"github.com/onelang/oneim/internal/token"
)

// Lexer scans a borrowed source buffer and produces tokens on demand.
type Lexer struct {
	input     string
	pos       int
	line      int
	col       int
	lineStart int
}

func New(input string) *Lexer {
	return &Lexer{input: input, pos: 0, line: 1, col: 1, lineStart: 0}
}

func (l *Lexer) peekByte() byte {
	if l.pos < len(l.input) {
		return l.input[l.pos]
	}
	return 0
}

func (l *Lexer) peekAhead(n int) byte {
	if l.pos+n < len(l.input) {
		return l.input[l.pos+n]
	}
	return 0
}

func (l *Lexer) advance() {
	if l.pos < len(l.input) {
		l.pos++
	}
}

// Next returns the next token in the stream. Once it returns a token with
// Kind == token.EOF, every subsequent call returns the same EOF token.
func (l *Lexer) Next() (token.Token, error) {
	for {
		// skip whitespace, except newline
		for l.pos < len(l.input) {
			c := l.input[l.pos]
			if c == ' ' || c == '\t' || c == '\r' {
				l.pos++
				continue
			}
			break
		}

		// line comments: "#" to end of line
		if l.peekByte() == '#' {
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
			continue
		}
		break
	}

	col := l.pos - l.lineStart + 1

	if l.pos >= len(l.input) {
		return token.Token{Kind: token.EOF, Line: l.line, Col: col}, nil
	}

	ch := l.input[l.pos]

	if ch == '\n' {
		l.pos++
		tok := token.Token{Kind: token.NEWLINE, Lexeme: "\n", Line: l.line, Col: col}
		l.line++
		l.lineStart = l.pos
		return tok, nil
	}

	if ch == '"' {
		return l.lexString(col)
	}

	if isDigit(ch) {
		return l.lexNumber(col), nil
	}

	if isIdentStart(ch) {
		return l.lexIdentOrKeyword(col), nil
	}

	return l.lexOperator(col)
}

func (l *Lexer) lexString(col int) (token.Token, error) {
	startLine, startCol := l.line, col
	l.pos++ // opening quote
	start := l.pos
	for l.pos < len(l.input) && l.input[l.pos] != '"' {
		if l.input[l.pos] == '\\' && l.pos+1 < len(l.input) {
			l.pos += 2
			continue
		}
		if l.input[l.pos] == '\n' {
			// newlines inside a string literal do not terminate it but do
			// advance line bookkeeping so later tokens report correctly.
			l.line++
			l.lineStart = l.pos + 1
		}
		l.pos++
	}
	if l.pos >= len(l.input) {
		return token.Token{}, diag.New(diag.Lexical, diag.Location{Line: startLine, Col: startCol}, "unterminated string literal")
	}
	lexeme := l.input[start:l.pos]
	l.pos++ // closing quote
	return token.Token{Kind: token.STRING, Lexeme: lexeme, Line: startLine, Col: startCol}, nil
}

func (l *Lexer) lexNumber(col int) token.Token {
	start := l.pos
	isFloat := false
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.input) && l.input[l.pos] == '.' && l.peekAhead(1) != '.' && isDigit(l.peekAhead(1)) {
		isFloat = true
		l.pos++ // consume '.'
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
	}
	kind := token.INT
	if isFloat {
		kind = token.FLOAT
	}
	return token.Token{Kind: kind, Lexeme: l.input[start:l.pos], Line: l.line, Col: col}
}

func (l *Lexer) lexIdentOrKeyword(col int) token.Token {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.pos++
	}
	lexeme := l.input[start:l.pos]
	if kind, ok := token.Keywords[lexeme]; ok {
		return token.Token{Kind: kind, Lexeme: lexeme, Line: l.line, Col: col}
	}
	return token.Token{Kind: token.IDENT, Lexeme: lexeme, Line: l.line, Col: col}
}

// twoCharOps lists every two-character operator, checked greedily before
// any single-character fallback.
var twoCharOps = map[string]token.Kind{
	"==": token.EQ, "!=": token.NEQ, "<=": token.LTE, ">=": token.GTE,
	"..": token.DOTDOT,
}

func (l *Lexer) lexOperator(col int) (token.Token, error) {
	line := l.line
	if l.pos+1 < len(l.input) {
		two := l.input[l.pos : l.pos+2]
		if two == ".." && l.pos+2 < len(l.input) && l.input[l.pos+2] == '=' {
			l.pos += 3
			return token.Token{Kind: token.DOTDOTEQ, Lexeme: "..=", Line: line, Col: col}, nil
		}
		if kind, ok := twoCharOps[two]; ok {
			l.pos += 2
			return token.Token{Kind: kind, Lexeme: two, Line: line, Col: col}, nil
		}
	}

	ch := l.input[l.pos]
	single, ok := singleCharOps[ch]
	if !ok {
		l.pos++
		return token.Token{}, diag.New(diag.Lexical, diag.Location{Line: line, Col: col}, "unexpected character %q", ch)
	}
	l.pos++
	return token.Token{Kind: single, Lexeme: string(ch), Line: line, Col: col}, nil
}

var singleCharOps = map[byte]token.Kind{
	'(': token.LPAREN, ')': token.RPAREN,
	'[': token.LBRACKET, ']': token.RBRACKET,
	'{': token.LBRACE, '}': token.RBRACE,
	',': token.COMMA, '.': token.DOT, ':': token.COLON,
	'+': token.PLUS, '-': token.MINUS, '*': token.STAR, '/': token.SLASH, '%': token.PERCENT,
	'<': token.LT, '>': token.GT, '=': token.ASSIGN, '!': token.BANG,
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }

// All lexes the entire input into a flat slice terminated by one EOF
// token, stopping at the first lexical error.
func All(input string) ([]token.Token, error) {
	l := New(input)
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}
