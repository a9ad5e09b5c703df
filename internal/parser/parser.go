// Package parser implements a recursive-descent parser: one-token
// lookahead statement dispatch, precedence climbing for expressions,
// and column-dedent block delimitation.
//
// Built around per-construct parseX methods with current/peek lookahead
// and expect/match helpers, over oneim's "set ... to/with/as",
// "loop while/for", "try ... catch" surface syntax.
package parser

import (
	"github.com/onelang/oneim/internal/ast"
	"github.com/onelang/oneim/internal/diag"
	"github.com/onelang/oneim/internal/lexer"
	"github.com/onelang/oneim/internal/token"
)

// Parser consumes a pre-lexed token stream and builds a Program rooted
// in a single Arena.
type Parser struct {
	toks  []token.Token
	pos   int
	arena *ast.Arena
}

// Parse lexes and parses a complete source file, returning the Program
// and the Arena that owns it, or the first diag.Error encountered.
func Parse(source string) (*ast.Program, *ast.Arena, error) {
	toks, err := lexer.All(source)
	if err != nil {
		return nil, nil, err
	}
	p := &Parser{toks: toks, arena: ast.NewArena()}
	prog, perr := p.parseProgram()
	if perr != nil {
		return nil, nil, perr
	}
	return prog, p.arena, nil
}

func (p *Parser) cur() token.Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return token.Token{Kind: token.EOF}
}

func (p *Parser) peekAt(n int) token.Token {
	idx := p.pos + n
	if idx < len(p.toks) {
		return p.toks[idx]
	}
	return token.Token{Kind: token.EOF}
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	} else {
		p.pos = len(p.toks) - 1
		if p.pos < 0 {
			p.pos = 0
		}
	}
	return t
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) atEOF() bool { return p.cur().Kind == token.EOF }

func (p *Parser) pos_() ast.Pos {
	t := p.cur()
	return ast.Pos{Line: t.Line, Col: t.Col}
}

func (p *Parser) errorf(cat diag.Category, format string, args ...interface{}) error {
	t := p.cur()
	return diag.New(cat, diag.Location{Line: t.Line, Col: t.Col}, format, args...)
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if !p.at(k) {
		if p.atEOF() {
			return token.Token{}, p.errorf(diag.Syntactic, "unexpected end of input, expected %s", k)
		}
		return token.Token{}, p.errorf(diag.Syntactic, "unexpected token %q, expected %s", p.cur().Lexeme, k)
	}
	return p.advance(), nil
}

func (p *Parser) skipNewlines() {
	for p.at(token.NEWLINE) {
		p.advance()
	}
}

// alloc is a thin convenience wrapper so statement/expression parsing
// code reads as `alloc(p, ast.SetAssign{...})` instead of threading the
// arena explicitly at every call site.
func alloc[T any](p *Parser, v T) *T {
	return ast.Alloc(p.arena, v)
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	p.skipNewlines()
	var stmts []ast.Stmt
	for !p.atEOF() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		p.skipNewlines()
	}
	return alloc(p, ast.Program{Stmts: stmts}), nil
}

// stopSet is a small set of token kinds that end a block early, used for
// then-bodies and else-if-bodies (both stop at ELSE).
type stopSet map[token.Kind]bool

func (s stopSet) has(k token.Kind) bool { return s != nil && s[k] }

var stopAtElse = stopSet{token.ELSE: true}

// parseBlock implements the column-dedent rule: skip newlines, anchor on
// the column of the first statement, then keep consuming statements
// whose column is >= the anchor until a smaller column, EOF, or a token
// in stop is seen.
func (p *Parser) parseBlock(stop stopSet) ([]ast.Stmt, error) {
	p.skipNewlines()
	if p.atEOF() || stop.has(p.cur().Kind) {
		return nil, nil
	}
	anchor := p.cur().Col
	var stmts []ast.Stmt
	for {
		if p.atEOF() || stop.has(p.cur().Kind) {
			break
		}
		if p.cur().Col < anchor {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		p.skipNewlines()
	}
	return stmts, nil
}

