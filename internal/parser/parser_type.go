package parser

import (
	"strconv"

	"github.com/onelang/oneim/internal/ast"
	"github.com/onelang/oneim/internal/diag"
	"github.com/onelang/oneim/internal/token"
)

var primitiveKinds = map[token.Kind]ast.TypeKind{
	token.I8: ast.I8, token.I16: ast.I16, token.I32: ast.I32, token.I64: ast.I64,
	token.U8: ast.U8, token.U16: ast.U16, token.U32: ast.U32, token.U64: ast.U64,
	token.F32: ast.F32, token.F64: ast.F64,
	token.BOOL: ast.Bool, token.STR: ast.Str, token.VOID: ast.Void,
}

// parseType parses a type expression: a primitive keyword, a slice
// "[]T", an array "[N]T", or an error union "T!E" built on top of any of
// those as the ok side.
func (p *Parser) parseType() (*ast.Type, error) {
	base, err := p.parseBaseType()
	if err != nil {
		return nil, err
	}
	if p.at(token.BANG) {
		p.advance()
		errType, err := p.parseBaseType()
		if err != nil {
			return nil, err
		}
		return alloc(p, ast.Type{Kind: ast.ErrorUnion, Ok: base, Err: errType}), nil
	}
	return base, nil
}

func (p *Parser) parseBaseType() (*ast.Type, error) {
	if p.at(token.LBRACKET) {
		p.advance()
		if p.at(token.RBRACKET) {
			p.advance()
			elem, err := p.parseBaseType()
			if err != nil {
				return nil, err
			}
			return alloc(p, ast.Type{Kind: ast.SliceType, Elem: elem}), nil
		}
		lenTok, err := p.expect(token.INT)
		if err != nil {
			return nil, err
		}
		n, _ := strconv.Atoi(lenTok.Lexeme)
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		elem, err := p.parseBaseType()
		if err != nil {
			return nil, err
		}
		return alloc(p, ast.Type{Kind: ast.ArrayType, Len: n, Elem: elem}), nil
	}

	kind, ok := primitiveKinds[p.cur().Kind]
	if !ok {
		return nil, p.errorf(diag.Syntactic, "expected a type, got %q", p.cur().Lexeme)
	}
	p.advance()
	return ast.PrimitiveByKind(kind), nil
}
