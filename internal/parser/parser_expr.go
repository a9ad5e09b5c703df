package parser

import (
	"strconv"

	"github.com/onelang/oneim/internal/ast"
	"github.com/onelang/oneim/internal/diag"
	"github.com/onelang/oneim/internal/token"
)

// parseExpression is the entry point for expression parsing: precedence
// climbing from "or" (lowest) down to primaries (highest).
func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(token.OR) {
		pos := p.pos_()
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = alloc(p, ast.BinaryOp{Pos: pos, Op: ast.BoolOr, Left: left, Right: right})
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.at(token.AND) {
		pos := p.pos_()
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = alloc(p, ast.BinaryOp{Pos: pos, Op: ast.BoolAnd, Left: left, Right: right})
	}
	return left, nil
}

var comparisonOps = map[token.Kind]ast.BinOp{
	token.EQ: ast.OpEq, token.NEQ: ast.OpNeq,
	token.LT: ast.OpLt, token.LTE: ast.OpLte,
	token.GT: ast.OpGt, token.GTE: ast.OpGte,
}

// parseComparison allows at most one comparison operator between a pair
// of additive sub-expressions; a second comparison operator in a row
// ("a < b < c") is a syntax error, not a semantic one.
func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	op, ok := comparisonOps[p.cur().Kind]
	if !ok {
		return left, nil
	}
	pos := p.pos_()
	p.advance()
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	result := ast.Expr(alloc(p, ast.BinaryOp{Pos: pos, Op: op, Left: left, Right: right}))
	if _, again := comparisonOps[p.cur().Kind]; again {
		return nil, p.errorf(diag.Syntactic, "comparisons do not chain")
	}
	return result, nil
}

var additiveOps = map[token.Kind]ast.BinOp{token.PLUS: ast.Add, token.MINUS: ast.Sub}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := additiveOps[p.cur().Kind]
		if !ok {
			return left, nil
		}
		pos := p.pos_()
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = alloc(p, ast.BinaryOp{Pos: pos, Op: op, Left: left, Right: right})
	}
}

var multiplicativeOps = map[token.Kind]ast.BinOp{
	token.STAR: ast.Mul, token.SLASH: ast.Div, token.PERCENT: ast.Mod,
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := multiplicativeOps[p.cur().Kind]
		if !ok {
			return left, nil
		}
		pos := p.pos_()
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = alloc(p, ast.BinaryOp{Pos: pos, Op: op, Left: left, Right: right})
	}
}

// parseUnary handles right-associative prefix "-", "not", "try", and
// "error". "try" and "error" are only semantically valid in a handful of
// positions; the parser accepts them anywhere an expression may start and
// leaves position validation to internal/sema.
func (p *Parser) parseUnary() (ast.Expr, error) {
	switch p.cur().Kind {
	case token.MINUS:
		pos := p.pos_()
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return alloc(p, ast.UnaryOp{Pos: pos, Op: ast.Negate, Operand: operand}), nil
	case token.NOT:
		pos := p.pos_()
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return alloc(p, ast.UnaryOp{Pos: pos, Op: ast.BoolNot, Operand: operand}), nil
	case token.TRY:
		pos := p.pos_()
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return alloc(p, ast.TryExpr{Pos: pos, Expr: operand}), nil
	case token.ERROR:
		pos := p.pos_()
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return alloc(p, ast.ErrorExpr{Pos: pos, Expr: operand}), nil
	default:
		return p.parsePostfix()
	}
}

// parsePostfix chains call and index operators. A call requires a bare
// identifier callee; anything else followed by "(" is rejected.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	bareName := p.at(token.IDENT)
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Kind {
		case token.LPAREN:
			v, ok := expr.(*ast.Variable)
			if !ok || !bareName {
				return nil, p.errorf(diag.Syntactic, "call target must be a plain name")
			}
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			expr = alloc(p, ast.Call{Pos: v.Pos, Callee: v.Name, Args: args})
		case token.LBRACKET:
			pos := p.pos_()
			p.advance()
			idx, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			expr = alloc(p, ast.IndexExpr{Pos: pos, Target: expr, Index: idx})
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArgs() ([]ast.Expr, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Expr
	if p.at(token.RPAREN) {
		p.advance()
		return args, nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	t := p.cur()
	switch t.Kind {
	case token.INT:
		p.advance()
		v, _ := strconv.ParseInt(t.Lexeme, 10, 64)
		return alloc(p, ast.IntLiteral{Pos: ast.Pos{Line: t.Line, Col: t.Col}, Value: v}), nil
	case token.FLOAT:
		p.advance()
		v, _ := strconv.ParseFloat(t.Lexeme, 64)
		return alloc(p, ast.FloatLiteral{Pos: ast.Pos{Line: t.Line, Col: t.Col}, Value: v}), nil
	case token.STRING:
		p.advance()
		return alloc(p, ast.StringLiteral{Pos: ast.Pos{Line: t.Line, Col: t.Col}, Value: t.Lexeme}), nil
	case token.TRUE, token.FALSE:
		p.advance()
		return alloc(p, ast.BoolLiteral{Pos: ast.Pos{Line: t.Line, Col: t.Col}, Value: t.Kind == token.TRUE}), nil
	case token.NULL:
		p.advance()
		return alloc(p, ast.NullLiteral{Pos: ast.Pos{Line: t.Line, Col: t.Col}}), nil
	case token.IDENT:
		p.advance()
		return alloc(p, ast.Variable{Pos: ast.Pos{Line: t.Line, Col: t.Col}, Name: t.Lexeme}), nil
	case token.LPAREN:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.EOF:
		return nil, p.errorf(diag.Syntactic, "unexpected end of input")
	default:
		return nil, p.errorf(diag.Syntactic, "unexpected token %q", t.Lexeme)
	}
}

func (p *Parser) parseArrayLiteral() (ast.Expr, error) {
	pos := p.pos_()
	p.advance()
	var elems []ast.Expr
	if !p.at(token.RBRACKET) {
		for {
			el, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, el)
			if p.at(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return alloc(p, ast.ArrayLiteral{Pos: pos, Elements: elems}), nil
}

// parseIterable parses the iterable clause of a `for` loop: either a
// range (a..b or a..=b), legal only here, or an arbitrary expression.
func (p *Parser) parseIterable() (ast.Expr, error) {
	pos := p.pos_()
	start, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	inclusive := false
	switch p.cur().Kind {
	case token.DOTDOT:
		p.advance()
	case token.DOTDOTEQ:
		inclusive = true
		p.advance()
	default:
		return start, nil
	}
	end, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return alloc(p, ast.Range{Pos: pos, Start: start, End: end, Inclusive: inclusive}), nil
}
