package parser

import (
	"github.com/onelang/oneim/internal/ast"
	"github.com/onelang/oneim/internal/diag"
	"github.com/onelang/oneim/internal/token"
)

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.cur().Kind {
	case token.SET:
		return p.parseSet()
	case token.RETURN:
		return p.parseReturn()
	case token.IF:
		return p.parseIf()
	case token.LOOP:
		return p.parseLoop()
	case token.PARALLEL:
		return p.parseParallel()
	case token.BREAK:
		return p.parseBreak()
	case token.CONTINUE:
		pos := p.pos_()
		p.advance()
		return alloc(p, ast.ContinueStmt{Pos: pos}), nil
	default:
		return p.parseExprOrTryCatchStatement()
	}
}

// parseExprOrTryCatchStatement parses a bare expression statement. When
// the expression is `try <e>` immediately followed by `catch`, it is
// folded into a try_catch statement instead of a plain expr_stmt, e.g.
// `try fail() catch err`.
func (p *Parser) parseExprOrTryCatchStatement() (ast.Stmt, error) {
	pos := p.pos_()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if tryExpr, ok := expr.(*ast.TryExpr); ok && p.at(token.CATCH) {
		p.advance()
		var catchVar string
		hasVar := false
		if p.at(token.IDENT) {
			catchVar = p.cur().Lexeme
			hasVar = true
			p.advance()
		}
		body, err := p.parseBlock(nil)
		if err != nil {
			return nil, err
		}
		return alloc(p, ast.TryCatch{Pos: pos, TryExpr: tryExpr, CatchVar: catchVar, HasVar: hasVar, CatchBody: body}), nil
	}
	return alloc(p, ast.ExprStmt{Pos: pos, Expr: expr}), nil
}

func (p *Parser) parseBreak() (ast.Stmt, error) {
	pos := p.pos_()
	p.advance()
	if p.at(token.NEWLINE) || p.atEOF() {
		return alloc(p, ast.BreakStmt{Pos: pos}), nil
	}
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return alloc(p, ast.BreakStmt{Pos: pos, Value: val}), nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	pos := p.pos_()
	p.advance()
	if p.at(token.NEWLINE) || p.atEOF() {
		return alloc(p, ast.ReturnStmt{Pos: pos}), nil
	}
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return alloc(p, ast.ReturnStmt{Pos: pos, Value: val}), nil
}

// parseSet disambiguates the four `set` constructs by one-token
// lookahead.
func (p *Parser) parseSet() (ast.Stmt, error) {
	pos := p.pos_()
	p.advance() // consume 'set'
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	name := nameTok.Lexeme

	if p.at(token.LBRACKET) {
		var target ast.Expr = alloc(p, ast.Variable{Pos: pos, Name: name})
		for p.at(token.LBRACKET) {
			ipos := p.pos_()
			p.advance()
			idx, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			target = alloc(p, ast.IndexExpr{Pos: ipos, Target: target, Index: idx})
		}
		if _, err := p.expect(token.TO); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return alloc(p, ast.IndexAssign{Pos: pos, Target: target.(*ast.IndexExpr), Value: value}), nil
	}

	switch p.cur().Kind {
	case token.TO:
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return alloc(p, ast.SetAssign{Pos: pos, Name: name, Value: value}), nil
	case token.WITH:
		p.advance()
		return p.parseFunctionDef(pos, name)
	case token.RETURNS, token.NEWLINE:
		// zero-parameter function: `set N returns T` or `set N` + block
		return p.parseFunctionDef(pos, name)
	case token.AS:
		p.advance()
		if p.at(token.FN) {
			p.advance()
			return p.parseFunctionDef(pos, name)
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.TO); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return alloc(p, ast.TypedAssign{Pos: pos, Name: name, Type: typ, Value: value}), nil
	default:
		return nil, p.errorf(diag.Syntactic, "expected 'to', 'with', or 'as' after 'set %s'", name)
	}
}

// parseFunctionDef parses the parameter list and optional "returns"
// clause shared by `set N with ...`, `set N as fn ...`, and the
// zero-parameter forms `set N returns T` and bare `set N`.
func (p *Parser) parseFunctionDef(pos ast.Pos, name string) (ast.Stmt, error) {
	var params []ast.Param
	for p.at(token.IDENT) {
		pname := p.cur().Lexeme
		p.advance()
		if _, err := p.expect(token.AS); err != nil {
			return nil, err
		}
		ptype, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: pname, Type: ptype})
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	var retType *ast.Type
	if p.at(token.RETURNS) {
		p.advance()
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		retType = t
	}
	body, err := p.parseBlock(nil)
	if err != nil {
		return nil, err
	}
	return alloc(p, ast.FunctionDef{Pos: pos, Name: name, Params: params, ReturnType: retType, Body: body}), nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	pos := p.pos_()
	p.advance()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.THEN); err != nil {
		return nil, err
	}
	thenBody, err := p.parseBlock(stopAtElse)
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Pos: pos, Condition: cond, Then: thenBody}

	for {
		p.skipNewlines()
		if !p.at(token.ELSE) {
			break
		}
		p.advance()
		if p.at(token.IF) {
			eiPos := p.pos_()
			p.advance()
			eiCond, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.THEN); err != nil {
				return nil, err
			}
			eiBody, err := p.parseBlock(stopAtElse)
			if err != nil {
				return nil, err
			}
			stmt.ElseIfs = append(stmt.ElseIfs, ast.ElseIf{Pos: eiPos, Condition: eiCond, Body: eiBody})
			continue
		}
		elseBody, err := p.parseBlock(nil)
		if err != nil {
			return nil, err
		}
		stmt.Else = elseBody
		break
	}
	return alloc(p, *stmt), nil
}

func (p *Parser) parseParallel() (ast.Stmt, error) {
	pos := p.pos_()
	p.advance() // consume 'parallel'
	switch p.cur().Kind {
	case token.FOR:
		return p.parseForLoop(pos, true)
	case token.WHILE:
		return p.parseWhileLoop(pos, true)
	default:
		body, err := p.parseBlock(nil)
		if err != nil {
			return nil, err
		}
		return alloc(p, ast.ParallelBlock{Pos: pos, Body: body}), nil
	}
}

// parseLoop handles `loop while <cond>` and `loop for <n> in <iter>`.
func (p *Parser) parseLoop() (ast.Stmt, error) {
	pos := p.pos_()
	p.advance() // consume 'loop'
	switch p.cur().Kind {
	case token.WHILE:
		return p.parseWhileLoop(pos, false)
	case token.FOR:
		return p.parseForLoop(pos, false)
	default:
		return nil, p.errorf(diag.Syntactic, "expected 'while' or 'for' after 'loop'")
	}
}

func (p *Parser) parseWhileLoop(pos ast.Pos, parallel bool) (ast.Stmt, error) {
	p.advance() // consume 'while'
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock(nil)
	if err != nil {
		return nil, err
	}
	return alloc(p, ast.WhileLoop{Pos: pos, Condition: cond, Body: body, Parallel: parallel}), nil
}

func (p *Parser) parseForLoop(pos ast.Pos, parallel bool) (ast.Stmt, error) {
	p.advance() // consume 'for'
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	iter, err := p.parseIterable()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock(nil)
	if err != nil {
		return nil, err
	}
	return alloc(p, ast.ForLoop{Pos: pos, Variable: nameTok.Lexeme, Iterable: iter, Body: body, Parallel: parallel}), nil
}
