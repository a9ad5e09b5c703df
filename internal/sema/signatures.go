package sema

import (
	"github.com/onelang/oneim/internal/ast"
)

// collectSignatures registers every top-level function definition before
// any body is checked, so calls may reference functions defined later in
// the file.
func (a *analyzer) collectSignatures(prog *ast.Program) error {
	for _, stmt := range prog.Stmts {
		fn, ok := stmt.(*ast.FunctionDef)
		if !ok {
			continue
		}
		if _, dup := a.sigs[fn.Name]; dup {
			return a.errf(fn.Pos, "function %q is already defined", fn.Name)
		}
		a.sigs[fn.Name] = &Signature{Params: fn.Params, ReturnType: fn.ReturnType}
	}
	return nil
}

// inferReturnTypes resolves every function whose ReturnType annotation was
// omitted by unifying the types of every `return <expr>` in its body, in
// one pass rather than two independent inference passes. A function that
// mixes bare `return` with value-returning `return` is rejected. A
// function with no return statements at all is void.
func (a *analyzer) inferReturnTypes(prog *ast.Program) error {
	for _, stmt := range prog.Stmts {
		fn, ok := stmt.(*ast.FunctionDef)
		if !ok || fn.ReturnType != nil {
			continue
		}
		sig := a.sigs[fn.Name]
		sawValue := false
		sawBare := false
		var inferred *ast.Type
		mismatch := false

		paramScope := make(scope, len(fn.Params))
		for _, p := range fn.Params {
			paramScope[p.Name] = p.Type
		}

		var walk func(stmts []ast.Stmt)
		walk = func(stmts []ast.Stmt) {
			for _, s := range stmts {
				switch v := s.(type) {
				case *ast.ReturnStmt:
					if v.Value == nil {
						sawBare = true
						continue
					}
					sawValue = true
					t := a.inferExprType(paramScope, v.Value)
					switch {
					case inferred == nil:
						inferred = t
					case t != nil && !ast.Equal(inferred, t):
						mismatch = true
					}
				case *ast.IfStmt:
					walk(v.Then)
					for _, ei := range v.ElseIfs {
						walk(ei.Body)
					}
					walk(v.Else)
				case *ast.WhileLoop:
					walk(v.Body)
				case *ast.ForLoop:
					walk(v.Body)
				case *ast.ParallelBlock:
					walk(v.Body)
				case *ast.TryCatch:
					walk(v.CatchBody)
				}
			}
		}
		walk(fn.Body)

		if sawValue && sawBare {
			return a.errf(fn.Pos, "function %q mixes bare return with value-returning return", fn.Name)
		}
		if !sawValue {
			sig.ReturnType = ast.VoidType
			sig.Inferred = true
			continue
		}
		if mismatch || inferred == nil {
			return a.errf(fn.Pos, "function %q returns values of inconsistent or undeterminable types", fn.Name)
		}
		sig.ReturnType = inferred
		sig.Inferred = true
	}
	return nil
}

// inferExprType gives a best-effort static type to an expression without
// running the full checker (which needs a fixed return type for try-expr
// legality). It never records into a.types/a.decls and never returns an
// error: an expression it cannot type yields nil, which the caller treats
// as "consistent with anything". The real, authoritative type comes from
// checkExpr once every signature is fixed.
func (a *analyzer) inferExprType(sc scope, e ast.Expr) *ast.Type {
	switch v := e.(type) {
	case *ast.IntLiteral:
		return ast.I32Type
	case *ast.FloatLiteral:
		return ast.F64Type
	case *ast.StringLiteral:
		return ast.StrType
	case *ast.BoolLiteral:
		return ast.BoolType
	case *ast.NullLiteral:
		return nil
	case *ast.Variable:
		if t, ok := sc[v.Name]; ok {
			return t
		}
		return nil
	case *ast.UnaryOp:
		return a.inferExprType(sc, v.Operand)
	case *ast.BinaryOp:
		switch v.Op {
		case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte, ast.BoolAnd, ast.BoolOr:
			return ast.BoolType
		default:
			l := a.inferExprType(sc, v.Left)
			if l != nil {
				return l
			}
			return a.inferExprType(sc, v.Right)
		}
	case *ast.Call:
		switch v.Callee {
		case "print":
			return ast.VoidType
		case "len":
			return ast.I32Type
		}
		if callee, ok := a.sigs[v.Callee]; ok {
			return callee.ReturnType
		}
		return nil
	case *ast.IndexExpr:
		t := a.inferExprType(sc, v.Target)
		if t != nil && (t.Kind == ast.ArrayType || t.Kind == ast.SliceType) {
			return t.Elem
		}
		return nil
	case *ast.ArrayLiteral:
		if len(v.Elements) == 0 {
			return nil
		}
		elem := a.inferExprType(sc, v.Elements[0])
		if elem == nil {
			return nil
		}
		return &ast.Type{Kind: ast.ArrayType, Len: len(v.Elements), Elem: elem}
	case *ast.TryExpr:
		t := a.inferExprType(sc, v.Expr)
		if t != nil && t.Kind == ast.ErrorUnion {
			return t.Ok
		}
		return nil
	default:
		return nil
	}
}
