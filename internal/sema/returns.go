package sema

import "github.com/onelang/oneim/internal/ast"

// coversReturn reports whether every control-flow path through stmts ends
// in a return statement. Loops never count, since their bodies may run
// zero times; an if/else
// chain covers only when every branch covers and an else branch is
// present.
func coversReturn(stmts []ast.Stmt) bool {
	if len(stmts) == 0 {
		return false
	}
	switch last := stmts[len(stmts)-1].(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.IfStmt:
		if last.Else == nil {
			return false
		}
		if !coversReturn(last.Then) {
			return false
		}
		for _, ei := range last.ElseIfs {
			if !coversReturn(ei.Body) {
				return false
			}
		}
		return coversReturn(last.Else)
	default:
		return false
	}
}
