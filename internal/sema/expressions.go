package sema

import "github.com/onelang/oneim/internal/ast"

// checkExpr type-checks e, records its resolved concrete type into
// a.types, and returns the resolved value (which may still be an
// unpinned literal placeholder, for the caller to unify against context).
func (a *analyzer) checkExpr(e ast.Expr) (resolved, error) {
	r, err := a.checkExprInner(e)
	if err != nil {
		return resolved{}, err
	}
	a.types[e] = r.defaultType()
	return r, nil
}

func (a *analyzer) checkExprInner(e ast.Expr) (resolved, error) {
	switch v := e.(type) {
	case *ast.IntLiteral:
		return intLit, nil
	case *ast.FloatLiteral:
		return floatLit, nil
	case *ast.StringLiteral:
		return concrete(ast.StrType), nil
	case *ast.BoolLiteral:
		return concrete(ast.BoolType), nil
	case *ast.NullLiteral:
		return nullLit, nil
	case *ast.Variable:
		t, ok := a.visibleAnywhere(v.Name)
		if !ok {
			return resolved{}, a.errf(v.Pos, "undeclared variable %q%s", v.Name, suggestionSuffix(v.Name, a.allVisibleNames()))
		}
		return concrete(t), nil
	case *ast.UnaryOp:
		return a.checkUnary(v)
	case *ast.BinaryOp:
		return a.checkBinary(v)
	case *ast.Call:
		return a.checkCall(v)
	case *ast.ArrayLiteral:
		return a.checkArrayLiteral(v)
	case *ast.IndexExpr:
		return a.checkIndex(v)
	case *ast.Range:
		return a.checkRange(v)
	case *ast.TryExpr:
		return a.checkTry(v)
	case *ast.ErrorExpr:
		return resolved{}, a.errf(v.Pos, "'error' is only legal as the entire value of a return statement")
	default:
		return resolved{}, a.errf(ast.PosOf(e), "unsupported expression")
	}
}

func (a *analyzer) checkUnary(v *ast.UnaryOp) (resolved, error) {
	operand, err := a.checkExpr(v.Operand)
	if err != nil {
		return resolved{}, err
	}
	switch v.Op {
	case ast.Negate:
		t := operand.defaultType()
		if t == nil || !t.IsNumeric() {
			return resolved{}, a.errf(v.Pos, "unary '-' requires a numeric operand")
		}
		return operand, nil
	case ast.BoolNot:
		t := operand.defaultType()
		if t == nil || t.Kind != ast.Bool {
			return resolved{}, a.errf(v.Pos, "'not' requires a bool operand")
		}
		return concrete(ast.BoolType), nil
	}
	return resolved{}, a.errf(v.Pos, "unsupported unary operator")
}

func (a *analyzer) checkBinary(v *ast.BinaryOp) (resolved, error) {
	left, err := a.checkExpr(v.Left)
	if err != nil {
		return resolved{}, err
	}
	right, err := a.checkExpr(v.Right)
	if err != nil {
		return resolved{}, err
	}
	switch v.Op {
	case ast.BoolAnd, ast.BoolOr:
		lt, rt := left.defaultType(), right.defaultType()
		if lt == nil || lt.Kind != ast.Bool || rt == nil || rt.Kind != ast.Bool {
			return resolved{}, a.errf(v.Pos, "'and'/'or' require bool operands")
		}
		return concrete(ast.BoolType), nil
	case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		if _, err := combine(left, right, v.Pos, a); err != nil {
			return resolved{}, err
		}
		return concrete(ast.BoolType), nil
	default: // arithmetic
		combined, err := combine(left, right, v.Pos, a)
		if err != nil {
			return resolved{}, err
		}
		if t := combined.defaultType(); t == nil || !t.IsNumeric() {
			return resolved{}, a.errf(v.Pos, "arithmetic requires numeric operands, got %s", t)
		}
		return combined, nil
	}
}

// checkBuiltinCall handles the two reserved names (print, len) regardless
// of any user-declared function; codegen's emitBuiltinCall lowers
// them directly and never falls through to a generated call site for
// these names, so they never need a Signature entry.
func (a *analyzer) checkBuiltinCall(v *ast.Call) (resolved, bool, error) {
	switch v.Callee {
	case "print":
		if len(v.Args) != 1 {
			return resolved{}, true, a.errf(v.Pos, "'print' takes exactly one argument")
		}
		if _, err := a.checkExpr(v.Args[0]); err != nil {
			return resolved{}, true, err
		}
		return concrete(ast.VoidType), true, nil
	case "len":
		if len(v.Args) != 1 {
			return resolved{}, true, a.errf(v.Pos, "'len' takes exactly one argument")
		}
		arg, err := a.checkExpr(v.Args[0])
		if err != nil {
			return resolved{}, true, err
		}
		t := arg.defaultType()
		if t == nil || (t.Kind != ast.ArrayType && t.Kind != ast.SliceType) {
			return resolved{}, true, a.errf(v.Pos, "'len' requires an array or slice")
		}
		return concrete(ast.I32Type), true, nil
	default:
		return resolved{}, false, nil
	}
}

func (a *analyzer) checkCall(v *ast.Call) (resolved, error) {
	if r, handled, err := a.checkBuiltinCall(v); handled {
		return r, err
	}
	sig, ok := a.sigs[v.Callee]
	if !ok {
		return resolved{}, a.errf(v.Pos, "call to undeclared function %q%s", v.Callee, suggestionSuffix(v.Callee, a.allFunctionNames()))
	}
	if len(v.Args) != len(sig.Params) {
		return resolved{}, a.errf(v.Pos, "%q expects %d argument(s), got %d", v.Callee, len(sig.Params), len(v.Args))
	}
	for i, arg := range v.Args {
		ar, err := a.checkExpr(arg)
		if err != nil {
			return resolved{}, err
		}
		if _, err := unifyWithContext(sig.Params[i].Type, ar, ast.PosOf(arg), a); err != nil {
			return resolved{}, err
		}
	}
	return concrete(sig.ReturnType), nil
}

func (a *analyzer) checkArrayLiteral(v *ast.ArrayLiteral) (resolved, error) {
	if len(v.Elements) == 0 {
		return resolved{}, a.errf(v.Pos, "array literals must have at least one element")
	}
	first, err := a.checkExpr(v.Elements[0])
	if err != nil {
		return resolved{}, err
	}
	elemType := first.defaultType()
	if elemType == nil {
		return resolved{}, a.errf(ast.PosOf(v.Elements[0]), "cannot determine the element type of this array literal")
	}
	for _, el := range v.Elements[1:] {
		r, err := a.checkExpr(el)
		if err != nil {
			return resolved{}, err
		}
		if !assignable(elemType, r) {
			return resolved{}, a.errf(ast.PosOf(el), "array elements must share a single type")
		}
	}
	return concrete(&ast.Type{Kind: ast.ArrayType, Len: len(v.Elements), Elem: elemType}), nil
}

func (a *analyzer) checkIndex(v *ast.IndexExpr) (resolved, error) {
	target, err := a.checkExpr(v.Target)
	if err != nil {
		return resolved{}, err
	}
	t := target.defaultType()
	if t == nil || (t.Kind != ast.ArrayType && t.Kind != ast.SliceType) {
		return resolved{}, a.errf(v.Pos, "indexing requires an array or slice")
	}
	idx, err := a.checkExpr(v.Index)
	if err != nil {
		return resolved{}, err
	}
	idxT := idx.defaultType()
	if idxT == nil || !idxT.IsInteger() {
		return resolved{}, a.errf(ast.PosOf(v.Index), "index must be an integer")
	}
	return concrete(t.Elem), nil
}

func (a *analyzer) checkRange(v *ast.Range) (resolved, error) {
	start, err := a.checkExpr(v.Start)
	if err != nil {
		return resolved{}, err
	}
	end, err := a.checkExpr(v.End)
	if err != nil {
		return resolved{}, err
	}
	combined, err := combine(start, end, v.Pos, a)
	if err != nil {
		return resolved{}, err
	}
	if t := combined.defaultType(); t == nil || !t.IsInteger() {
		return resolved{}, a.errf(v.Pos, "range bounds must be integers")
	}
	return combined, nil
}

// checkTry validates that v's inner expression is an error union whose err
// side matches the enclosing function's own err side; the position
// legality of the try itself (that it sits
// directly in an assignment/return/expr-statement root, not nested deeper)
// is enforced by the statement-level checks that call this, not here.
func (a *analyzer) checkTry(v *ast.TryExpr) (resolved, error) {
	inner, err := a.checkExpr(v.Expr)
	if err != nil {
		return resolved{}, err
	}
	t := inner.defaultType()
	if t == nil || t.Kind != ast.ErrorUnion {
		return resolved{}, a.errf(v.Pos, "'try' requires an error-union-typed expression")
	}
	if a.fn == nil || a.fn.ReturnType == nil || a.fn.ReturnType.Kind != ast.ErrorUnion {
		return resolved{}, a.errf(v.Pos, "'try' is only legal inside a function returning an error union")
	}
	if !ast.Equal(a.fn.ReturnType.Err, t.Err) {
		return resolved{}, a.errf(v.Pos, "'try' propagates %s but the enclosing function returns %s", t.Err, a.fn.ReturnType.Err)
	}
	return concrete(t.Ok), nil
}
