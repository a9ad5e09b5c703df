package sema

import "github.com/onelang/oneim/internal/ast"

func (a *analyzer) checkStmt(s ast.Stmt) error {
	switch v := s.(type) {
	case *ast.SetAssign:
		return a.checkSetAssign(v)
	case *ast.TypedAssign:
		return a.checkTypedAssign(v)
	case *ast.IndexAssign:
		return a.checkIndexAssign(v)
	case *ast.FunctionDef:
		return a.checkFunctionDef(v)
	case *ast.ReturnStmt:
		return a.checkReturn(v)
	case *ast.IfStmt:
		return a.checkIf(v)
	case *ast.WhileLoop:
		return a.checkWhile(v)
	case *ast.ForLoop:
		return a.checkFor(v)
	case *ast.ParallelBlock:
		return a.checkParallelBlock(v)
	case *ast.BreakStmt:
		return a.checkBreak(v)
	case *ast.ContinueStmt:
		if a.loopDepth == 0 {
			return a.errf(v.Pos, "'continue' used outside of a loop")
		}
		return nil
	case *ast.TryCatch:
		return a.checkTryCatch(v)
	case *ast.ExprStmt:
		if err := a.forbidNestedTry(v.Expr, true); err != nil {
			return err
		}
		_, err := a.checkExpr(v.Expr)
		return err
	default:
		return a.errf(ast.Pos{}, "unsupported statement")
	}
}

// forbidNestedTry enforces that a `try` expression only ever appears as
// the entire value of a set/typed assignment, return, or expression
// statement — never buried inside a call argument, binary operand,
// index, or array element. allowHere is true exactly at the root call
// for one of those three positions.
func (a *analyzer) forbidNestedTry(e ast.Expr, allowHere bool) error {
	if e == nil {
		return nil
	}
	if te, ok := e.(*ast.TryExpr); ok {
		if !allowHere {
			return a.errf(te.Pos, "'try' is only legal as the entire value of a set, return, or expression statement")
		}
		return a.forbidNestedTry(te.Expr, false)
	}
	switch v := e.(type) {
	case *ast.BinaryOp:
		if err := a.forbidNestedTry(v.Left, false); err != nil {
			return err
		}
		return a.forbidNestedTry(v.Right, false)
	case *ast.UnaryOp:
		return a.forbidNestedTry(v.Operand, false)
	case *ast.Call:
		for _, arg := range v.Args {
			if err := a.forbidNestedTry(arg, false); err != nil {
				return err
			}
		}
	case *ast.ArrayLiteral:
		for _, el := range v.Elements {
			if err := a.forbidNestedTry(el, false); err != nil {
				return err
			}
		}
	case *ast.IndexExpr:
		if err := a.forbidNestedTry(v.Target, false); err != nil {
			return err
		}
		return a.forbidNestedTry(v.Index, false)
	case *ast.Range:
		if err := a.forbidNestedTry(v.Start, false); err != nil {
			return err
		}
		return a.forbidNestedTry(v.End, false)
	}
	return nil
}

func (a *analyzer) checkSetAssign(v *ast.SetAssign) error {
	if err := a.forbidNestedTry(v.Value, true); err != nil {
		return err
	}
	r, err := a.checkExpr(v.Value)
	if err != nil {
		return err
	}
	if existing, ok := a.visibleAnywhere(v.Name); ok {
		if existing.Kind == ast.ArrayType {
			return a.errf(v.Pos, "%q is array-typed and cannot be reassigned", v.Name)
		}
		// Reassigning an error-union-typed name only accepts another
		// value of that exact union (e.g. another call returning it);
		// assignable rejects a bare Ok/Err-side value outright, since
		// nothing in the grammar can produce one here.
		if !assignable(existing, r) {
			return a.errf(v.Pos, "cannot assign this value to %q of type %s", v.Name, existing)
		}
		a.decls[v] = existing
		a.declares[v] = false
		return nil
	}
	t := r.defaultType()
	if t == nil {
		return a.errf(v.Pos, "cannot determine the type of %q", v.Name)
	}
	if err := a.declareInCurrent(v.Pos, v.Name, t); err != nil {
		return err
	}
	a.decls[v] = t
	a.declares[v] = true
	return nil
}

func (a *analyzer) checkTypedAssign(v *ast.TypedAssign) error {
	if err := validateType(v.Type, v.Pos, a); err != nil {
		return err
	}
	if err := a.forbidNestedTry(v.Value, true); err != nil {
		return err
	}
	r, err := a.checkExpr(v.Value)
	if err != nil {
		return err
	}
	// Same restriction as checkSetAssign's reassignment path: an
	// error-union-typed declaration unifies only against a value of that
	// exact union, never a bare Ok/Err-side literal.
	if _, err := unifyWithContext(v.Type, r, v.Pos, a); err != nil {
		return err
	}
	if err := a.declareInCurrent(v.Pos, v.Name, v.Type); err != nil {
		return err
	}
	a.decls[v] = v.Type
	a.declares[v] = true
	return nil
}

func (a *analyzer) checkIndexAssign(v *ast.IndexAssign) error {
	targetR, err := a.checkExpr(v.Target)
	if err != nil {
		return err
	}
	elemType := targetR.defaultType()
	if err := a.forbidNestedTry(v.Value, true); err != nil {
		return err
	}
	valR, err := a.checkExpr(v.Value)
	if err != nil {
		return err
	}
	if elemType == nil || !assignable(elemType, valR) {
		return a.errf(v.Pos, "cannot assign this value to an element of type %s", elemType)
	}
	return nil
}

func (a *analyzer) checkFunctionDef(fn *ast.FunctionDef) error {
	sig, ok := a.sigs[fn.Name]
	if !ok {
		return a.errf(fn.Pos, "function %q was not collected as a top-level signature", fn.Name)
	}
	if err := validateType(sig.ReturnType, fn.Pos, a); err != nil {
		return err
	}
	prevFn := a.fn
	a.fn = sig
	a.pushScope()
	for _, p := range fn.Params {
		if err := validateType(p.Type, fn.Pos, a); err != nil {
			a.popScope()
			a.fn = prevFn
			return err
		}
		if err := a.declareInCurrent(fn.Pos, p.Name, p.Type); err != nil {
			a.popScope()
			a.fn = prevFn
			return err
		}
	}
	for _, s := range fn.Body {
		if err := a.checkStmt(s); err != nil {
			a.popScope()
			a.fn = prevFn
			return err
		}
	}
	a.popScope()
	a.fn = prevFn
	if sig.ReturnType.Kind != ast.Void && !coversReturn(fn.Body) {
		return a.errf(fn.Pos, "function %q does not return a value on every path", fn.Name)
	}
	return nil
}

func (a *analyzer) checkReturn(v *ast.ReturnStmt) error {
	if a.fn == nil {
		return a.errf(v.Pos, "'return' used outside of a function")
	}
	if v.Value == nil {
		if a.fn.ReturnType.Kind != ast.Void {
			return a.errf(v.Pos, "bare 'return' in a function that returns %s", a.fn.ReturnType)
		}
		return nil
	}
	if a.fn.ReturnType.Kind == ast.Void {
		return a.errf(v.Pos, "'return' with a value in a void function")
	}
	// `error <e>` builds the Err side of an error-union return directly;
	// it only has a type once pinned against this function's own Err
	// side, so it is checked here rather than through checkExpr.
	if ee, isErr := v.Value.(*ast.ErrorExpr); isErr {
		if err := a.forbidNestedTry(ee.Expr, false); err != nil {
			return err
		}
		if a.fn.ReturnType.Kind != ast.ErrorUnion {
			return a.errf(ee.Pos, "'error' can only be returned from a function returning an error union")
		}
		r, err := a.checkExpr(ee.Expr)
		if err != nil {
			return err
		}
		_, err = unifyWithContext(a.fn.ReturnType.Err, r, ee.Pos, a)
		return err
	}
	if err := a.forbidNestedTry(v.Value, true); err != nil {
		return err
	}
	// checkTry already verified the try's err side against this
	// function's own err side; its ok side still has to match here,
	// since the returned value gets rewrapped through this function's
	// own _ok constructor.
	if _, isTry := v.Value.(*ast.TryExpr); isTry {
		r, err := a.checkExpr(v.Value)
		if err != nil {
			return err
		}
		if a.fn.ReturnType.Kind != ast.ErrorUnion || !ast.Equal(a.fn.ReturnType.Ok, r.T) {
			return a.errf(v.Pos, "'try' result type %s does not match the enclosing function's ok type", r.T)
		}
		return nil
	}
	r, err := a.checkExpr(v.Value)
	if err != nil {
		return err
	}
	// A value that is already of the function's own error-union type (e.g.
	// a variable last assigned from a call returning that same union, or a
	// direct call to another function returning it) passes through as-is;
	// codegen must not rewrap it through _ok. Anything else is checked
	// against the Ok side and gets wrapped at codegen time.
	if a.fn.ReturnType.Kind == ast.ErrorUnion && r.T != nil && ast.Equal(r.T, a.fn.ReturnType) {
		return nil
	}
	expect := a.fn.ReturnType
	if expect.Kind == ast.ErrorUnion {
		expect = expect.Ok
	}
	_, err = unifyWithContext(expect, r, v.Pos, a)
	return err
}

func (a *analyzer) checkIf(v *ast.IfStmt) error {
	if err := a.checkCondition(v.Condition); err != nil {
		return err
	}
	if err := a.checkBlock(v.Then); err != nil {
		return err
	}
	for _, ei := range v.ElseIfs {
		if err := a.checkCondition(ei.Condition); err != nil {
			return err
		}
		if err := a.checkBlock(ei.Body); err != nil {
			return err
		}
	}
	if v.Else != nil {
		if err := a.checkBlock(v.Else); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) checkCondition(cond ast.Expr) error {
	if err := a.forbidNestedTry(cond, false); err != nil {
		return err
	}
	r, err := a.checkExpr(cond)
	if err != nil {
		return err
	}
	if t := r.defaultType(); t == nil || t.Kind != ast.Bool {
		return a.errf(ast.PosOf(cond), "condition must be bool")
	}
	return nil
}

func (a *analyzer) checkBlock(stmts []ast.Stmt) error {
	a.pushScope()
	defer a.popScope()
	for _, s := range stmts {
		if err := a.checkStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) checkWhile(v *ast.WhileLoop) error {
	if v.Parallel {
		return a.errf(v.Pos, "'parallel' is not allowed on a while loop")
	}
	if err := a.checkCondition(v.Condition); err != nil {
		return err
	}
	a.loopDepth++
	err := a.checkBlock(v.Body)
	a.loopDepth--
	return err
}

func (a *analyzer) checkFor(v *ast.ForLoop) error {
	if err := a.forbidNestedTry(v.Iterable, false); err != nil {
		return err
	}
	r, err := a.checkExpr(v.Iterable)
	if err != nil {
		return err
	}
	var elemType *ast.Type
	if _, isRange := v.Iterable.(*ast.Range); isRange {
		elemType = r.defaultType()
	} else {
		t := r.defaultType()
		if t == nil || (t.Kind != ast.ArrayType && t.Kind != ast.SliceType) {
			return a.errf(v.Pos, "'for' requires a range or an array/slice to iterate over")
		}
		elemType = t.Elem
	}
	a.loopDepth++
	a.pushScope()
	if err := a.declareInCurrent(v.Pos, v.Variable, elemType); err != nil {
		a.popScope()
		a.loopDepth--
		return err
	}
	for _, s := range v.Body {
		if err := a.checkStmt(s); err != nil {
			a.popScope()
			a.loopDepth--
			return err
		}
	}
	a.popScope()
	a.loopDepth--
	return nil
}

// checkParallelBlock enforces the restriction on bare `parallel` blocks
// (as opposed to `parallel for`): every statement must be a zero-argument
// call to a defined function, so the generated per-call pthread thunk
// never has to capture loop-carried state.
func (a *analyzer) checkParallelBlock(v *ast.ParallelBlock) error {
	for _, s := range v.Body {
		es, ok := s.(*ast.ExprStmt)
		if !ok {
			return a.errf(ast.PosOf(s), "a parallel block may only contain zero-argument calls")
		}
		call, ok := es.Expr.(*ast.Call)
		if !ok || len(call.Args) != 0 {
			return a.errf(ast.PosOf(s), "a parallel block may only contain zero-argument calls")
		}
		if _, err := a.checkExpr(call); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) checkBreak(v *ast.BreakStmt) error {
	if a.loopDepth == 0 {
		return a.errf(v.Pos, "'break' used outside of a loop")
	}
	if v.Value != nil {
		if _, err := a.checkExpr(v.Value); err != nil {
			return err
		}
	}
	return nil
}

// checkTryCatch handles the locally-handled form `try <e> catch [var]`.
// Unlike a bare propagating `try`, this form does not require the
// enclosing function to itself return an error union: the error is
// consumed here, not re-raised.
func (a *analyzer) checkTryCatch(v *ast.TryCatch) error {
	te, ok := v.TryExpr.(*ast.TryExpr)
	if !ok {
		return a.errf(v.Pos, "malformed try/catch")
	}
	if err := a.forbidNestedTry(te.Expr, false); err != nil {
		return err
	}
	unionR, err := a.checkExpr(te.Expr)
	if err != nil {
		return err
	}
	unionT := unionR.defaultType()
	if unionT == nil || unionT.Kind != ast.ErrorUnion {
		return a.errf(te.Pos, "'try' requires an error-union-typed expression")
	}
	a.types[te] = unionT.Ok

	a.pushScope()
	defer a.popScope()
	if v.HasVar {
		if err := a.declareInCurrent(v.Pos, v.CatchVar, unionT.Err); err != nil {
			return err
		}
	}
	for _, s := range v.CatchBody {
		if err := a.checkStmt(s); err != nil {
			return err
		}
	}
	return nil
}
