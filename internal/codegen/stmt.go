package codegen

import (
	"fmt"
	"strings"

	"github.com/onelang/oneim/internal/ast"
)

func (g *generator) emitStmt(w *strings.Builder, s ast.Stmt) error {
	switch v := s.(type) {
	case *ast.SetAssign:
		return g.emitAssignLike(w, v.Pos, v.Name, v.Value, g.analysis.Decls[v], g.analysis.Declares[v])
	case *ast.TypedAssign:
		return g.emitAssignLike(w, v.Pos, v.Name, v.Value, v.Type, true)
	case *ast.IndexAssign:
		return g.emitIndexAssign(w, v)
	case *ast.ReturnStmt:
		return g.emitReturn(w, v)
	case *ast.IfStmt:
		return g.emitIf(w, v)
	case *ast.WhileLoop:
		return g.emitWhile(w, v)
	case *ast.ForLoop:
		return g.emitFor(w, v)
	case *ast.ParallelBlock:
		return g.emitParallelBlock(w, v)
	case *ast.BreakStmt:
		g.writeIndent(w)
		w.WriteString("break;\n")
		return nil
	case *ast.ContinueStmt:
		g.writeIndent(w)
		w.WriteString("continue;\n")
		return nil
	case *ast.TryCatch:
		return g.emitTryCatch(w, v)
	case *ast.ExprStmt:
		return g.emitExprStmt(w, v)
	case *ast.FunctionDef:
		return g.errf(v.Pos, "nested function definitions are not supported by code generation")
	default:
		return g.errf(ast.Pos{}, "unsupported statement in code generation")
	}
}

// emitAssignLike lowers both set_assign (declType resolved by sema) and
// typed_assign. The RHS is emitted as-is, with no cast: a declaration
// takes its C type from declType, and C converts the value on
// initialization or assignment. declare controls whether this is the first declaration of the name (C
// needs a type) or a plain reassignment.
func (g *generator) emitAssignLike(w *strings.Builder, pos ast.Pos, name string, value ast.Expr, declType *ast.Type, declare bool) error {
	if te, ok := value.(*ast.TryExpr); ok {
		return g.emitTryPropagation(w, pos, name, te, declare)
	}
	rhs, err := g.emitExpr(value)
	if err != nil {
		return err
	}
	g.writeIndent(w)
	if declare {
		fmt.Fprintf(w, "%s %s = %s;\n", g.cType(declType), name, rhs)
	} else {
		fmt.Fprintf(w, "%s = %s;\n", name, rhs)
	}
	return nil
}

// emitTryPropagation lowers `set N to try <e>` (and the typed-assign and
// return forms, via their own call sites) into: evaluate <e> into a temp,
// and if it carries an error, return that error immediately from the
// enclosing function — otherwise bind N to the ok payload. This is the
// concrete shape of the error-union propagation rule.
func (g *generator) emitTryPropagation(w *strings.Builder, pos ast.Pos, name string, te *ast.TryExpr, declare bool) error {
	innerT := g.analysis.Types[te.Expr]
	if innerT == nil || innerT.Kind != ast.ErrorUnion {
		return g.errf(pos, "'try' requires an error-union-typed expression")
	}
	innerC, err := g.emitExpr(te.Expr)
	if err != nil {
		return err
	}
	tmp := g.newTemp("try")
	resultC := g.cType(innerT)
	g.writeIndent(w)
	fmt.Fprintf(w, "%s %s = %s;\n", resultC, tmp, innerC)
	g.writeIndent(w)
	fmt.Fprintf(w, "if (%s.is_err) { return %s; }\n", tmp, g.errPropagationExpr(innerT, tmp))
	g.writeIndent(w)
	if declare {
		fmt.Fprintf(w, "%s %s = %s.value.ok;\n", g.cType(innerT.Ok), name, tmp)
	} else {
		fmt.Fprintf(w, "%s = %s.value.ok;\n", name, tmp)
	}
	return nil
}

// errPropagationExpr rewraps tmp's error payload as the enclosing
// function's own result type. innerT and the enclosing function's return
// type are required by sema to share the same err side, but may differ in
// their ok side, so the value must be re-constructed through the
// enclosing type's own _err constructor rather than returned as-is.
func (g *generator) errPropagationExpr(innerT *ast.Type, tmp string) string {
	fnRet := g.currentReturnType
	outName := g.cType(fnRet)
	return fmt.Sprintf("%s_err(%s.value.err)", outName, tmp)
}

func (g *generator) emitIndexAssign(w *strings.Builder, v *ast.IndexAssign) error {
	targetC, err := g.emitExpr(v.Target)
	if err != nil {
		return err
	}
	rhs, err := g.emitExpr(v.Value)
	if err != nil {
		return err
	}
	g.writeIndent(w)
	fmt.Fprintf(w, "%s = %s;\n", targetC, rhs)
	return nil
}

func (g *generator) emitReturn(w *strings.Builder, v *ast.ReturnStmt) error {
	if v.Value == nil {
		g.writeIndent(w)
		w.WriteString("return;\n")
		return nil
	}
	if te, ok := v.Value.(*ast.TryExpr); ok {
		tmp := g.newTemp("ret")
		if err := g.emitTryPropagation(w, v.Pos, tmp, te, true); err != nil {
			return err
		}
		g.writeIndent(w)
		if g.currentReturnType != nil && g.currentReturnType.Kind == ast.ErrorUnion {
			fmt.Fprintf(w, "return %s_ok(%s);\n", g.cType(g.currentReturnType), tmp)
		} else {
			fmt.Fprintf(w, "return %s;\n", tmp)
		}
		return nil
	}
	if ee, ok := v.Value.(*ast.ErrorExpr); ok {
		inner, err := g.emitExpr(ee.Expr)
		if err != nil {
			return err
		}
		g.writeIndent(w)
		fmt.Fprintf(w, "return %s_err(%s);\n", g.cType(g.currentReturnType), inner)
		return nil
	}
	rhs, err := g.emitExpr(v.Value)
	if err != nil {
		return err
	}
	// A value already typed as the function's own error union (sema only
	// allows this when it's an exact match) passes through unwrapped;
	// anything else is the bare ok payload and needs the _ok constructor.
	valT := g.analysis.Types[v.Value]
	alreadyUnion := valT != nil && g.currentReturnType != nil && ast.Equal(valT, g.currentReturnType)
	if g.currentReturnType != nil && g.currentReturnType.Kind == ast.ErrorUnion && !alreadyUnion {
		rhs = fmt.Sprintf("%s_ok(%s)", g.cType(g.currentReturnType), rhs)
	}
	g.writeIndent(w)
	fmt.Fprintf(w, "return %s;\n", rhs)
	return nil
}

func (g *generator) emitIf(w *strings.Builder, v *ast.IfStmt) error {
	cond, err := g.emitExpr(v.Condition)
	if err != nil {
		return err
	}
	g.writeIndent(w)
	fmt.Fprintf(w, "if (%s) {\n", cond)
	g.indent++
	for _, s := range v.Then {
		if err := g.emitStmt(w, s); err != nil {
			return err
		}
	}
	g.indent--
	g.writeIndent(w)
	w.WriteString("}")

	for _, ei := range v.ElseIfs {
		eiCond, err := g.emitExpr(ei.Condition)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, " else if (%s) {\n", eiCond)
		g.indent++
		for _, s := range ei.Body {
			if err := g.emitStmt(w, s); err != nil {
				return err
			}
		}
		g.indent--
		g.writeIndent(w)
		w.WriteString("}")
	}
	if v.Else != nil {
		w.WriteString(" else {\n")
		g.indent++
		for _, s := range v.Else {
			if err := g.emitStmt(w, s); err != nil {
				return err
			}
		}
		g.indent--
		g.writeIndent(w)
		w.WriteString("}")
	}
	w.WriteString("\n")
	return nil
}

func (g *generator) emitWhile(w *strings.Builder, v *ast.WhileLoop) error {
	cond, err := g.emitExpr(v.Condition)
	if err != nil {
		return err
	}
	g.writeIndent(w)
	fmt.Fprintf(w, "while (%s) {\n", cond)
	g.indent++
	for _, s := range v.Body {
		if err := g.emitStmt(w, s); err != nil {
			return err
		}
	}
	g.indent--
	g.writeIndent(w)
	w.WriteString("}\n")
	return nil
}

func (g *generator) emitFor(w *strings.Builder, v *ast.ForLoop) error {
	iterT := g.analysis.Types[v.Iterable]

	pragma := ""
	if v.Parallel && g.opts.EmitPragmaOMP {
		pragma = "#pragma omp parallel for\n"
	}

	if rng, ok := v.Iterable.(*ast.Range); ok {
		startC, err := g.emitExpr(rng.Start)
		if err != nil {
			return err
		}
		endC, err := g.emitExpr(rng.End)
		if err != nil {
			return err
		}
		cmp := "<"
		if rng.Inclusive {
			cmp = "<="
		}
		cType := g.cType(g.rangeElemType(rng))
		g.writeIndent(w)
		w.WriteString(pragma)
		g.writeIndent(w)
		fmt.Fprintf(w, "for (%s %s = %s; %s %s %s; %s++) {\n", cType, v.Variable, startC, v.Variable, cmp, endC, v.Variable)
		g.indent++
		for _, s := range v.Body {
			if err := g.emitStmt(w, s); err != nil {
				return err
			}
		}
		g.indent--
		g.writeIndent(w)
		w.WriteString("}\n")
		return nil
	}

	// Iterating an array or slice: walk its backing storage by index.
	iterC, err := g.emitExpr(v.Iterable)
	if err != nil {
		return err
	}
	if iterT == nil || (iterT.Kind != ast.ArrayType && iterT.Kind != ast.SliceType) {
		return g.errf(v.Pos, "'for' requires a range or an array/slice")
	}
	field := "items"
	if iterT.Kind == ast.SliceType {
		field = "data"
	}
	tmp := g.newTemp("iter")
	g.writeIndent(w)
	fmt.Fprintf(w, "%s %s = %s;\n", g.cType(iterT), tmp, iterC)
	g.writeIndent(w)
	w.WriteString(pragma)
	g.writeIndent(w)
	idx := g.newTemp("i")
	fmt.Fprintf(w, "for (int64_t %s = 0; %s < %s.len; %s++) {\n", idx, idx, tmp, idx)
	g.indent++
	g.writeIndent(w)
	fmt.Fprintf(w, "%s %s = %s.%s[%s];\n", g.cType(iterT.Elem), v.Variable, tmp, field, idx)
	for _, s := range v.Body {
		if err := g.emitStmt(w, s); err != nil {
			return err
		}
	}
	g.indent--
	g.writeIndent(w)
	w.WriteString("}\n")
	return nil
}

// rangeElemType gives the integer type a range's loop variable takes,
// falling back to i32 when sema recorded no more specific type (bare
// literal bounds default there too).
func (g *generator) rangeElemType(rng *ast.Range) *ast.Type {
	if t := g.analysis.Types[rng]; t != nil {
		return t
	}
	return ast.I32Type
}

// emitParallelBlock lowers a bare `parallel` block (every statement must
// be a zero-argument call) into a pthread fan-out/join.
func (g *generator) emitParallelBlock(w *strings.Builder, v *ast.ParallelBlock) error {
	g.usesPthread = true
	tmp := g.newTemp("threads")
	n := len(v.Body)
	g.writeIndent(w)
	fmt.Fprintf(w, "pthread_t %s[%d];\n", tmp, n)
	for i, s := range v.Body {
		call := s.(*ast.ExprStmt).Expr.(*ast.Call)
		thunk := g.newTemp("thunk")
		g.writeIndent(w)
		fmt.Fprintf(w, "void *%s(void *_unused) { (void)_unused; %s(); return NULL; }\n", thunk, call.Callee)
		g.writeIndent(w)
		fmt.Fprintf(w, "pthread_create(&%s[%d], NULL, %s, NULL);\n", tmp, i, thunk)
	}
	for i := 0; i < n; i++ {
		g.writeIndent(w)
		fmt.Fprintf(w, "pthread_join(%s[%d], NULL);\n", tmp, i)
	}
	return nil
}

func (g *generator) emitTryCatch(w *strings.Builder, v *ast.TryCatch) error {
	te := v.TryExpr.(*ast.TryExpr)
	innerT := g.analysis.Types[te.Expr]
	if innerT == nil || innerT.Kind != ast.ErrorUnion {
		return g.errf(v.Pos, "'try' requires an error-union-typed expression")
	}
	innerC, err := g.emitExpr(te.Expr)
	if err != nil {
		return err
	}
	tmp := g.newTemp("try")
	g.writeIndent(w)
	fmt.Fprintf(w, "%s %s = %s;\n", g.cType(innerT), tmp, innerC)
	g.writeIndent(w)
	fmt.Fprintf(w, "if (%s.is_err) {\n", tmp)
	g.indent++
	if v.HasVar {
		g.writeIndent(w)
		fmt.Fprintf(w, "%s %s = %s.value.err;\n", g.cType(innerT.Err), v.CatchVar, tmp)
	}
	for _, s := range v.CatchBody {
		if err := g.emitStmt(w, s); err != nil {
			return err
		}
	}
	g.indent--
	g.writeIndent(w)
	w.WriteString("}\n")
	return nil
}

func (g *generator) emitExprStmt(w *strings.Builder, v *ast.ExprStmt) error {
	if te, ok := v.Expr.(*ast.TryExpr); ok {
		tmp := g.newTemp("try")
		return g.emitTryPropagation(w, v.Pos, tmp, te, true)
	}
	exprC, err := g.emitExpr(v.Expr)
	if err != nil {
		return err
	}
	g.writeIndent(w)
	fmt.Fprintf(w, "%s;\n", exprC)
	return nil
}
