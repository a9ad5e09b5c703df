package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/onelang/oneim/internal/ast"
)

var binOpSpelling = map[ast.BinOp]string{
	ast.Add: "+", ast.Sub: "-", ast.Mul: "*", ast.Div: "/", ast.Mod: "%",
	ast.OpEq: "==", ast.OpNeq: "!=", ast.OpLt: "<", ast.OpLte: "<=", ast.OpGt: ">", ast.OpGte: ">=",
	ast.BoolAnd: "&&", ast.BoolOr: "||",
}

// emitExpr renders e as a single C expression. try_expr is deliberately
// not handled here: its early-return-on-error behavior only makes sense at
// statement granularity, so callers that may hold a try_expr (set/typed
// assign RHS, return value, bare expr statement) special-case it before
// ever reaching emitExpr.
func (g *generator) emitExpr(e ast.Expr) (string, error) {
	switch v := e.(type) {
	case *ast.IntLiteral:
		return strconv.FormatInt(v.Value, 10), nil
	case *ast.FloatLiteral:
		return strconv.FormatFloat(v.Value, 'g', -1, 64), nil
	case *ast.StringLiteral:
		return strconv.Quote(v.Value), nil
	case *ast.BoolLiteral:
		if v.Value {
			return "true", nil
		}
		return "false", nil
	case *ast.NullLiteral:
		return "NULL", nil
	case *ast.Variable:
		return v.Name, nil
	case *ast.UnaryOp:
		operand, err := g.emitExpr(v.Operand)
		if err != nil {
			return "", err
		}
		if v.Op == ast.BoolNot {
			return fmt.Sprintf("(!%s)", operand), nil
		}
		return fmt.Sprintf("(-%s)", operand), nil
	case *ast.BinaryOp:
		left, err := g.emitExpr(v.Left)
		if err != nil {
			return "", err
		}
		right, err := g.emitExpr(v.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", left, binOpSpelling[v.Op], right), nil
	case *ast.Call:
		return g.emitCall(v)
	case *ast.ArrayLiteral:
		return g.emitArrayLiteral(v)
	case *ast.IndexExpr:
		return g.emitIndex(v)
	case *ast.TryExpr:
		return "", g.errf(v.Pos, "'try' may not appear nested inside another expression")
	case *ast.ErrorExpr:
		return "", g.errf(v.Pos, "'error' may not appear nested inside another expression")
	default:
		return "", g.errf(ast.PosOf(e), "unsupported expression in code generation")
	}
}

func (g *generator) emitCall(v *ast.Call) (string, error) {
	if builtin, ok, err := g.emitBuiltinCall(v); ok || err != nil {
		return builtin, err
	}
	var args []string
	for _, a := range v.Args {
		s, err := g.emitExpr(a)
		if err != nil {
			return "", err
		}
		args = append(args, s)
	}
	return fmt.Sprintf("%s(%s)", v.Callee, strings.Join(args, ", ")), nil
}

// emitBuiltinCall handles the two reserved builtins (print, len).
// Their return is (expr, handled, error); handled is false for any other
// callee, so emitCall falls through to a plain function call.
func (g *generator) emitBuiltinCall(v *ast.Call) (string, bool, error) {
	switch v.Callee {
	case "print":
		if len(v.Args) != 1 {
			return "", true, g.errf(v.Pos, "'print' takes exactly one argument")
		}
		arg := v.Args[0]
		argC, err := g.emitExpr(arg)
		if err != nil {
			return "", true, err
		}
		t := g.analysis.Types[arg]
		format, conv := printfSpec(t)
		return fmt.Sprintf("printf(\"%s\\n\", %s)", format, fmt.Sprintf(conv, argC)), true, nil
	case "len":
		if len(v.Args) != 1 {
			return "", true, g.errf(v.Pos, "'len' takes exactly one argument")
		}
		argC, err := g.emitExpr(v.Args[0])
		if err != nil {
			return "", true, err
		}
		t := g.analysis.Types[v.Args[0]]
		if t == nil || (t.Kind != ast.ArrayType && t.Kind != ast.SliceType) {
			return "", true, g.errf(v.Pos, "'len' requires an array or slice")
		}
		return fmt.Sprintf("(%s).len", argC), true, nil
	default:
		return "", false, nil
	}
}

// printfSpec returns a printf format specifier for t and a "%s"-style
// wrapper template applied to the already-rendered argument expression
// (used so bool prints as true/false rather than 1/0).
func printfSpec(t *ast.Type) (string, string) {
	if t == nil {
		return "%s", "%s"
	}
	switch t.Kind {
	case ast.F32, ast.F64:
		return "%f", "%s"
	case ast.Bool:
		return "%s", "(%s) ? \"true\" : \"false\""
	case ast.Str:
		return "%s", "%s"
	case ast.I64:
		return "%lld", "%s"
	case ast.U64:
		return "%llu", "%s"
	default:
		return "%d", "%s"
	}
}

func (g *generator) emitArrayLiteral(v *ast.ArrayLiteral) (string, error) {
	t := g.analysis.Types[v]
	if t == nil || t.Kind != ast.ArrayType {
		return "", g.errf(v.Pos, "array literal has no resolved type")
	}
	cname := g.cType(t)
	var elems []string
	for _, el := range v.Elements {
		s, err := g.emitExpr(el)
		if err != nil {
			return "", err
		}
		elems = append(elems, s)
	}
	return fmt.Sprintf("(%s){.items={%s}, .len=%d}", cname, strings.Join(elems, ", "), len(v.Elements)), nil
}

func (g *generator) emitIndex(v *ast.IndexExpr) (string, error) {
	targetT := g.analysis.Types[v.Target]
	targetC, err := g.emitExpr(v.Target)
	if err != nil {
		return "", err
	}
	idxC, err := g.emitExpr(v.Index)
	if err != nil {
		return "", err
	}
	if targetT != nil && targetT.Kind == ast.ArrayType {
		return fmt.Sprintf("(%s).items[%s]", targetC, idxC), nil
	}
	return fmt.Sprintf("(%s).data[%s]", targetC, idxC), nil
}
