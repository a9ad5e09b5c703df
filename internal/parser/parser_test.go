package parser

import (
	"testing"

	"github.com/onelang/oneim/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, _, err := Parse(src)
	require.NoError(t, err)
	return prog
}

func TestParseSetToAssignment(t *testing.T) {
	prog := mustParse(t, "set x to 5")
	require.Len(t, prog.Stmts, 1)
	sa, ok := prog.Stmts[0].(*ast.SetAssign)
	require.True(t, ok)
	assert.Equal(t, "x", sa.Name)
	lit, ok := sa.Value.(*ast.IntLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(5), lit.Value)
}

func TestParseTypedAssignment(t *testing.T) {
	prog := mustParse(t, "set x as i32 to 5")
	ta, ok := prog.Stmts[0].(*ast.TypedAssign)
	require.True(t, ok)
	assert.Equal(t, "x", ta.Name)
	assert.Equal(t, ast.I32, ta.Type.Kind)
}

func TestParseIndexAssignment(t *testing.T) {
	prog := mustParse(t, "set xs[0] to 1")
	ia, ok := prog.Stmts[0].(*ast.IndexAssign)
	require.True(t, ok)
	require.IsType(t, &ast.Variable{}, ia.Target.Target)
}

func TestParseChainedIndexAssignment(t *testing.T) {
	prog := mustParse(t, "set grid[0][1] to 1")
	ia, ok := prog.Stmts[0].(*ast.IndexAssign)
	require.True(t, ok)
	require.IsType(t, &ast.IndexExpr{}, ia.Target.Target)
}

func TestParseFunctionDefWithParamsAndReturn(t *testing.T) {
	prog := mustParse(t, "set add with a as i32, b as i32 returns i32\n\treturn a + b\n")
	fn, ok := prog.Stmts[0].(*ast.FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	require.NotNil(t, fn.ReturnType)
	assert.Equal(t, ast.I32, fn.ReturnType.Kind)
	require.Len(t, fn.Body, 1)
}

func TestParseFunctionDefOmittedReturnType(t *testing.T) {
	prog := mustParse(t, "set greet with name as str\n\tprint(name)\n")
	fn := prog.Stmts[0].(*ast.FunctionDef)
	assert.Nil(t, fn.ReturnType)
}

func TestParseIfElseIfElse(t *testing.T) {
	src := "if x then\n\tset a to 1\nelse if y then\n\tset a to 2\nelse\n\tset a to 3\n"
	prog := mustParse(t, src)
	ifs, ok := prog.Stmts[0].(*ast.IfStmt)
	require.True(t, ok)
	require.Len(t, ifs.Then, 1)
	require.Len(t, ifs.ElseIfs, 1)
	require.Len(t, ifs.Else, 1)
}

func TestParseColumnDedentBlock(t *testing.T) {
	src := "if x then\n\tset a to 1\n\tset b to 2\nset c to 3\n"
	prog := mustParse(t, src)
	ifs := prog.Stmts[0].(*ast.IfStmt)
	require.Len(t, ifs.Then, 2)
	require.Len(t, prog.Stmts, 2) // "set c to 3" sits outside the if, at the original column
}

func TestParseLoopWhile(t *testing.T) {
	prog := mustParse(t, "loop while true\n\tbreak\n")
	wl, ok := prog.Stmts[0].(*ast.WhileLoop)
	require.True(t, ok)
	assert.False(t, wl.Parallel)
}

func TestParseParallelForLoop(t *testing.T) {
	prog := mustParse(t, "parallel for i in 0..10\n\tdo_work(i)\n")
	fl, ok := prog.Stmts[0].(*ast.ForLoop)
	require.True(t, ok)
	assert.True(t, fl.Parallel)
	rng, ok := fl.Iterable.(*ast.Range)
	require.True(t, ok)
	assert.False(t, rng.Inclusive)
}

func TestParseInclusiveRange(t *testing.T) {
	prog := mustParse(t, "loop for i in 0..=10\n\tprint(i)\n")
	fl := prog.Stmts[0].(*ast.ForLoop)
	rng := fl.Iterable.(*ast.Range)
	assert.True(t, rng.Inclusive)
}

func TestParseTryCatchFoldsIntoOneStatement(t *testing.T) {
	prog := mustParse(t, "try fail() catch err\n\tprint(err)\n")
	tc, ok := prog.Stmts[0].(*ast.TryCatch)
	require.True(t, ok)
	assert.True(t, tc.HasVar)
	assert.Equal(t, "err", tc.CatchVar)
	require.Len(t, tc.CatchBody, 1)
}

func TestParseTryCatchWithoutVariable(t *testing.T) {
	prog := mustParse(t, "try fail() catch\n\tprint(1)\n")
	tc := prog.Stmts[0].(*ast.TryCatch)
	assert.False(t, tc.HasVar)
}

func TestParseComparisonChainIsSyntaxError(t *testing.T) {
	_, _, err := Parse("set x to a < b < c")
	require.Error(t, err)
}

func TestParseCallTargetMustBeBareName(t *testing.T) {
	_, _, err := Parse("set x to (f)(1)")
	require.Error(t, err)
}

func TestParseArrayLiteral(t *testing.T) {
	prog := mustParse(t, "set xs to [1, 2, 3]")
	sa := prog.Stmts[0].(*ast.SetAssign)
	al, ok := sa.Value.(*ast.ArrayLiteral)
	require.True(t, ok)
	require.Len(t, al.Elements, 3)
}

func TestParseSliceAndErrorUnionTypes(t *testing.T) {
	prog := mustParse(t, "set parse with s as []u8 returns i32!str\n\treturn 1\n")
	fn := prog.Stmts[0].(*ast.FunctionDef)
	require.Equal(t, ast.SliceType, fn.Params[0].Type.Kind)
	assert.Equal(t, ast.U8, fn.Params[0].Type.Elem.Kind)
	require.Equal(t, ast.ErrorUnion, fn.ReturnType.Kind)
	assert.Equal(t, ast.I32, fn.ReturnType.Ok.Kind)
	assert.Equal(t, ast.Str, fn.ReturnType.Err.Kind)
}

func TestParseOperatorPrecedence(t *testing.T) {
	prog := mustParse(t, "set x to 1 + 2 * 3")
	sa := prog.Stmts[0].(*ast.SetAssign)
	bin, ok := sa.Value.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.Add, bin.Op)
	rightMul, ok := bin.Right.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.Mul, rightMul.Op)
}
