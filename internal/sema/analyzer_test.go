package sema

import (
	"testing"

	"github.com/onelang/oneim/internal/ast"
	"github.com/onelang/oneim/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyzeSource(t *testing.T, src string) (*ast.Program, *Analysis, error) {
	t.Helper()
	prog, _, err := parser.Parse(src)
	require.NoError(t, err)
	analysis, err := Analyze(prog, src)
	return prog, analysis, err
}

func TestAnalyzeInfersIntLiteralDefaultsToI32(t *testing.T) {
	_, analysis, err := analyzeSource(t, "set x to 5\n")
	require.NoError(t, err)
	sa := lastStmt(t, analysis)
	assert.Equal(t, ast.I32, analysis.Decls[sa].Kind)
}

func TestAnalyzeUnifiesLiteralAgainstDeclaredType(t *testing.T) {
	_, analysis, err := analyzeSource(t, "set x as i64 to 5\n")
	require.NoError(t, err)
	sa := lastStmt(t, analysis)
	assert.Equal(t, ast.I64, analysis.Decls[sa].Kind)
}

func TestAnalyzeRejectsMismatchedTypedAssign(t *testing.T) {
	_, _, err := analyzeSource(t, `set x as str to 5`+"\n")
	require.Error(t, err)
}

func TestAnalyzeInfersOmittedReturnType(t *testing.T) {
	_, analysis, err := analyzeSource(t, "set add with a as i32, b as i32\n\treturn a + b\n")
	require.NoError(t, err)
	sig := analysis.Signatures["add"]
	require.NotNil(t, sig)
	assert.Equal(t, ast.I32, sig.ReturnType.Kind)
	assert.True(t, sig.Inferred)
	assert.Contains(t, analysis.InferredReturns, "add")
}

func TestAnalyzeRejectsMixedBareAndValueReturns(t *testing.T) {
	src := "set f with a as bool\n\tif a then\n\t\treturn 1\n\telse\n\t\treturn\n"
	_, _, err := analyzeSource(t, src)
	require.Error(t, err)
}

func TestAnalyzeRejectsUndefinedVariable(t *testing.T) {
	_, _, err := analyzeSource(t, "set y to x\n")
	require.Error(t, err)
}

func TestAnalyzeRejectsArithmeticOnBooleans(t *testing.T) {
	_, _, err := analyzeSource(t, "set x to true + false\n")
	require.Error(t, err)
}

func TestAnalyzeRejectsParallelWhile(t *testing.T) {
	_, _, err := analyzeSource(t, "parallel while true\n\tbreak\n")
	require.Error(t, err)
}

func TestAnalyzeAllowsParallelFor(t *testing.T) {
	_, _, err := analyzeSource(t, "parallel for i in 0..10\n\tprint(i)\n")
	require.NoError(t, err)
}

func TestAnalyzeRejectsParallelBlockWithArgumentCall(t *testing.T) {
	_, _, err := analyzeSource(t, "set worker with n as i32\n\tprint(n)\n\nparallel\n\tworker(1)\n")
	require.Error(t, err)
}

func TestAnalyzeAllowsParallelBlockOfZeroArgCalls(t *testing.T) {
	_, _, err := analyzeSource(t, "set worker\n\tprint(1)\n\nparallel\n\tworker()\n\tworker()\n")
	require.NoError(t, err)
}

func TestAnalyzeRequiresReturnCoverageOnAllBranches(t *testing.T) {
	src := "set f with a as bool returns i32\n\tif a then\n\t\treturn 1\n"
	_, _, err := analyzeSource(t, src)
	require.Error(t, err)
}

func TestAnalyzeAcceptsIfElseReturnCoverage(t *testing.T) {
	src := "set f with a as bool returns i32\n\tif a then\n\t\treturn 1\n\telse\n\t\treturn 2\n"
	_, _, err := analyzeSource(t, src)
	require.NoError(t, err)
}

func TestAnalyzeRejectsBareTryOutsideErrorUnionFunction(t *testing.T) {
	src := "set parse with s as str returns i32!str\n\treturn 1\n\nset run\n\tset x to try parse(\"1\")\n"
	_, _, err := analyzeSource(t, src)
	require.Error(t, err)
}

func TestAnalyzeAllowsPropagatingTryInMatchingFunction(t *testing.T) {
	src := "set parse with s as str returns i32!str\n\treturn 1\n\n" +
		"set run returns i32!str\n\tset x to try parse(\"1\")\n\treturn x\n"
	_, _, err := analyzeSource(t, src)
	require.NoError(t, err)
}

func TestAnalyzeAllowsTryCatchOutsideErrorUnionFunction(t *testing.T) {
	src := "set parse with s as str returns i32!str\n\treturn 1\n\n" +
		"set run\n\ttry parse(\"1\") catch err\n\t\tprint(err)\n"
	_, _, err := analyzeSource(t, src)
	require.NoError(t, err)
}

func TestAnalyzeRejectsTryNestedInsideAnotherExpression(t *testing.T) {
	src := "set parse with s as str returns i32!str\n\treturn 1\n\n" +
		"set run returns i32!str\n\tset x to try parse(\"1\") + 1\n\treturn x\n"
	_, _, err := analyzeSource(t, src)
	require.Error(t, err)
}

func TestAnalyzeAllowsErrorExprReturningErrSide(t *testing.T) {
	src := "set fail returns i32!str\n\treturn error \"boom\"\n"
	_, _, err := analyzeSource(t, src)
	require.NoError(t, err)
}

func TestAnalyzeRejectsErrorExprInNonErrorUnionFunction(t *testing.T) {
	src := "set fail returns i32\n\treturn error \"boom\"\n"
	_, _, err := analyzeSource(t, src)
	require.Error(t, err)
}

func TestAnalyzeRejectsErrorExprOutsideReturn(t *testing.T) {
	_, _, err := analyzeSource(t, "set x to error \"boom\"\n")
	require.Error(t, err)
}

func TestAnalyzeRejectsErrorExprNestedInsideAnotherExpression(t *testing.T) {
	src := "set fail returns i32!str\n\treturn 1 + error \"boom\"\n"
	_, _, err := analyzeSource(t, src)
	require.Error(t, err)
}

func TestAnalyzeRejectsLiteralAssignedToExistingErrorUnionVariable(t *testing.T) {
	src := "set parse with s as str returns i32!str\n\treturn 1\n\n" +
		"set run returns i32!str\n" +
		"\tset x to parse(\"1\")\n" +
		"\tset x to 5\n" +
		"\treturn x\n"
	_, _, err := analyzeSource(t, src)
	require.Error(t, err)
}

func TestAnalyzeAllowsReassigningErrorUnionVariableFromMatchingCall(t *testing.T) {
	src := "set makeOk with n as i32 returns i32!str\n\treturn n\n\n" +
		"set makeErr returns i32!str\n\treturn error \"boom\"\n\n" +
		"set run with n as i32 returns i32!str\n" +
		"\tset x to makeOk(n)\n" +
		"\tset x to makeErr()\n" +
		"\treturn x\n"
	_, _, err := analyzeSource(t, src)
	require.NoError(t, err)
}

func lastStmt(t *testing.T, a *Analysis) ast.Stmt {
	t.Helper()
	for s := range a.Decls {
		return s
	}
	t.Fatal("no declaration recorded")
	return nil
}
