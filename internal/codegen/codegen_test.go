package codegen

import (
	"testing"

	"github.com/onelang/oneim/internal/parser"
	"github.com/onelang/oneim/internal/sema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, src string, opts Options) string {
	t.Helper()
	prog, _, err := parser.Parse(src)
	require.NoError(t, err)
	analysis, err := sema.Analyze(prog, src)
	require.NoError(t, err)
	out, err := Generate(prog, analysis, opts)
	require.NoError(t, err)
	return out
}

func TestGenerateEmitsFunctionPrototypeAndBody(t *testing.T) {
	out := generate(t, "set add with a as i32, b as i32 returns i32\n\treturn a + b\n", Options{})
	assert.Contains(t, out, "int32_t add(int32_t a, int32_t b)")
	assert.Contains(t, out, "return (a + b);")
}

func TestGenerateVoidFunctionTakesVoidParam(t *testing.T) {
	out := generate(t, "set greet\n\tprint(1)\n", Options{})
	assert.Contains(t, out, "void greet(void)")
}

func TestGenerateTopLevelStatementsLandInMain(t *testing.T) {
	out := generate(t, "set x to 5\n", Options{})
	assert.Contains(t, out, "int main(void) {")
	assert.Contains(t, out, "int32_t x = 5;")
}

func TestGenerateRegistersErrorUnionHelperOnce(t *testing.T) {
	src := "set parse with s as str returns i32!str\n\treturn 1\n\n" +
		"set parseTwo with s as str returns i32!str\n\treturn 2\n"
	out := generate(t, src, Options{})
	assert.Equal(t, 1, countOccurrences(out, "bool is_err;"))
	assert.Contains(t, out, "_ok(int32_t v)")
	assert.Contains(t, out, "_err(const char* v)")
}

func TestGeneratePlainReturnInErrorUnionFunctionIsWrapped(t *testing.T) {
	out := generate(t, "set parse with s as str returns i32!str\n\treturn 1\n", Options{})
	assert.Contains(t, out, "_ok(1)")
}

func TestGeneratePropagatingTryEmitsEarlyReturn(t *testing.T) {
	src := "set parse with s as str returns i32!str\n\treturn 1\n\n" +
		"set run returns i32!str\n\tset x to try parse(\"1\")\n\treturn x\n"
	out := generate(t, src, Options{})
	assert.Contains(t, out, ".is_err) { return")
	assert.Contains(t, out, "_err(")
}

func TestGenerateArrayLiteralUsesCompoundLiteral(t *testing.T) {
	out := generate(t, "set xs to [1, 2, 3]\n", Options{})
	assert.Contains(t, out, ".items={1, 2, 3}")
}

func TestGenerateEmitsOMPPragmaWhenOptionSet(t *testing.T) {
	out := generate(t, "parallel for i in 0..10\n\tprint(i)\n", Options{EmitPragmaOMP: true})
	assert.Contains(t, out, "#pragma omp parallel for")
	assert.Contains(t, out, "#include <omp.h>")
}

func TestGenerateBareParallelBlockUsesPthreads(t *testing.T) {
	src := "set worker\n\tprint(1)\n\nparallel\n\tworker()\n\tworker()\n"
	out := generate(t, src, Options{})
	assert.Contains(t, out, "#include <pthread.h>")
	assert.Contains(t, out, "pthread_create")
	assert.Contains(t, out, "pthread_join")
}

func TestGenerateSanitizesCompositeTypeNames(t *testing.T) {
	out := generate(t, "set sum with xs as []i32 returns i32\n\treturn xs[0]\n", Options{})
	assert.NotContains(t, out, "[]i32") // the surface spelling must not leak into a C identifier
}

func countOccurrences(s, substr string) int {
	count := 0
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			count++
			i += len(substr) - 1
		}
	}
	return count
}
