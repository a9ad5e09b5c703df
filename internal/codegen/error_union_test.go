package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateErrorExprReturnsErrSide(t *testing.T) {
	out := generate(t, "set fail returns i32!str\n\treturn error \"boom\"\n", Options{})
	assert.Contains(t, out, `_err("boom")`)
	assert.NotContains(t, out, `_ok("boom")`)
}

func TestGenerateReassignedErrorUnionVariableIsPlainAssignment(t *testing.T) {
	src := "set makeOk with n as i32 returns i32!str\n\treturn n\n\n" +
		"set makeErr returns i32!str\n\treturn error \"boom\"\n\n" +
		"set run with n as i32 returns i32!str\n" +
		"\tset x to makeOk(n)\n" +
		"\tset x to makeErr()\n" +
		"\treturn x\n"
	out := generate(t, src, Options{})
	assert.Contains(t, out, "x = makeErr();")
	assert.NotContains(t, out, "x = makeOk(n)_ok")
	assert.NotContains(t, out, "_err(makeErr())")
}
