package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageIncludesCategoryAndLocation(t *testing.T) {
	e := New(Semantic, Location{Line: 3, Col: 7}, "undefined variable %q", "x")
	assert.Equal(t, `semantic error: undefined variable "x" (3:7)`, e.Error())
}

func TestFormatWithoutColorDegradesToPlainLine(t *testing.T) {
	e := New(Syntactic, Location{Line: 1, Col: 1}, "unexpected token")
	assert.Equal(t, e.Error(), e.Format(false))
}

func TestFormatWithColorIncludesCaretUnderSourceLine(t *testing.T) {
	e := New(Lexical, Location{Line: 2, Col: 5}, "bad token")
	e = e.WithSourceLine("set x to @")
	out := e.Format(true)
	assert.Contains(t, out, "set x to @")
	assert.Contains(t, out, "^")
}

func TestWithSourceLineIgnoresOutOfRangeLocation(t *testing.T) {
	e := New(Codegen, Location{Line: 99, Col: 1}, "oops")
	e = e.WithSourceLine("only one line")
	assert.Empty(t, e.SourceLine)
}

func TestCategoryStringsAreHumanReadable(t *testing.T) {
	cases := map[Category]string{
		Lexical:     "lexical error",
		Syntactic:   "syntax error",
		Semantic:    "semantic error",
		Codegen:     "codegen error",
		OutOfMemory: "out of memory",
	}
	for cat, want := range cases {
		assert.Equal(t, want, cat.String())
	}
}
