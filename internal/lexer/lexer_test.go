package lexer

import (
	"testing"

	"github.com/onelang/oneim/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexKeywordsAndIdents(t *testing.T) {
	toks, err := All("set x to 5")
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.SET, token.IDENT, token.TO, token.INT, token.EOF}, kinds(toks))
	assert.Equal(t, "x", toks[1].Lexeme)
	assert.Equal(t, "5", toks[3].Lexeme)
}

func TestLexRangeOperatorsNotConfusedWithFloats(t *testing.T) {
	toks, err := All("0..10")
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.INT, token.DOTDOT, token.INT, token.EOF}, kinds(toks))
}

func TestLexInclusiveRangeOperator(t *testing.T) {
	toks, err := All("0..=10")
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.INT, token.DOTDOTEQ, token.INT, token.EOF}, kinds(toks))
}

func TestLexFloatLiteral(t *testing.T) {
	toks, err := All("3.14")
	require.NoError(t, err)
	require.Equal(t, token.FLOAT, toks[0].Kind)
	assert.Equal(t, "3.14", toks[0].Lexeme)
}

func TestLexStringLiteral(t *testing.T) {
	toks, err := All(`"hello world"`)
	require.NoError(t, err)
	require.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "hello world", toks[0].Lexeme)
}

func TestLexUnterminatedStringIsLexicalError(t *testing.T) {
	_, err := All(`"unterminated`)
	require.Error(t, err)
}

func TestLexBangForErrorUnion(t *testing.T) {
	toks, err := All("i32!str")
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.I32, token.BANG, token.STR, token.EOF}, kinds(toks))
}

func TestLexBangEqualIsNotEqualOperator(t *testing.T) {
	toks, err := All("a != b")
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.IDENT, token.NEQ, token.IDENT, token.EOF}, kinds(toks))
}

func TestLexLineCommentsAreSkipped(t *testing.T) {
	toks, err := All("set x to 1 # trailing comment\nset y to 2")
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{
		token.SET, token.IDENT, token.TO, token.INT, token.NEWLINE,
		token.SET, token.IDENT, token.TO, token.INT, token.EOF,
	}, kinds(toks))
}

func TestLexTracksColumns(t *testing.T) {
	toks, err := All("  set")
	require.NoError(t, err)
	assert.Equal(t, 3, toks[0].Col)
}
