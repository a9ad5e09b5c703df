package pipeline

import (
	"testing"

	"github.com/onelang/oneim/internal/codegen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunProducesCSourceForValidProgram(t *testing.T) {
	result, err := Run("set x to 5\n", codegen.Options{})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Contains(t, result.C, "int main(void) {")
	assert.NotNil(t, result.Program)
	assert.NotNil(t, result.Arena)
	assert.NotNil(t, result.Analysis)
}

func TestRunStopsAtFirstLexicalError(t *testing.T) {
	_, err := Run(`set x to "unterminated`, codegen.Options{})
	require.Error(t, err)
}

func TestRunStopsAtFirstSemanticError(t *testing.T) {
	_, err := Run("set x to y\n", codegen.Options{})
	require.Error(t, err)
}

func TestStageStringsAreHumanReadable(t *testing.T) {
	assert.Equal(t, "initialization", StageInit.String())
	assert.Equal(t, "lex+parse", StageLexParse.String())
	assert.Equal(t, "semantic analysis", StageAnalyze.String())
	assert.Equal(t, "code generation", StageCodegen.String())
	assert.Equal(t, "complete", StageComplete.String())
}

func TestNewPipelineStartsAtInit(t *testing.T) {
	p := New()
	assert.Equal(t, StageInit, p.stage)
	assert.Equal(t, []Stage{StageInit}, p.history)
}

func TestAdvanceRejectsOutOfOrderTransition(t *testing.T) {
	p := New()
	assert.Panics(t, func() { p.advance(StageCodegen) })
}

func TestAdvanceAcceptsSequentialTransitions(t *testing.T) {
	p := New()
	assert.NotPanics(t, func() {
		p.advance(StageLexParse)
		p.advance(StageAnalyze)
	})
	assert.Equal(t, StageAnalyze, p.stage)
}
