package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaAllocReturnsStablePointer(t *testing.T) {
	a := NewArena()
	p := Alloc(a, IntLiteral{Pos: Pos{Line: 1, Col: 1}, Value: 42})
	require.NotNil(t, p)
	assert.Equal(t, int64(42), p.Value)
}

func TestArenaAllocSurvivesChunkGrowth(t *testing.T) {
	a := NewArena()
	var ptrs []*IntLiteral
	// chunkSize is 64; allocate enough to force several chunk rollovers
	// and confirm earlier pointers stay valid (no slice-growth reallocation).
	for i := 0; i < 500; i++ {
		ptrs = append(ptrs, Alloc(a, IntLiteral{Value: int64(i)}))
	}
	for i, p := range ptrs {
		assert.Equal(t, int64(i), p.Value, "pointer %d was invalidated by a later allocation", i)
	}
}

func TestArenaKeepsDistinctTypesInDistinctSlabs(t *testing.T) {
	a := NewArena()
	i := Alloc(a, IntLiteral{Value: 1})
	s := Alloc(a, StringLiteral{Value: "x"})
	assert.Equal(t, int64(1), i.Value)
	assert.Equal(t, "x", s.Value)
}

func TestArenaAllocatedNodesImplementExpr(t *testing.T) {
	a := NewArena()
	var e Expr = Alloc(a, Variable{Name: "x"})
	v, ok := e.(*Variable)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name)
}
