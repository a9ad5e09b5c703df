package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEqualMatchesStructurallyIdenticalComposites(t *testing.T) {
	a := &Type{Kind: SliceType, Elem: &Type{Kind: ErrorUnion, Ok: I32Type, Err: StrType}}
	b := &Type{Kind: SliceType, Elem: &Type{Kind: ErrorUnion, Ok: I32Type, Err: StrType}}
	if !Equal(a, b) {
		t.Fatalf("expected types to be equal, diff:\n%s", cmp.Diff(a, b))
	}
}

func TestEqualRejectsDifferingComposites(t *testing.T) {
	a := &Type{Kind: ArrayType, Len: 3, Elem: I32Type}
	b := &Type{Kind: ArrayType, Len: 4, Elem: I32Type}
	if Equal(a, b) {
		t.Fatalf("expected types to differ, got no diff: %s", cmp.Diff(a, b))
	}
}

func TestStringRoundTripsThroughEqualShape(t *testing.T) {
	want := &Type{Kind: ErrorUnion, Ok: &Type{Kind: ArrayType, Len: 2, Elem: I32Type}, Err: StrType}
	got := &Type{Kind: ErrorUnion, Ok: &Type{Kind: ArrayType, Len: 2, Elem: I32Type}, Err: StrType}
	if diff := cmp.Diff(want.String(), got.String()); diff != "" {
		t.Fatalf("String() mismatch (-want +got):\n%s", diff)
	}
}
