package sema

import "github.com/onelang/oneim/internal/ast"

// resolved is the outcome of type-checking one expression: either a
// concrete type, or one of the two literal placeholders that have not yet
// been pinned to a concrete numeric type, or the null placeholder.
type resolved struct {
	T          *ast.Type
	IsIntLit   bool
	IsFloatLit bool
	IsNull     bool
}

func concrete(t *ast.Type) resolved { return resolved{T: t} }

var intLit = resolved{IsIntLit: true}
var floatLit = resolved{IsFloatLit: true}
var nullLit = resolved{IsNull: true}

// defaultType collapses an unconstrained placeholder to its default
// concrete type (int literals default to i32, float literals to f64).
func (r resolved) defaultType() *ast.Type {
	switch {
	case r.T != nil:
		return r.T
	case r.IsIntLit:
		return ast.I32Type
	case r.IsFloatLit:
		return ast.F64Type
	case r.IsNull:
		return ast.StrType
	default:
		return nil
	}
}

// unifyWithContext resolves r against an expected type (e.g. the declared
// type of a typed_assign, or a parameter type), returning the concrete
// type the value takes on, or an error if the combination is illegal.
func unifyWithContext(expect *ast.Type, r resolved, pos ast.Pos, a *analyzer) (*ast.Type, error) {
	switch {
	case r.T != nil:
		if !ast.Equal(expect, r.T) {
			return nil, a.errf(pos, "cannot use value of type %s where %s is expected", r.T, expect)
		}
		return expect, nil
	case r.IsIntLit:
		if expect.IsInteger() {
			return expect, nil
		}
		return nil, a.errf(pos, "cannot use an integer literal where %s is expected", expect)
	case r.IsFloatLit:
		if expect.IsFloat() {
			return expect, nil
		}
		return nil, a.errf(pos, "cannot use a float literal where %s is expected", expect)
	case r.IsNull:
		if expect.Kind == ast.Str {
			return expect, nil
		}
		return nil, a.errf(pos, "null can only be assigned to str, not %s", expect)
	default:
		return nil, a.errf(pos, "expression has no determinable type")
	}
}

// combine unifies two operand resolutions for a binary arithmetic or
// comparison operator: two concrete types must be
// structurally equal; a literal placeholder unifies with a concrete
// numeric type of the matching kind; two placeholders of the same literal
// kind combine into that same placeholder; mixed int/float placeholders,
// or a placeholder against an incompatible concrete type, are rejected.
func combine(l, r resolved, pos ast.Pos, a *analyzer) (resolved, error) {
	if l.T != nil && r.T != nil {
		if !ast.Equal(l.T, r.T) {
			return resolved{}, a.errf(pos, "cannot combine values of type %s and %s", l.T, r.T)
		}
		return l, nil
	}
	if l.T != nil {
		t, err := unifyLitAgainst(l.T, r, pos, a)
		return concrete(t), err
	}
	if r.T != nil {
		t, err := unifyLitAgainst(r.T, l, pos, a)
		return concrete(t), err
	}
	// both sides are placeholders
	if l.IsIntLit && r.IsIntLit {
		return intLit, nil
	}
	if l.IsFloatLit && r.IsFloatLit {
		return floatLit, nil
	}
	return resolved{}, a.errf(pos, "cannot combine an integer literal with a float literal")
}

func unifyLitAgainst(concreteT *ast.Type, lit resolved, pos ast.Pos, a *analyzer) (*ast.Type, error) {
	switch {
	case lit.IsIntLit:
		if !concreteT.IsInteger() {
			return nil, a.errf(pos, "cannot combine an integer literal with %s", concreteT)
		}
	case lit.IsFloatLit:
		if !concreteT.IsFloat() {
			return nil, a.errf(pos, "cannot combine a float literal with %s", concreteT)
		}
	default:
		return nil, a.errf(pos, "incompatible operand types")
	}
	return concreteT, nil
}

// assignable reports whether a value resolved as r may be stored into a
// binding already declared with type target (used for array-element
// homogeneity and for re-assignment of an existing variable). When target
// is an error union this only matches r.T equal to that exact union —
// there is no grammar construct that yields a bare Ok- or Err-side value
// outside a return statement's own `error <expr>`/`try <expr>` forms, so
// a literal or concrete value of either side can never satisfy it here.
func assignable(target *ast.Type, r resolved) bool {
	switch {
	case r.T != nil:
		return ast.Equal(target, r.T)
	case r.IsIntLit:
		return target.IsInteger()
	case r.IsFloatLit:
		return target.IsFloat()
	case r.IsNull:
		return target.Kind == ast.Str
	default:
		return false
	}
}

// validateType enforces the structural invariants on a type annotation
// wherever one appears in source (param, declared var, return type):
// a slice's element must not itself be an array, and an error union's ok
// and err sides must differ and neither may itself be an array or error
// union.
func validateType(t *ast.Type, pos ast.Pos, a *analyzer) error {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case ast.SliceType:
		if t.Elem.Kind == ast.ArrayType {
			return a.errf(pos, "a slice's element type must not itself be an array")
		}
		return validateType(t.Elem, pos, a)
	case ast.ArrayType:
		return validateType(t.Elem, pos, a)
	case ast.ErrorUnion:
		if t.Ok.Kind == ast.ArrayType || t.Ok.Kind == ast.ErrorUnion {
			return a.errf(pos, "an error union's ok type must not be an array or another error union")
		}
		if t.Err.Kind == ast.ArrayType || t.Err.Kind == ast.ErrorUnion {
			return a.errf(pos, "an error union's err type must not be an array or another error union")
		}
		if ast.Equal(t.Ok, t.Err) {
			return a.errf(pos, "an error union's ok and err types must differ")
		}
	}
	return nil
}
