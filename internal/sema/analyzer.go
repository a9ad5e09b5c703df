// Package sema implements the semantic analyzer: scope discipline, typing
// judgements, control-flow checks, error-handling rules, parallel-block
// restrictions, and return-path coverage. The analyzer is a checker
// only — it never mutates the tree — but it does record every resolved
// expression/declaration type so internal/codegen never has to re-derive
// them (a single collapsed return-type inference pass, recorded in
// SPEC_FULL.md's open-question decisions).
package sema

import (
	"github.com/onelang/oneim/internal/ast"
	"github.com/onelang/oneim/internal/diag"
)

// Signature is a function's collected (params, return type) pair. After
// Analyze returns successfully, ReturnType is always concrete: either
// the explicit annotation or the single inferred result.
type Signature struct {
	Params     []ast.Param
	ReturnType *ast.Type
	Inferred   bool
}

// Analysis is the result of a successful Analyze call, consumed by
// internal/codegen.
type Analysis struct {
	Signatures map[string]*Signature
	// Types records the resolved, placeholder-free type of every
	// expression node visited during analysis.
	Types map[ast.Expr]*ast.Type
	// Decls records the resolved type of every set_assign/typed_assign
	// statement, whether it declares a new binding or reassigns one.
	Decls map[ast.Stmt]*ast.Type
	// Declares marks which of those statements introduce a brand-new
	// binding (true) versus reassign an existing one (false) — internal/
	// codegen needs this to know whether the emitted C line needs a type
	// (`int32_t x = ...;`) or is a plain reassignment (`x = ...;`).
	Declares map[ast.Stmt]bool
	// InferredReturns holds only the functions whose return type was
	// omitted in source, so internal/codegen can tell an inferred
	// signature from an explicit one without re-deriving it.
	InferredReturns map[string]*ast.Type
}

type scope map[string]*ast.Type

type analyzer struct {
	source    string
	sigs      map[string]*Signature
	scopes    []scope
	loopDepth int
	fn        *Signature // signature of the function currently being checked
	types     map[ast.Expr]*ast.Type
	decls     map[ast.Stmt]*ast.Type
	declares  map[ast.Stmt]bool
}

// Analyze runs the full semantic pass over prog, returning the first
// diag.Error encountered or a complete Analysis on success.
func Analyze(prog *ast.Program, source string) (*Analysis, error) {
	a := &analyzer{
		source: source,
		sigs:   make(map[string]*Signature),
		scopes: []scope{make(scope)},
		types:    make(map[ast.Expr]*ast.Type),
		decls:    make(map[ast.Stmt]*ast.Type),
		declares: make(map[ast.Stmt]bool),
	}

	if err := a.collectSignatures(prog); err != nil {
		return nil, err
	}
	if err := a.inferReturnTypes(prog); err != nil {
		return nil, err
	}

	for _, stmt := range prog.Stmts {
		if err := a.checkStmt(stmt); err != nil {
			return nil, err
		}
	}

	inferred := make(map[string]*ast.Type)
	for name, sig := range a.sigs {
		if sig.Inferred {
			inferred[name] = sig.ReturnType
		}
	}

	return &Analysis{
		Signatures:      a.sigs,
		Types:           a.types,
		Decls:           a.decls,
		Declares:        a.declares,
		InferredReturns: inferred,
	}, nil
}

func (a *analyzer) errf(pos ast.Pos, format string, args ...interface{}) error {
	return diag.New(diag.Semantic, diag.Location{Line: pos.Line, Col: pos.Col}, format, args...).WithSourceLine(a.source)
}

func (a *analyzer) pushScope() { a.scopes = append(a.scopes, make(scope)) }
func (a *analyzer) popScope()  { a.scopes = a.scopes[:len(a.scopes)-1] }

// visibleAnywhere reports whether name is declared in any enclosing
// scope, innermost first.
func (a *analyzer) visibleAnywhere(name string) (*ast.Type, bool) {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if t, ok := a.scopes[i][name]; ok {
			return t, true
		}
	}
	return nil, false
}

// allVisibleNames collects every variable name visible from the current
// scope stack, for use in "did you mean" diagnostics.
func (a *analyzer) allVisibleNames() []string {
	var names []string
	for _, sc := range a.scopes {
		for name := range sc {
			names = append(names, name)
		}
	}
	return names
}

// allFunctionNames collects every declared function name, for use in
// "did you mean" diagnostics.
func (a *analyzer) allFunctionNames() []string {
	names := make([]string, 0, len(a.sigs))
	for name := range a.sigs {
		names = append(names, name)
	}
	return names
}

func (a *analyzer) declareInCurrent(pos ast.Pos, name string, t *ast.Type) error {
	if _, exists := a.visibleAnywhere(name); exists {
		return a.errf(pos, "%q is already declared in an enclosing scope", name)
	}
	a.scopes[len(a.scopes)-1][name] = t
	return nil
}
