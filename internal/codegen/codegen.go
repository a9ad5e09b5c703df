// Package codegen lowers a checked program to C11 source text: a single
// generator struct threads a type/helper registry and an output buffer
// through per-node-kind emit methods, building C source with a
// strings.Builder rather than encoding machine instructions.
package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/onelang/oneim/internal/ast"
	"github.com/onelang/oneim/internal/diag"
	"github.com/onelang/oneim/internal/sema"
)

// Options carries the small set of codegen-visible knobs exposed through
// the CLI (ONEIM_CFLAGS and friends configure the host compiler invocation
// at a different layer). EmitPragmaOMP affects the emitted text;
// ThreadStackHint is carried but not read by the generator.
type Options struct {
	EmitPragmaOMP   bool
	ThreadStackHint int
}

type generator struct {
	analysis *sema.Analysis
	opts     Options

	body strings.Builder // function bodies, emitted in source order
	main strings.Builder // top-level statements not inside any function

	helperOrder []string          // structural keys, in first-registered order
	helperDecls map[string]string // structural key -> emitted typedef block
	helperNames map[string]string // structural key -> C type name

	usesPthread       bool
	tempCounter       int
	indent            int
	currentReturnType *ast.Type // nil while emitting top-level statements (they live in the synthesized int main)
}

// Generate lowers prog (already checked by analysis) to a complete C11
// translation unit.
func Generate(prog *ast.Program, analysis *sema.Analysis, opts Options) (string, error) {
	g := &generator{
		analysis:    analysis,
		opts:        opts,
		helperDecls: make(map[string]string),
		helperNames: make(map[string]string),
	}

	var fns []*ast.FunctionDef
	var topLevel []ast.Stmt
	for _, stmt := range prog.Stmts {
		if fn, ok := stmt.(*ast.FunctionDef); ok {
			fns = append(fns, fn)
		} else {
			topLevel = append(topLevel, stmt)
		}
	}

	for _, fn := range fns {
		if err := g.emitFunction(fn); err != nil {
			return "", err
		}
	}

	g.indent = 1
	for _, s := range topLevel {
		if err := g.emitStmt(&g.main, s); err != nil {
			return "", err
		}
	}
	g.indent = 0

	return g.assemble(fns), nil
}

func (g *generator) assemble(fns []*ast.FunctionDef) string {
	var out strings.Builder
	out.WriteString("#include <stdint.h>\n")
	out.WriteString("#include <stdbool.h>\n")
	out.WriteString("#include <stdio.h>\n")
	out.WriteString("#include <stdlib.h>\n")
	out.WriteString("#include <string.h>\n")
	if g.opts.EmitPragmaOMP {
		out.WriteString("#include <omp.h>\n")
	}
	if g.usesPthread {
		out.WriteString("#include <pthread.h>\n")
	}
	out.WriteString("\n")

	for _, key := range g.helperOrder {
		out.WriteString(g.helperDecls[key])
		out.WriteString("\n")
	}

	for _, fn := range fns {
		out.WriteString(g.prototype(fn))
		out.WriteString(";\n")
	}
	if len(fns) > 0 {
		out.WriteString("\n")
	}

	out.WriteString(g.body.String())

	out.WriteString("int main(void) {\n")
	out.WriteString(g.main.String())
	out.WriteString("\treturn 0;\n}\n")
	return out.String()
}

func (g *generator) prototype(fn *ast.FunctionDef) string {
	sig := g.analysis.Signatures[fn.Name]
	var params []string
	for _, p := range fn.Params {
		params = append(params, fmt.Sprintf("%s %s", g.cType(p.Type), p.Name))
	}
	if len(params) == 0 {
		params = append(params, "void")
	}
	return fmt.Sprintf("%s %s(%s)", g.cType(sig.ReturnType), fn.Name, strings.Join(params, ", "))
}

func (g *generator) emitFunction(fn *ast.FunctionDef) error {
	sig := g.analysis.Signatures[fn.Name]
	g.body.WriteString(g.prototype(fn))
	g.body.WriteString(" {\n")
	g.indent = 1
	g.currentReturnType = sig.ReturnType
	for _, s := range fn.Body {
		if err := g.emitStmt(&g.body, s); err != nil {
			return err
		}
	}
	g.currentReturnType = nil
	g.indent = 0
	g.body.WriteString("}\n\n")
	return nil
}

func (g *generator) writeIndent(w *strings.Builder) {
	for i := 0; i < g.indent; i++ {
		w.WriteString("\t")
	}
}

func (g *generator) newTemp(prefix string) string {
	g.tempCounter++
	return fmt.Sprintf("_%s%d", prefix, g.tempCounter)
}

// cType maps an oneim type to its C spelling, registering a structural
// helper typedef for composite kinds on first use.
func (g *generator) cType(t *ast.Type) string {
	switch t.Kind {
	case ast.I8:
		return "int8_t"
	case ast.I16:
		return "int16_t"
	case ast.I32:
		return "int32_t"
	case ast.I64:
		return "int64_t"
	case ast.U8:
		return "uint8_t"
	case ast.U16:
		return "uint16_t"
	case ast.U32:
		return "uint32_t"
	case ast.U64:
		return "uint64_t"
	case ast.F32:
		return "float"
	case ast.F64:
		return "double"
	case ast.Bool:
		return "bool"
	case ast.Str:
		return "const char*"
	case ast.Void:
		return "void"
	case ast.ArrayType, ast.SliceType, ast.ErrorUnion:
		return g.registerHelper(t)
	default:
		return "void"
	}
}

// registerHelper materializes a composite type's C representation on
// demand, keyed by its structural signature, so two occurrences of e.g.
// `[]i32` anywhere in the program share one struct.
func (g *generator) registerHelper(t *ast.Type) string {
	key := t.String()
	if name, ok := g.helperNames[key]; ok {
		return name
	}
	name := sanitizeKey(key)
	g.helperNames[key] = name // reserve before recursing, in case t is self-referential through equal keys
	g.helperOrder = append(g.helperOrder, key)

	var decl string
	switch t.Kind {
	case ast.ArrayType:
		elemC := g.cType(t.Elem)
		decl = fmt.Sprintf("typedef struct { %s items[%d]; int64_t len; } %s;\n", elemC, t.Len, name)
	case ast.SliceType:
		elemC := g.cType(t.Elem)
		decl = fmt.Sprintf("typedef struct { %s *data; int64_t len; } %s;\n", elemC, name)
	case ast.ErrorUnion:
		okC := g.cType(t.Ok)
		errC := g.cType(t.Err)
		decl = fmt.Sprintf(
			"typedef struct {\n\tbool is_err;\n\tunion { %s ok; %s err; } value;\n} %s;\n"+
				"static inline %s %s_ok(%s v) { %s r; r.is_err = false; r.value.ok = v; return r; }\n"+
				"static inline %s %s_err(%s v) { %s r; r.is_err = true; r.value.err = v; return r; }\n",
			okC, errC, name,
			name, name, okC, name,
			name, name, errC, name,
		)
	}
	g.helperDecls[key] = decl
	return name
}

// sanitizeKey turns a Type.String() rendering (e.g. "[]i32", "i32!str")
// into a legal, stable C identifier.
func sanitizeKey(key string) string {
	var sb strings.Builder
	sb.WriteString("t_")
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// sortedHelperKeys returns the registered structural keys in sorted
// order, for deterministic inspection of what got registered; nothing
// in the package calls it at present.
func (g *generator) sortedHelperKeys() []string {
	keys := append([]string(nil), g.helperOrder...)
	sort.Strings(keys)
	return keys
}

func (g *generator) errf(pos ast.Pos, format string, args ...interface{}) error {
	return diag.New(diag.Codegen, diag.Location{Line: pos.Line, Col: pos.Col}, format, args...)
}
