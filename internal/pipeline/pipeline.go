// Package pipeline orchestrates compilation through five stages —
// initialization, lex+parse, semantic analysis, code generation,
// complete — as an explicit state machine: a Stage enum
// with a String() method, a Pipeline that refuses out-of-order
// transitions, and a stage history kept for diagnostics.
package pipeline

import (
	"fmt"
	"os"

	"github.com/onelang/oneim/internal/ast"
	"github.com/onelang/oneim/internal/codegen"
	"github.com/onelang/oneim/internal/parser"
	"github.com/onelang/oneim/internal/sema"
)

// Stage is one step of the pipeline, always visited in ascending order.
type Stage int

const (
	StageInit Stage = iota
	StageLexParse
	StageAnalyze
	StageCodegen
	StageComplete
)

func (s Stage) String() string {
	switch s {
	case StageInit:
		return "initialization"
	case StageLexParse:
		return "lex+parse"
	case StageAnalyze:
		return "semantic analysis"
	case StageCodegen:
		return "code generation"
	case StageComplete:
		return "complete"
	default:
		return fmt.Sprintf("unknown stage %d", s)
	}
}

// Verbose enables the pipeline's stage-transition trace, wired to the CLI's
// ONEIM_VERBOSE configuration (see cmd/oneim).
var Verbose bool

// Pipeline tracks the current stage and refuses to advance out of order.
type Pipeline struct {
	stage   Stage
	history []Stage
}

func New() *Pipeline {
	return &Pipeline{stage: StageInit, history: []Stage{StageInit}}
}

func (p *Pipeline) advance(to Stage) {
	if to != p.stage+1 {
		panic(fmt.Sprintf("invalid pipeline transition: %s -> %s", p.stage, to))
	}
	p.stage = to
	p.history = append(p.history, to)
	if Verbose {
		fmt.Fprintf(os.Stderr, "pipeline: advanced to %s\n", to)
	}
}

// Result is everything produced by a successful Run: the AST (and the
// arena it lives in, kept alive for the caller's lifetime), the semantic
// analysis, and the generated C11 source.
type Result struct {
	Program  *ast.Program
	Arena    *ast.Arena
	Analysis *sema.Analysis
	C        string
}

// Run executes all five stages against source, stopping at the first
// diag.Error. Options carries the small set of codegen-visible knobs
// exposed to callers (pragma-omp emission, thread stack hint).
func Run(source string, opts codegen.Options) (*Result, error) {
	p := New()

	prog, arena, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	p.advance(StageLexParse)

	analysis, err := sema.Analyze(prog, source)
	if err != nil {
		return nil, err
	}
	p.advance(StageAnalyze)

	out, err := codegen.Generate(prog, analysis, opts)
	if err != nil {
		return nil, err
	}
	p.advance(StageCodegen)

	p.advance(StageComplete)
	return &Result{Program: prog, Arena: arena, Analysis: analysis, C: out}, nil
}
