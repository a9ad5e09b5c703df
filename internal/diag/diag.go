// Package diag defines the shared diagnostic type used across every stage
// of the pipeline: lexer, parser, analyzer, and code generator.
package diag

import (
	"fmt"
	"strings"
)

// Category classifies which pipeline stage raised the error, matching the
// five-kind taxonomy of the error-handling design: lexical, syntactic,
// semantic, codegen capability, and out-of-memory.
type Category int

const (
	Lexical Category = iota
	Syntactic
	Semantic
	Codegen
	OutOfMemory
)

func (c Category) String() string {
	switch c {
	case Lexical:
		return "lexical error"
	case Syntactic:
		return "syntax error"
	case Semantic:
		return "semantic error"
	case Codegen:
		return "codegen error"
	case OutOfMemory:
		return "out of memory"
	default:
		return "error"
	}
}

// Location is a 1-indexed source position.
type Location struct {
	Line int
	Col  int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

// Error is the single fatal diagnostic the pipeline surfaces. The pipeline
// is fail-fast: at most one Error is ever produced per run, and no partial
// output follows it.
type Error struct {
	Category   Category
	Message    string
	Location   Location
	SourceLine string // optional: the offending line of source, for Format
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Category, e.Message, e.Location)
}

// Format renders a multi-line, human-readable diagnostic with a caret
// pointing at the column, the way a terminal-facing compiler does. When
// useColor is false it degrades to a single plain line suitable for
// capturing in logs or tests.
func (e *Error) Format(useColor bool) string {
	if !useColor {
		return e.Error()
	}
	var sb strings.Builder
	sb.WriteString("\033[1;31m")
	sb.WriteString(e.Category.String())
	sb.WriteString("\033[0m: ")
	sb.WriteString(e.Message)
	sb.WriteString("\n  --> ")
	sb.WriteString(e.Location.String())
	sb.WriteString("\n")
	if e.SourceLine != "" {
		sb.WriteString(fmt.Sprintf("%4d | %s\n", e.Location.Line, e.SourceLine))
		sb.WriteString("     | ")
		if e.Location.Col > 1 {
			sb.WriteString(strings.Repeat(" ", e.Location.Col-1))
		}
		sb.WriteString("\033[1;31m^\033[0m\n")
	}
	return sb.String()
}

// New builds a Error at the given category and location.
func New(cat Category, loc Location, format string, args ...interface{}) *Error {
	return &Error{Category: cat, Message: fmt.Sprintf(format, args...), Location: loc}
}

// WithSourceLine attaches the offending source line for richer formatting
// and returns the same error for chaining.
func (e *Error) WithSourceLine(source string) *Error {
	lines := strings.Split(source, "\n")
	if e.Location.Line >= 1 && e.Location.Line <= len(lines) {
		e.SourceLine = lines[e.Location.Line-1]
	}
	return e
}
