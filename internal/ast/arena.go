package ast

import "reflect"

// Arena is a single-lifetime bump allocator. Every node and composite
// Type produced by the parser for one source file is allocated from one
// Arena and discarded together at the end of the parse; primitive types
// are the shared package-level singletons, not arena copies.
//
// Retargeted from a runtime-memory arena emitted into generated code to
// a parser-side Go arena holding AST nodes.
type Arena struct {
	slabs map[reflect.Type]any
}

func NewArena() *Arena {
	return &Arena{slabs: make(map[reflect.Type]any)}
}

type typedSlab[T any] struct {
	chunks    [][]T
	chunkSize int
}

func slabFor[T any](a *Arena) *typedSlab[T] {
	var zero T
	key := reflect.TypeOf(zero)
	if s, ok := a.slabs[key]; ok {
		return s.(*typedSlab[T])
	}
	s := &typedSlab[T]{chunkSize: 64}
	a.slabs[key] = s
	return s
}

// Alloc copies v into the arena and returns a stable pointer to the copy.
func Alloc[T any](a *Arena, v T) *T {
	s := slabFor[T](a)
	if len(s.chunks) == 0 {
		s.chunks = append(s.chunks, make([]T, 0, s.chunkSize))
	}
	last := len(s.chunks) - 1
	if len(s.chunks[last]) == cap(s.chunks[last]) {
		s.chunks = append(s.chunks, make([]T, 0, s.chunkSize))
		last++
	}
	s.chunks[last] = append(s.chunks[last], v)
	return &s.chunks[last][len(s.chunks[last])-1]
}
