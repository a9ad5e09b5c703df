package ast

import "fmt"

// TypeKind is the closed sum of type expressions.
type TypeKind int

const (
	I8 TypeKind = iota
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
	Bool
	Str
	Void
	ArrayType
	SliceType
	ErrorUnion
)

// Type is the closed type-expression sum. Primitives only set Kind.
// ArrayType sets Len and Elem. SliceType sets Elem. ErrorUnion sets Ok
// and Err. Composite Types built by the parser live in its arena;
// primitives are the shared singletons declared below.
type Type struct {
	Kind TypeKind
	Len  int   // ArrayType only
	Elem *Type // ArrayType, SliceType
	Ok   *Type // ErrorUnion
	Err  *Type // ErrorUnion
}

func (t *Type) IsInteger() bool {
	switch t.Kind {
	case I8, I16, I32, I64, U8, U16, U32, U64:
		return true
	}
	return false
}

func (t *Type) IsSignedInteger() bool {
	switch t.Kind {
	case I8, I16, I32, I64:
		return true
	}
	return false
}

func (t *Type) IsFloat() bool { return t.Kind == F32 || t.Kind == F64 }
func (t *Type) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat()
}

// Equal reports structural equality: two types combine only when they are
// equal under this definition.
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ArrayType:
		return a.Len == b.Len && Equal(a.Elem, b.Elem)
	case SliceType:
		return Equal(a.Elem, b.Elem)
	case ErrorUnion:
		return Equal(a.Ok, b.Ok) && Equal(a.Err, b.Err)
	default:
		return true
	}
}

// String renders a type the way the surface syntax spells it, used both
// for error messages and for deriving codegen structural keys.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case Bool:
		return "bool"
	case Str:
		return "str"
	case Void:
		return "void"
	case ArrayType:
		return fmt.Sprintf("[%d]%s", t.Len, t.Elem)
	case SliceType:
		return "[]" + t.Elem.String()
	case ErrorUnion:
		return fmt.Sprintf("%s!%s", t.Ok, t.Err)
	default:
		return "<unknown type>"
	}
}

// Primitive type singletons: types carry no arena-specific identity beyond
// their field values, so these may be shared freely (nothing mutates a
// Type once built).
var (
	I8Type   = &Type{Kind: I8}
	I16Type  = &Type{Kind: I16}
	I32Type  = &Type{Kind: I32}
	I64Type  = &Type{Kind: I64}
	U8Type   = &Type{Kind: U8}
	U16Type  = &Type{Kind: U16}
	U32Type  = &Type{Kind: U32}
	U64Type  = &Type{Kind: U64}
	F32Type  = &Type{Kind: F32}
	F64Type  = &Type{Kind: F64}
	BoolType = &Type{Kind: Bool}
	StrType  = &Type{Kind: Str}
	VoidType = &Type{Kind: Void}
)

func PrimitiveByKind(k TypeKind) *Type {
	switch k {
	case I8:
		return I8Type
	case I16:
		return I16Type
	case I32:
		return I32Type
	case I64:
		return I64Type
	case U8:
		return U8Type
	case U16:
		return U16Type
	case U32:
		return U32Type
	case U64:
		return U64Type
	case F32:
		return F32Type
	case F64:
		return F64Type
	case Bool:
		return BoolType
	case Str:
		return StrType
	case Void:
		return VoidType
	}
	return nil
}
