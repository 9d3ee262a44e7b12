package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnknown
	KindError
	KindVoid
	KindNull
	KindBoolean
	KindChar
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindClass
	KindArray
	KindTypeVar
	KindIntersection
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnknown:
		return "unknown"
	case KindError:
		return "error"
	case KindVoid:
		return "void"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindChar:
		return "char"
	case KindByte:
		return "byte"
	case KindShort:
		return "short"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindClass:
		return "class"
	case KindArray:
		return "array"
	case KindTypeVar:
		return "typevar"
	case KindIntersection:
		return "intersection"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsPrimitive reports whether k is one of the eight primitive kinds.
func (k Kind) IsPrimitive() bool {
	return k >= KindBoolean && k <= KindDouble
}

// primitiveOrder is the fixed order in which primitive kinds are tried when
// looking for a common promoted type.
var primitiveOrder = [...]Kind{
	KindBoolean,
	KindChar,
	KindByte,
	KindShort,
	KindInt,
	KindLong,
	KindFloat,
	KindDouble,
}

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Elem    TypeID // for arrays
	Payload uint32 // slot in the class/type-variable/intersection tables
}

// MakeArray describes an array of elem.
func MakeArray(elem TypeID) Type {
	return Type{Kind: KindArray, Elem: elem}
}
