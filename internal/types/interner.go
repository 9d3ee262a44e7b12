package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the sentinels, the primitives and the
// java.lang types every file can refer to.
type Builtins struct {
	Unknown TypeID
	Error   TypeID
	Void    TypeID
	Null    TypeID

	Boolean TypeID
	Char    TypeID
	Byte    TypeID
	Short   TypeID
	Int     TypeID
	Long    TypeID
	Float   TypeID
	Double  TypeID

	Object       TypeID
	Serializable TypeID
	Comparable   TypeID
	CharSequence TypeID
	Number       TypeID
	String       TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Nominal types (classes, type variables, intersections) get a payload slot
// in their own side table.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	builtins Builtins

	classes []ClassInfo
	byName  map[string]TypeID
	tvars   []TypeVarInfo
	inters  [][]TypeID

	boxes  map[Kind]TypeID // primitive kind -> wrapper class
	primes []TypeID        // primitives in widening order
}

// NewInterner constructs an interner seeded with the primitives and the
// java.lang universe.
func NewInterner() *Interner {
	in := &Interner{
		index:  make(map[Type]TypeID, 64),
		byName: make(map[string]TypeID, 32),
		boxes:  make(map[Kind]TypeID, len(primitiveOrder)),
	}
	in.types = append(in.types, Type{}) // reserve 0 as NoTypeID
	in.classes = append(in.classes, ClassInfo{})
	in.tvars = append(in.tvars, TypeVarInfo{})
	in.inters = append(in.inters, nil)

	b := &in.builtins
	b.Unknown = in.Intern(Type{Kind: KindUnknown})
	b.Error = in.Intern(Type{Kind: KindError})
	b.Void = in.Intern(Type{Kind: KindVoid})
	b.Null = in.Intern(Type{Kind: KindNull})
	for _, k := range primitiveOrder {
		in.primes = append(in.primes, in.Intern(Type{Kind: k}))
	}
	b.Boolean, b.Char, b.Byte, b.Short = in.primes[0], in.primes[1], in.primes[2], in.primes[3]
	b.Int, b.Long, b.Float, b.Double = in.primes[4], in.primes[5], in.primes[6], in.primes[7]

	b.Object = in.RegisterClass("Object", NoTypeID)
	b.Serializable = in.RegisterInterface("Serializable")
	b.Comparable = in.RegisterInterface("Comparable")
	b.CharSequence = in.RegisterInterface("CharSequence")
	b.Number = in.RegisterClass("Number", b.Object, b.Serializable)
	b.String = in.RegisterClass("String", b.Object, b.Serializable, b.Comparable, b.CharSequence)

	in.registerBox(KindBoolean, "Boolean", b.Object)
	in.registerBox(KindChar, "Character", b.Object)
	in.registerBox(KindByte, "Byte", b.Number)
	in.registerBox(KindShort, "Short", b.Number)
	in.registerBox(KindInt, "Integer", b.Number)
	in.registerBox(KindLong, "Long", b.Number)
	in.registerBox(KindFloat, "Float", b.Number)
	in.registerBox(KindDouble, "Double", b.Number)
	return in
}

func (in *Interner) registerBox(kind Kind, name string, super TypeID) {
	b := in.builtins
	ifaces := []TypeID{b.Comparable}
	if super == b.Object {
		ifaces = append(ifaces, b.Serializable)
	}
	id := in.RegisterClass(name, super, ifaces...)
	in.classes[in.types[id].Payload].Unboxed = kind
	in.boxes[kind] = id
}

// Builtins returns TypeIDs for the seeded types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Primitives returns the primitive types in the fixed widening order
// boolean, char, byte, short, int, long, float, double.
func (in *Interner) Primitives() []TypeID {
	out := make([]TypeID, len(in.primes))
	copy(out, in.primes)
	return out
}

// Intern ensures the provided structural descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// KindOf returns the kind of id, KindInvalid for unknown ids.
func (in *Interner) KindOf(id TypeID) Kind {
	tt, _ := in.Lookup(id)
	return tt.Kind
}

// ArrayOf returns the array type whose component is elem.
func (in *Interner) ArrayOf(elem TypeID) TypeID {
	return in.Intern(MakeArray(elem))
}

// ArrayComponent returns the component of an array type, or NoTypeID.
func (in *Interner) ArrayComponent(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindArray {
		return NoTypeID
	}
	return tt.Elem
}

func nextSlot(n int, what string) uint32 {
	slot, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("%s overflow: %w", what, err))
	}
	return slot
}
