package types

import "slices"

// ClassInfo stores metadata for a nominal class or interface type.
type ClassInfo struct {
	Name       string
	Interface  bool
	Super      TypeID   // NoTypeID only for Object and interfaces
	Interfaces []TypeID // directly implemented or extended interfaces
	Unboxed    Kind     // primitive kind for wrapper classes, KindInvalid otherwise
	Functional *MethodSig
}

// TypeVarInfo stores metadata for a method type parameter.
type TypeVarInfo struct {
	Name  string
	Bound TypeID
}

// RegisterClass allocates a nominal class type. A missing superclass
// defaults to Object.
func (in *Interner) RegisterClass(name string, super TypeID, ifaces ...TypeID) TypeID {
	if super == NoTypeID && in.builtins.Object != NoTypeID {
		super = in.builtins.Object
	}
	return in.registerNominal(ClassInfo{Name: name, Super: super, Interfaces: slices.Clone(ifaces)})
}

// RegisterInterface allocates a nominal interface type.
func (in *Interner) RegisterInterface(name string, ifaces ...TypeID) TypeID {
	return in.registerNominal(ClassInfo{Name: name, Interface: true, Interfaces: slices.Clone(ifaces)})
}

func (in *Interner) registerNominal(info ClassInfo) TypeID {
	in.classes = append(in.classes, info)
	id := in.internRaw(Type{Kind: KindClass, Payload: nextSlot(len(in.classes)-1, "class info")})
	in.byName[info.Name] = id
	return id
}

// ClassByName returns the most recently registered class named name.
func (in *Interner) ClassByName(name string) (TypeID, bool) {
	id, ok := in.byName[name]
	return id, ok
}

// ClassInfo returns metadata for the provided class TypeID.
func (in *Interner) ClassInfo(id TypeID) (*ClassInfo, bool) {
	info := in.classInfo(id)
	return info, info != nil
}

func (in *Interner) classInfo(id TypeID) *ClassInfo {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindClass {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.classes) {
		return nil
	}
	return &in.classes[tt.Payload]
}

// SuperClass returns the direct superclass of a class type. Interfaces and
// Object have none.
func (in *Interner) SuperClass(id TypeID) TypeID {
	info := in.classInfo(id)
	if info == nil {
		return NoTypeID
	}
	return info.Super
}

// SetFunctional marks an interface as functional with the given single
// abstract method.
func (in *Interner) SetFunctional(id TypeID, sig MethodSig) {
	info := in.classInfo(id)
	if info == nil {
		return
	}
	sig.Owner = id
	sig.Params = slices.Clone(sig.Params)
	info.Functional = &sig
}

// FunctionalMethod returns the single abstract method of a functional
// interface type, searching super interfaces.
func (in *Interner) FunctionalMethod(id TypeID) (MethodSig, bool) {
	info := in.classInfo(id)
	if info == nil {
		return MethodSig{}, false
	}
	if info.Functional != nil {
		return *info.Functional, true
	}
	if !info.Interface {
		return MethodSig{}, false
	}
	for _, sup := range info.Interfaces {
		if sig, ok := in.FunctionalMethod(sup); ok {
			return sig, true
		}
	}
	return MethodSig{}, false
}

// NewTypeVar allocates a fresh type variable. A missing bound defaults to
// Object.
func (in *Interner) NewTypeVar(name string, bound TypeID) TypeID {
	if bound == NoTypeID {
		bound = in.builtins.Object
	}
	in.tvars = append(in.tvars, TypeVarInfo{Name: name, Bound: bound})
	return in.internRaw(Type{Kind: KindTypeVar, Payload: nextSlot(len(in.tvars)-1, "type var")})
}

// TypeVarInfo returns metadata for a type variable.
func (in *Interner) TypeVarInfo(id TypeID) (TypeVarInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTypeVar || int(tt.Payload) >= len(in.tvars) {
		return TypeVarInfo{}, false
	}
	return in.tvars[tt.Payload], true
}

// Intersection interns the intersection of members. Members are expected
// to be sorted and free of duplicates; LUB produces them that way.
func (in *Interner) Intersection(members []TypeID) TypeID {
	switch len(members) {
	case 0:
		return in.builtins.Object
	case 1:
		return members[0]
	}
	for slot := 1; slot < len(in.inters); slot++ {
		if slices.Equal(in.inters[slot], members) {
			return in.index[Type{Kind: KindIntersection, Payload: nextSlot(slot, "intersection")}]
		}
	}
	in.inters = append(in.inters, slices.Clone(members))
	return in.internRaw(Type{Kind: KindIntersection, Payload: nextSlot(len(in.inters)-1, "intersection")})
}

// IntersectionMembers returns the components of an intersection type.
func (in *Interner) IntersectionMembers(id TypeID) []TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindIntersection || int(tt.Payload) >= len(in.inters) {
		return nil
	}
	return slices.Clone(in.inters[tt.Payload])
}
