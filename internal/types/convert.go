package types

// IsPrimitive reports whether id is a primitive type.
func (in *Interner) IsPrimitive(id TypeID) bool {
	return in.KindOf(id).IsPrimitive()
}

// IsReference reports whether id is a reference type (class, array, type
// variable, intersection or the null type).
func (in *Interner) IsReference(id TypeID) bool {
	switch in.KindOf(id) {
	case KindClass, KindArray, KindTypeVar, KindIntersection, KindNull:
		return true
	}
	return false
}

// IsSentinel reports whether id is the unknown or the error type.
func (in *Interner) IsSentinel(id TypeID) bool {
	k := in.KindOf(id)
	return k == KindUnknown || k == KindError
}

// Box returns the wrapper class of a primitive type, or id itself.
func (in *Interner) Box(id TypeID) TypeID {
	if w, ok := in.boxes[in.KindOf(id)]; ok {
		return w
	}
	return id
}

// Unbox returns the primitive type of a wrapper class, or id itself.
func (in *Interner) Unbox(id TypeID) TypeID {
	info := in.classInfo(id)
	if info == nil || info.Unboxed == KindInvalid {
		return id
	}
	return in.Intern(Type{Kind: info.Unboxed})
}

// primitiveWidens reports whether from <: to under primitive subtyping:
// byte < short < int < long < float < double and char < int.
func primitiveWidens(from, to Kind) bool {
	if from == to {
		return true
	}
	switch from {
	case KindByte:
		return to == KindShort || to == KindInt || to == KindLong || to == KindFloat || to == KindDouble
	case KindShort, KindChar:
		return to == KindInt || to == KindLong || to == KindFloat || to == KindDouble
	case KindInt:
		return to == KindLong || to == KindFloat || to == KindDouble
	case KindLong:
		return to == KindFloat || to == KindDouble
	case KindFloat:
		return to == KindDouble
	}
	return false
}

// IsSubtype reports whether t is a subtype of s. The unknown and error
// types are compatible with everything so that broken code does not
// cascade into more failures.
func (in *Interner) IsSubtype(t, s TypeID) bool {
	if t == s {
		return true
	}
	tk, sk := in.KindOf(t), in.KindOf(s)
	if tk == KindUnknown || tk == KindError || sk == KindUnknown || sk == KindError {
		return true
	}
	if tk.IsPrimitive() || sk.IsPrimitive() {
		return tk.IsPrimitive() && sk.IsPrimitive() && primitiveWidens(tk, sk)
	}
	if tk == KindVoid || sk == KindVoid || sk == KindNull {
		return false
	}
	if tk == KindNull {
		return true
	}
	if sk == KindIntersection {
		for _, m := range in.IntersectionMembers(s) {
			if !in.IsSubtype(t, m) {
				return false
			}
		}
		return true
	}
	if s == in.builtins.Object {
		return true
	}
	switch tk {
	case KindClass:
		if sk != KindClass {
			return false
		}
		return in.supertypeSet(t).Contains(s)
	case KindTypeVar:
		info, _ := in.TypeVarInfo(t)
		return in.IsSubtype(info.Bound, s)
	case KindIntersection:
		for _, m := range in.IntersectionMembers(t) {
			if in.IsSubtype(m, s) {
				return true
			}
		}
		return false
	case KindArray:
		if sk == KindArray {
			te, se := in.ArrayComponent(t), in.ArrayComponent(s)
			if in.IsPrimitive(te) || in.IsPrimitive(se) {
				return te == se
			}
			return in.IsSubtype(te, se)
		}
		return s == in.builtins.Serializable
	}
	return false
}

// IsConvertibleThroughBoxing reports whether t converts to s, allowing one
// boxing or unboxing step followed by widening.
func (in *Interner) IsConvertibleThroughBoxing(t, s TypeID) bool {
	tp, sp := in.IsPrimitive(t), in.IsPrimitive(s)
	switch {
	case tp == sp:
		return in.IsSubtype(t, s)
	case tp:
		return in.IsSubtype(in.Box(t), s)
	default:
		u := in.Unbox(t)
		return in.IsPrimitive(u) && in.IsSubtype(u, s)
	}
}

// IsAssignable reports whether a value of type t can be passed where s is
// expected in a loose invocation context.
func (in *Interner) IsAssignable(t, s TypeID) bool {
	return in.IsSubtype(t, s) || in.IsConvertibleThroughBoxing(t, s)
}
