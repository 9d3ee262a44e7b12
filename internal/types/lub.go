package types

import (
	"slices"

	"github.com/hashicorp/go-set/v3"
)

// supertypeSet returns the reflexive, transitive set of nominal supertypes
// of t, always including Object for reference types.
func (in *Interner) supertypeSet(t TypeID) *set.Set[TypeID] {
	out := set.New[TypeID](8)
	var visit func(TypeID)
	visit = func(id TypeID) {
		if id == NoTypeID || !out.Insert(id) {
			return
		}
		switch in.KindOf(id) {
		case KindClass:
			info := in.classInfo(id)
			visit(info.Super)
			for _, i := range info.Interfaces {
				visit(i)
			}
		case KindTypeVar:
			info, _ := in.TypeVarInfo(id)
			visit(info.Bound)
		case KindIntersection:
			for _, m := range in.IntersectionMembers(id) {
				visit(m)
			}
		}
	}
	visit(t)
	if in.IsReference(t) {
		out.Insert(in.builtins.Object)
	}
	return out
}

// LUB computes the least upper bound of ts. Primitives are boxed, the null
// type is absorbed, and when several minimal common supertypes remain the
// result is their intersection. Any sentinel in ts wins.
func (in *Interner) LUB(ts []TypeID) TypeID {
	refs := make([]TypeID, 0, len(ts))
	sawNull := false
	for _, t := range ts {
		switch in.KindOf(t) {
		case KindUnknown, KindError:
			return t
		case KindNull:
			sawNull = true
			continue
		}
		b := in.Box(t)
		if !slices.Contains(refs, b) {
			refs = append(refs, b)
		}
	}
	switch len(refs) {
	case 0:
		if sawNull {
			return in.builtins.Null
		}
		return in.builtins.Object
	case 1:
		return refs[0]
	}

	if comps, ok := in.arrayComponents(refs); ok {
		return in.ArrayOf(in.LUB(comps))
	}

	var common set.Collection[TypeID] = in.supertypeSet(refs[0])
	for _, r := range refs[1:] {
		common = common.Intersect(in.supertypeSet(r))
	}
	candidates := common.Slice()
	minimal := make([]TypeID, 0, len(candidates))
	for _, c := range candidates {
		dominated := false
		for _, d := range candidates {
			if d != c && in.IsSubtype(d, c) {
				dominated = true
				break
			}
		}
		if !dominated {
			minimal = append(minimal, c)
		}
	}
	slices.SortFunc(minimal, in.compareForIntersection)
	return in.Intersection(minimal)
}

// arrayComponents returns the component types when every type is an array
// of references.
func (in *Interner) arrayComponents(ts []TypeID) ([]TypeID, bool) {
	comps := make([]TypeID, 0, len(ts))
	for _, t := range ts {
		c := in.ArrayComponent(t)
		if c == NoTypeID || in.IsPrimitive(c) {
			return nil, false
		}
		comps = append(comps, c)
	}
	return comps, true
}

// compareForIntersection puts classes before interfaces, then orders by
// name so that intersections are interned deterministically.
func (in *Interner) compareForIntersection(a, b TypeID) int {
	ai, bi := in.classInfo(a), in.classInfo(b)
	aIface := ai == nil || ai.Interface
	bIface := bi == nil || bi.Interface
	if aIface != bIface {
		if !aIface {
			return -1
		}
		return 1
	}
	an, bn := in.String(a), in.String(b)
	switch {
	case an < bn:
		return -1
	case an > bn:
		return 1
	}
	return int(a) - int(b)
}
