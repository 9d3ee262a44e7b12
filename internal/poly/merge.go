package poly

import (
	"slices"

	"polyres/internal/types"
)

// MergeBranchTypes computes the standalone type of a conditional or switch
// expression from its branch types. Rules apply in order:
//
//  1. no branches: Object
//  2. all branches equal: that type
//  3. all branches unbox to primitives: the first primitive, in widening
//     order, every unboxed branch widens to
//  4. the first boxed branch type every unboxed branch converts to through
//     boxing
//  5. the least upper bound of the branch types
func MergeBranchTypes(in *types.Interner, branchTypes []types.TypeID) types.TypeID {
	if len(branchTypes) == 0 {
		return in.Builtins().Object
	}
	head := branchTypes[0]
	if !slices.ContainsFunc(branchTypes[1:], func(t types.TypeID) bool { return t != head }) {
		return head
	}

	unboxed := make([]types.TypeID, len(branchTypes))
	allPrimitive := true
	for i, t := range branchTypes {
		unboxed[i] = in.Unbox(t)
		allPrimitive = allPrimitive && in.IsPrimitive(unboxed[i])
	}
	if allPrimitive {
		for _, p := range in.Primitives() {
			if all(unboxed, func(t types.TypeID) bool { return in.IsSubtype(t, p) }) {
				return p
			}
		}
	}

	for _, t := range branchTypes {
		candidate := in.Box(t)
		if all(unboxed, func(u types.TypeID) bool { return in.IsConvertibleThroughBoxing(u, candidate) }) {
			return candidate
		}
	}

	return in.LUB(branchTypes)
}

func all(ts []types.TypeID, pred func(types.TypeID) bool) bool {
	for _, t := range ts {
		if !pred(t) {
			return false
		}
	}
	return true
}
