package infer

import (
	"slices"

	"polyres/internal/types"
)

// Selection is the outcome of overload resolution for one invocation.
type Selection struct {
	Failed bool
	// Method is the selected overload with its type parameters instantiated.
	Method types.MethodSig
	// ResultFree is set when the result type came from a type variable that
	// no argument constrained.
	ResultFree bool
}

// Formal returns the i-th formal parameter type, or NoTypeID when the
// selection failed or has fewer parameters.
func (s Selection) Formal(i int) types.TypeID {
	if s.Failed || i < 0 || i >= len(s.Method.Params) {
		return types.NoTypeID
	}
	return s.Method.Params[i]
}

// Result returns the instantiated result type of the selected overload.
func (s Selection) Result() types.TypeID {
	if s.Failed {
		return types.NoTypeID
	}
	return s.Method.Result
}

type candidateSelection struct {
	sig        types.MethodSig
	resultFree bool
	ok         bool
	ambiguous  bool
}

type applicableCandidate struct {
	sig        types.MethodSig
	resultFree bool
}

// selectMostSpecific picks the maximally specific candidate. Candidates
// with identical parameter lists count as one.
func (e *Engine) selectMostSpecific(app []applicableCandidate) candidateSelection {
	switch len(app) {
	case 0:
		return candidateSelection{}
	case 1:
		return candidateSelection{sig: app[0].sig, resultFree: app[0].resultFree, ok: true}
	}
	var maximal []applicableCandidate
	for i, m := range app {
		best := true
		for j, o := range app {
			if i != j && !e.moreSpecific(m.sig, o.sig) {
				best = false
				break
			}
		}
		if best {
			maximal = append(maximal, m)
		}
	}
	if len(maximal) == 0 {
		return candidateSelection{ambiguous: true}
	}
	first := maximal[0]
	for _, m := range maximal[1:] {
		if !slices.Equal(m.sig.Params, first.sig.Params) {
			return candidateSelection{ambiguous: true}
		}
	}
	return candidateSelection{sig: first.sig, resultFree: first.resultFree, ok: true}
}

func (e *Engine) moreSpecific(m, o types.MethodSig) bool {
	for i := range m.Params {
		if !e.types.IsSubtype(m.Params[i], o.Params[i]) {
			return false
		}
	}
	return true
}
