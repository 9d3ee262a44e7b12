package types

import (
	"slices"
	"strings"
)

// MethodSig describes a method or constructor signature.
type MethodSig struct {
	Name       string
	Owner      TypeID
	TypeParams []TypeID
	Params     []TypeID
	Result     TypeID
}

// Arity returns the number of formal parameters.
func (s MethodSig) Arity() int { return len(s.Params) }

// IsGeneric reports whether the signature declares type parameters.
func (s MethodSig) IsGeneric() bool { return len(s.TypeParams) > 0 }

// Subst replaces type variables in the parameters and result.
func (s MethodSig) Subst(m map[TypeID]TypeID) MethodSig {
	if len(m) == 0 {
		return s
	}
	out := s
	out.TypeParams = nil
	out.Params = make([]TypeID, len(s.Params))
	for i, p := range s.Params {
		out.Params[i] = substOne(m, p)
	}
	out.Result = substOne(m, s.Result)
	return out
}

func substOne(m map[TypeID]TypeID, t TypeID) TypeID {
	if r, ok := m[t]; ok {
		return r
	}
	return t
}

// SigString renders a signature as name(P1, P2) -> R.
func (in *Interner) SigString(s MethodSig) string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	sb.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(in.String(p))
	}
	sb.WriteString(") -> ")
	sb.WriteString(in.String(s.Result))
	return sb.String()
}

// Equal reports whether two signatures have the same shape.
func (s MethodSig) Equal(o MethodSig) bool {
	return s.Name == o.Name && s.Owner == o.Owner && s.Result == o.Result &&
		slices.Equal(s.Params, o.Params) && slices.Equal(s.TypeParams, o.TypeParams)
}
