package types

import "strings"

// String renders a type the way it would be written in Java source.
func (in *Interner) String(id TypeID) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "<none>"
	}
	switch tt.Kind {
	case KindUnknown:
		return "(*unknown*)"
	case KindError:
		return "(*error*)"
	case KindClass:
		return in.classes[tt.Payload].Name
	case KindArray:
		return in.String(tt.Elem) + "[]"
	case KindTypeVar:
		return in.tvars[tt.Payload].Name
	case KindIntersection:
		parts := make([]string, 0, len(in.inters[tt.Payload]))
		for _, m := range in.inters[tt.Payload] {
			parts = append(parts, in.String(m))
		}
		return strings.Join(parts, " & ")
	default:
		return tt.Kind.String()
	}
}

// Parse resolves a type written in fixture syntax: a primitive keyword,
// void, a registered class name, or any of those followed by "[]".
func (in *Interner) Parse(name string) (TypeID, bool) {
	name = strings.TrimSpace(name)
	if elem, ok := strings.CutSuffix(name, "[]"); ok {
		e, ok := in.Parse(elem)
		if !ok || e == in.builtins.Void {
			return NoTypeID, false
		}
		return in.ArrayOf(e), true
	}
	switch name {
	case "void":
		return in.builtins.Void, true
	case "null":
		return in.builtins.Null, true
	}
	for _, p := range in.primes {
		if in.types[p].Kind.String() == name {
			return p, true
		}
	}
	return in.ClassByName(name)
}
