package types

import "testing"

func TestPrimitiveSubtyping(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	cases := []struct {
		from, to TypeID
		want     bool
	}{
		{b.Byte, b.Short, true},
		{b.Short, b.Int, true},
		{b.Char, b.Int, true},
		{b.Char, b.Short, false},
		{b.Int, b.Double, true},
		{b.Double, b.Float, false},
		{b.Long, b.Float, true},
		{b.Boolean, b.Int, false},
		{b.Int, b.Boolean, false},
	}
	for _, c := range cases {
		if got := in.IsSubtype(c.from, c.to); got != c.want {
			t.Errorf("%s <: %s = %v, want %v", in.String(c.from), in.String(c.to), got, c.want)
		}
	}
}

func TestReferenceSubtyping(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	integer := in.Box(b.Int)
	if !in.IsSubtype(integer, b.Number) || !in.IsSubtype(integer, b.Comparable) {
		t.Fatalf("Integer must be a Number and Comparable")
	}
	if in.IsSubtype(b.Number, integer) {
		t.Fatalf("Number is not an Integer")
	}
	if !in.IsSubtype(b.Null, b.String) || in.IsSubtype(b.Null, b.Int) {
		t.Fatalf("null converts to references only")
	}
	if !in.IsSubtype(in.ArrayOf(b.String), in.ArrayOf(b.Object)) {
		t.Fatalf("arrays of references are covariant")
	}
	if in.IsSubtype(in.ArrayOf(b.Int), in.ArrayOf(b.Long)) {
		t.Fatalf("arrays of primitives are invariant")
	}
	if !in.IsSubtype(b.Unknown, b.Int) || !in.IsSubtype(b.String, b.Error) {
		t.Fatalf("sentinels are compatible with everything")
	}
}

func TestConvertibleThroughBoxing(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	integer := in.Box(b.Int)
	if !in.IsConvertibleThroughBoxing(b.Int, b.Number) {
		t.Fatalf("int boxes to Integer which is a Number")
	}
	if !in.IsConvertibleThroughBoxing(integer, b.Long) {
		t.Fatalf("Integer unboxes to int which widens to long")
	}
	if in.IsConvertibleThroughBoxing(b.Int, in.Box(b.Long)) {
		t.Fatalf("int must not box to Long")
	}
	if in.IsConvertibleThroughBoxing(b.String, b.Int) {
		t.Fatalf("String does not unbox")
	}
}

func TestLUB(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	integer, long := in.Box(b.Int), in.Box(b.Long)

	if got := in.LUB([]TypeID{integer, long}); got != in.Intersection([]TypeID{b.Number, b.Comparable}) {
		t.Fatalf("lub(Integer, Long) = %s", in.String(got))
	}
	if got := in.LUB([]TypeID{b.Boolean, b.Int}); in.String(got) != "Comparable & Serializable" {
		t.Fatalf("lub(boolean, int) = %s", in.String(got))
	}
	if got := in.LUB([]TypeID{b.String, b.Null}); got != b.String {
		t.Fatalf("lub(String, null) = %s", in.String(got))
	}
	if got := in.LUB(nil); got != b.Object {
		t.Fatalf("lub() = %s", in.String(got))
	}
	if got := in.LUB([]TypeID{in.ArrayOf(b.String), in.ArrayOf(integer)}); in.String(got) != "Comparable & Serializable[]" {
		t.Fatalf("lub of arrays = %s", in.String(got))
	}
	if got := in.LUB([]TypeID{b.String, b.Unknown}); got != b.Unknown {
		t.Fatalf("sentinels must win, got %s", in.String(got))
	}
}
