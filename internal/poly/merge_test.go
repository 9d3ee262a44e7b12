package poly

import (
	"testing"

	"polyres/internal/types"
)

func TestMergeBranchTypes(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	integer := in.Box(b.Int)

	cases := []struct {
		name     string
		branches []types.TypeID
		want     types.TypeID
	}{
		{"empty", nil, b.Object},
		{"identical", []types.TypeID{b.String, b.String, b.String}, b.String},
		{"single", []types.TypeID{b.Long}, b.Long},
		{"int double", []types.TypeID{b.Int, b.Double}, b.Double},
		{"double int", []types.TypeID{b.Double, b.Int}, b.Double},
		{"byte short char", []types.TypeID{b.Byte, b.Short, b.Char}, b.Int},
		{"boxed primitives", []types.TypeID{integer, in.Box(b.Long)}, b.Long},
		{"int Integer", []types.TypeID{b.Int, integer}, b.Int},
		{"boolean Boolean", []types.TypeID{in.Box(b.Boolean), b.Boolean}, b.Boolean},
		{"int Number", []types.TypeID{b.Int, b.Number}, b.Number},
		{"int Object", []types.TypeID{b.Int, b.Object}, b.Object},
		{"null String", []types.TypeID{b.Null, b.String}, b.String},
	}
	for _, tc := range cases {
		if got := MergeBranchTypes(in, tc.branches); got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.name, in.String(got), in.String(tc.want))
		}
	}
}

func TestMergeFallsBackToLUB(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()

	branches := []types.TypeID{b.String, b.Int}
	want := in.LUB(branches)
	if got := MergeBranchTypes(in, branches); got != want {
		t.Fatalf("got %s, want lub %s", in.String(got), in.String(want))
	}
	if got := MergeBranchTypes(in, branches); got == b.Object {
		t.Fatalf("lub of String and int must be sharper than Object")
	}
}

func TestMergeBooleanAndIntIsNotPrimitive(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	got := MergeBranchTypes(in, []types.TypeID{b.Boolean, b.Int})
	if in.IsPrimitive(got) {
		t.Fatalf("boolean and int have no common primitive, got %s", in.String(got))
	}
	if got != in.LUB([]types.TypeID{b.Boolean, b.Int}) {
		t.Fatalf("expected lub, got %s", in.String(got))
	}
}
