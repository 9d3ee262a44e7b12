package ast

import (
	"errors"
	"testing"
)

func TestTreeParentAndIndex(t *testing.T) {
	b := NewBuilder(nil)
	in := b.Types.Builtins()
	x := b.Name("x", in.Int)
	y := b.Name("y", in.Int)
	call := b.Call("foo", x, y)

	list := b.Tree.ArgumentList(call)
	if b.Tree.Kind(list) != KindArgumentList {
		t.Fatalf("expected argument list, got %v", b.Tree.Kind(list))
	}
	if b.Tree.Parent(y) != list || b.Tree.IndexInParent(y) != 1 {
		t.Fatalf("y: parent=%d index=%d", b.Tree.Parent(y), b.Tree.IndexInParent(y))
	}
	if b.Tree.Parent(call) != NoNodeID || b.Tree.IndexInParent(call) != -1 {
		t.Fatalf("call must be a root")
	}
	if got := b.Tree.Args(call); len(got) != 2 || got[0] != x {
		t.Fatalf("unexpected args %v", got)
	}
}

func TestTreeAdoptTwicePanics(t *testing.T) {
	b := NewBuilder(nil)
	x := b.Name("x", b.Types.Builtins().Int)
	b.ExprStmt(x)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on double adoption")
		}
	}()
	b.ExprStmt(x)
}

func TestAncestorsInnermostFirst(t *testing.T) {
	b := NewBuilder(nil)
	x := b.Name("x", b.Types.Builtins().Int)
	stmt := b.ExprStmt(x)
	block := b.Block(stmt)
	var got []NodeID
	for a := range b.Tree.Ancestors(x) {
		got = append(got, a)
	}
	if len(got) != 2 || got[0] != stmt || got[1] != block {
		t.Fatalf("unexpected ancestors %v", got)
	}
	if b.Tree.FirstAncestorOfKind(x, KindBlock) != block {
		t.Fatalf("FirstAncestorOfKind missed the block")
	}
}

func TestSetTypeIsWriteOnce(t *testing.T) {
	b := NewBuilder(nil)
	in := b.Types.Builtins()
	x := b.Name("x", in.Int)
	if _, ok := b.Tree.Type(x); ok {
		t.Fatalf("slot must start empty")
	}
	b.Tree.SetType(x, in.Int)
	if ty, ok := b.Tree.Type(x); !ok || ty != in.Int {
		t.Fatalf("slot not written")
	}
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrTypeRespecified) {
			t.Fatalf("expected ErrTypeRespecified, got %v", r)
		}
	}()
	b.Tree.SetType(x, in.Long)
}

func TestYieldExpressions(t *testing.T) {
	b := NewBuilder(nil)
	in := b.Types.Builtins()
	one := b.Lit(in.Int, "1")
	two := b.Lit(in.Int, "2")
	three := b.Lit(in.Long, "3L")
	sw := b.Switch(b.Name("k", in.Int),
		b.Arrow(b.Label(b.Lit(in.Int, "0")), one),
		b.Arrow(b.Label(b.Lit(in.Int, "1")), b.Block(b.Yield(two))),
		b.Fallthrough(b.Label(), b.Yield(three)),
	)
	got := b.Tree.YieldExpressions(sw)
	if len(got) != 3 || got[0] != one || got[1] != two || got[2] != three {
		t.Fatalf("unexpected yields %v", got)
	}
	if b.Tree.YieldTarget(b.Tree.Parent(three)) != sw {
		t.Fatalf("yield target mismatch")
	}
}

func TestKindPredicatesAreExhaustive(t *testing.T) {
	for k := KindCompilationUnit; k <= KindVoidType; k++ {
		if k.String() == "" {
			t.Fatalf("kind %d has no name", k)
		}
		if back, ok := ParseKind(k.String()); !ok || back != k {
			t.Fatalf("kind %v does not round-trip", k)
		}
		if k.IsFunctional() && !k.IsExpression() {
			t.Fatalf("%v is functional but not an expression", k)
		}
	}
	if KindExplicitCtorCall.IsExpression() || !KindExplicitCtorCall.IsInvocation() {
		t.Fatalf("explicit constructor calls are invocations, not expressions")
	}
}
