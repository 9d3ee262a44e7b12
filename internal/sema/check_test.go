package sema

import (
	"testing"

	"polyres/internal/ast"
	"polyres/internal/diag"
	"polyres/internal/infer"
	"polyres/internal/poly"
	"polyres/internal/trace"
	"polyres/internal/types"
)

func TestCheckTypesEveryPolyNode(t *testing.T) {
	b := ast.NewBuilder(nil)
	in := b.Types
	bi := in.Builtins()
	main := in.RegisterClass("Main", types.NoTypeID)
	fn := in.RegisterInterface("Fn")
	in.SetFunctional(fn, types.MethodSig{Name: "apply", Params: []types.TypeID{bi.Object}, Result: bi.Object})

	table := infer.NewTable()
	table.AddMethod(types.MethodSig{Name: "map", Params: []types.TypeID{fn}, Result: bi.String})
	table.AddMethod(types.MethodSig{Name: "size", Result: bi.Int})

	lam := b.Lambda(1, b.Name("x", bi.Object))
	mapCall := b.Call("map", lam)
	sizeCall := b.Call("size")
	cond := b.Cond(b.Name("c", bi.Boolean), sizeCall, b.Lit(bi.Long, "0L"))
	mref := b.MethodRef("length")
	b.Unit(b.Class(main, b.Method("run", types.NoTypeID,
		b.Local("s", bi.String, mapCall),
		b.Local("n", types.NoTypeID, cond),
		b.ExprStmt(b.Call("unknown", mref)),
	)))

	bag := diag.NewBag(10)
	res := Check(b.Tree, Options{Types: in, Candidates: table, Reporter: diag.BagReporter{Bag: bag}})

	want := map[ast.NodeID]types.TypeID{
		mapCall:  bi.String,
		lam:      fn,
		sizeCall: bi.Int,
		cond:     bi.Long,
		mref:     bi.Unknown,
	}
	for id, ty := range want {
		if got := res.ExprTypes[id]; got != ty {
			t.Fatalf("%s: got %s, want %s", b.Tree.Label(id), in.String(got), in.String(ty))
		}
	}
	if len(res.PolyNodes) != 6 {
		t.Fatalf("expected 6 poly nodes, got %d", len(res.PolyNodes))
	}
	if got := res.Contexts[lam]; got != poly.InvocationContext(0, mapCall) {
		t.Fatalf("lambda ctx %+v", got)
	}
	if got := res.Contexts[mapCall]; got != poly.AssignmentContext(bi.String) {
		t.Fatalf("map ctx %+v", got)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SemaUnresolvedMethod {
		t.Fatalf("unexpected diagnostics %+v", bag.Items())
	}
}

func TestTypeOfStandaloneShapes(t *testing.T) {
	b := ast.NewBuilder(nil)
	in := b.Types
	bi := in.Builtins()

	lhs := b.Name("o", bi.Object)
	assign := b.Assign(lhs, b.Lit(bi.String, `"s"`))
	cast := b.Cast(bi.Long, b.Lit(bi.Int, "1"))
	init := b.Lit(bi.Double, "1.0")
	decl := b.Local("v", types.NoTypeID, init)
	unresolved := b.Name("u", types.NoTypeID)
	local := b.Local("x", bi.Short, unresolved)
	b.Unit(b.ExprStmt(assign), b.ExprStmt(cast), decl, local)

	c := NewChecker(b.Tree, Options{Types: in})
	v := b.Tree.Child(b.Tree.Child(decl, 0), 0)
	cases := []struct {
		name string
		id   ast.NodeID
		want types.TypeID
	}{
		{"assignment", assign, bi.Object},
		{"cast", cast, bi.Long},
		{"var from initializer", v, bi.Double},
		{"unresolved name uses context", unresolved, bi.Short},
	}
	for _, tc := range cases {
		if got := c.TypeOf(tc.id); got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.name, in.String(got), in.String(tc.want))
		}
		if slot, ok := b.Tree.Type(tc.id); !ok || slot != tc.want {
			t.Fatalf("%s: slot not recorded", tc.name)
		}
	}
}

func TestCheckEmitsNodeSpans(t *testing.T) {
	b := ast.NewBuilder(nil)
	in := b.Types
	table := infer.NewTable()
	table.AddMethod(types.MethodSig{Name: "f", Result: in.Builtins().Int})
	b.Unit(b.ExprStmt(b.Call("f")))

	ring := trace.NewRingTracer(64, trace.LevelDebug)
	Check(b.Tree, Options{Types: in, Candidates: table, Tracer: ring, Parent: 99})

	var sawPoly, sawCheck bool
	spans := map[string]trace.Event{}
	for _, ev := range ring.Snapshot() {
		if ev.Kind != trace.KindSpanEnd {
			continue
		}
		spans[ev.Name] = ev
		switch ev.Name {
		case "poly":
			sawPoly = ev.Detail == "int"
		case "check":
			sawCheck = true
		}
	}
	if !sawPoly || !sawCheck {
		t.Fatalf("missing spans: poly=%v check=%v", sawPoly, sawCheck)
	}
	check, poly, inv := spans["check"], spans["poly"], spans["infer_invocation"]
	if check.ParentID != 99 || poly.ParentID != check.SpanID || inv.ParentID != poly.SpanID {
		t.Fatalf("spans not nested: check=%d<-%d poly=%d<-%d infer=%d<-%d",
			check.SpanID, check.ParentID, poly.SpanID, poly.ParentID, inv.SpanID, inv.ParentID)
	}
}
