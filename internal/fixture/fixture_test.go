package fixture_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"polyres/internal/ast"
	"polyres/internal/diag"
	"polyres/internal/fixture"
	"polyres/internal/sema"
	"polyres/internal/source"
	"polyres/internal/testkit"
	"polyres/internal/types"
)

func load(t *testing.T, name string) (*fixture.Fixture, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(100)
	fx, err := fixture.Load(source.NewFileSet(), filepath.Join("testdata", name), diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return fx, bag
}

func find(t *testing.T, tree *ast.Tree, kind ast.Kind, name string) ast.NodeID {
	t.Helper()
	for id := range tree.All() {
		if n := tree.Node(id); n.Kind == kind && n.Name == name {
			return id
		}
	}
	t.Fatalf("no %s %q in tree", kind, name)
	return ast.NoNodeID
}

func findKind(t *testing.T, tree *ast.Tree, kind ast.Kind) ast.NodeID {
	t.Helper()
	return find(t, tree, kind, "")
}

func typeOf(t *testing.T, fx *fixture.Fixture, name string) types.TypeID {
	t.Helper()
	id, ok := fx.Types.Parse(name)
	if !ok {
		t.Fatalf("type %s not declared", name)
	}
	return id
}

func TestLoadBuildsDeclarations(t *testing.T) {
	fx, bag := load(t, "targets.yaml")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	fn := typeOf(t, fx, "Fn")
	sig, ok := fx.Types.FunctionalMethod(fn)
	if !ok || sig.Name != "apply" || sig.Arity() != 1 {
		t.Fatalf("functional method of Fn: %+v %v", sig, ok)
	}
	box, base := typeOf(t, fx, "Box"), typeOf(t, fx, "Base")
	if fx.Types.SuperClass(box) != base {
		t.Fatalf("Box must extend Base declared after it")
	}
	ids := fx.Table.Methods("id")
	if len(ids) != 1 || !ids[0].IsGeneric() || ids[0].Result != ids[0].Params[0] {
		t.Fatalf("generic id: %+v", ids)
	}
	if info, _ := fx.Types.TypeVarInfo(ids[0].Result); info.Bound != fx.Types.Builtins().Object {
		t.Fatalf("unbounded type parameter should default to Object")
	}
	if ctors := fx.Table.Constructors(box); len(ctors) != 1 || ctors[0].Result != box {
		t.Fatalf("Box constructors: %+v", ctors)
	}
}

func TestLoadBuildsTreeWithSpans(t *testing.T) {
	fx, _ := load(t, "targets.yaml")
	tree := fx.Tree
	if tree.Kind(tree.Root) != ast.KindCompilationUnit {
		t.Fatalf("root is %s", tree.Kind(tree.Root))
	}
	call := find(t, tree, ast.KindMethodCall, "map")
	if sp := tree.Node(call).Span; sp.Empty() {
		t.Fatalf("call has no position")
	}
	lam := findKind(t, tree, ast.KindLambda)
	if tree.Parent(tree.Parent(lam)) != call || tree.Node(lam).Arity != 1 {
		t.Fatalf("lambda is not the first argument of map")
	}
	v := find(t, tree, ast.KindVarID, "n")
	if tree.Node(v).Flags&ast.FlagInferredType == 0 {
		t.Fatalf("var declaration lost its inferred flag")
	}
	if m := find(t, tree, ast.KindMethodDecl, "run"); tree.Kind(tree.ResultType(m)) != ast.KindVoidType {
		t.Fatalf("method without result should be void")
	}
}

func TestLoadedFixtureResolves(t *testing.T) {
	fx, _ := load(t, "targets.yaml")
	bag := diag.NewBag(10)
	res := sema.Check(fx.Tree, sema.Options{Types: fx.Types, Candidates: fx.Table, Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	bi := fx.Types.Builtins()
	tree := fx.Tree
	cases := []struct {
		name string
		id   ast.NodeID
		want types.TypeID
	}{
		{"map call", find(t, tree, ast.KindMethodCall, "map"), bi.String},
		{"lambda", findKind(t, tree, ast.KindLambda), typeOf(t, fx, "Fn")},
		{"conditional", findKind(t, tree, ast.KindConditional), bi.Long},
		{"generic call", find(t, tree, ast.KindMethodCall, "id"), typeOf(t, fx, "Box")},
		{"method ref", find(t, tree, ast.KindMethodRef, "length"), typeOf(t, fx, "Fn")},
	}
	for _, tc := range cases {
		if got := res.ExprTypes[tc.id]; got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.name, fx.Types.String(got), fx.Types.String(tc.want))
		}
	}
}

func TestLoadSwitchEnumAndConstructors(t *testing.T) {
	fx, bag := load(t, "switch_enum.yaml")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	tree := fx.Tree
	circle := typeOf(t, fx, "Circle")
	if ctors := fx.Table.Constructors(circle); len(ctors) != 1 || ctors[0].Params[0] != fx.Types.Builtins().Int {
		t.Fatalf("member ctor not declared: %+v", ctors)
	}
	super := find(t, tree, ast.KindExplicitCtorCall, "super")
	if tree.Node(super).Flags&ast.FlagSuper == 0 {
		t.Fatalf("super call lost its flag")
	}
	sw := findKind(t, tree, ast.KindSwitchExpr)
	if ys := tree.YieldExpressions(sw); len(ys) != 2 {
		t.Fatalf("expected 2 yield expressions, got %d", len(ys))
	}

	res := sema.Check(tree, sema.Options{Types: fx.Types, Candidates: fx.Table})
	fn := typeOf(t, fx, "Fn")
	for id := range tree.All() {
		if tree.Kind(id) == ast.KindLambda && res.ExprTypes[id] != fn {
			t.Fatalf("lambda %d typed %s", id, fx.Types.String(res.ExprTypes[id]))
		}
	}
	if got := res.ExprTypes[sw]; got != fx.Types.Builtins().Double {
		t.Fatalf("switch typed %s", fx.Types.String(got))
	}
}

func TestLoadReportsMalformedEntries(t *testing.T) {
	fx, bag := load(t, "bad_shapes.yaml")
	if fx.Tree.Kind(fx.Tree.Root) != ast.KindCompilationUnit {
		t.Fatalf("broken documents still produce a unit")
	}
	counts := make(map[diag.Code]int)
	for _, d := range bag.Items() {
		counts[d.Code]++
		if d.Primary.Empty() {
			t.Fatalf("%s has no position", d.Code)
		}
	}
	want := map[diag.Code]int{
		diag.FixtureBadShape:     4,
		diag.FixtureDuplicateDef: 2,
		diag.FixtureUnknownType:  1,
		diag.FixtureUnknownKind:  2,
	}
	for code, n := range want {
		if counts[code] != n {
			t.Fatalf("%s: got %d, want %d (all: %v)", code.ID(), counts[code], n, counts)
		}
	}
	if len(counts) != len(want) {
		t.Fatalf("unexpected codes %v", counts)
	}
}

func TestParseRejectsNonDocuments(t *testing.T) {
	cases := map[string]string{
		"empty":       "",
		"list root":   "- a\n- b\n",
		"scalar root": "hello\n",
		"bad yaml":    "classes: [a\n",
		"bad section": "classes: 3\n",
	}
	for name, doc := range cases {
		_, err := fixture.Parse(0, []byte(doc), nil)
		if !errors.Is(err, fixture.ErrInvalid) {
			t.Fatalf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}

func TestParseReportsUnknownSection(t *testing.T) {
	bag := diag.NewBag(10)
	doc := strings.Join([]string{
		"unit: []",
		"imports: [java.util]",
	}, "\n")
	fx, err := fixture.Parse(3, []byte(doc), diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.FixtureInvalid {
		t.Fatalf("unexpected diagnostics %+v", bag.Items())
	}
	if sp := bag.Items()[0].Primary; sp.File != 3 || sp.Line != 2 {
		t.Fatalf("span %s", sp)
	}
	if kids := fx.Tree.Children(fx.Tree.Root); len(kids) != 0 {
		t.Fatalf("empty unit expected")
	}
}

func TestBrokenExpressionsKeepShape(t *testing.T) {
	doc := `
unit:
  - class:
      name: Main
      members:
        - method:
            name: run
            body:
              - expr:
                  cond:
                    if: {name: c}
                    then: {mystery: 1}
                    else: {lit: {type: Nope, value: x}}
`
	bag := diag.NewBag(10)
	fx, err := fixture.Parse(0, []byte(doc), diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tree := fx.Tree
	cond := findKind(t, tree, ast.KindConditional)
	if len(tree.Children(cond)) != 3 {
		t.Fatalf("conditional lost a branch")
	}
	errType := fx.Types.Builtins().Error
	if n := tree.Node(tree.CondThen(cond)); n.Kind != ast.KindName || n.Decl != errType {
		t.Fatalf("unknown kind should become an error placeholder, got %s", tree.Label(tree.CondThen(cond)))
	}
	if n := tree.Node(tree.CondElse(cond)); n.Kind != ast.KindLiteral || n.Decl != errType {
		t.Fatalf("unknown type should keep the literal with the error type")
	}
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %+v", bag.Items())
	}
}

func TestLoadedSpansPointIntoFile(t *testing.T) {
	for _, name := range []string{"targets.yaml", "switch_enum.yaml", "bad_shapes.yaml"} {
		files := source.NewFileSet()
		path := filepath.Join("testdata", name)
		fx, err := fixture.Load(files, path, diag.BagReporter{Bag: diag.NewBag(100)})
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		file, ok := files.GetByPath(path)
		if !ok {
			t.Fatalf("%s not in file set", name)
		}
		if err := testkit.CheckSpans(fx.Tree, file); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}
