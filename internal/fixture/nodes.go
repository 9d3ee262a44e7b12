package fixture

import (
	"slices"

	"gopkg.in/yaml.v3"

	"polyres/internal/ast"
	"polyres/internal/diag"
	"polyres/internal/types"
)

func (l *loader) buildUnit(nodes []yaml.Node) {
	decls := make([]ast.NodeID, 0, len(nodes))
	for i := range nodes {
		if id := l.typeDecl(&nodes[i]); id.IsValid() {
			decls = append(decls, id)
		}
	}
	l.b.Unit(decls...)
}

// single splits a one-key mapping into its key and value.
func (l *loader) single(n *yaml.Node, what string) (string, *yaml.Node, bool) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		l.errorf(diag.FixtureBadShape, n, "%s must be a mapping with exactly one key", what)
		return "", nil, false
	}
	return n.Content[0].Value, n.Content[1], true
}

// fields returns the entries of a mapping, reporting keys outside allowed.
func (l *loader) fields(n *yaml.Node, kind string, allowed ...string) (map[string]*yaml.Node, bool) {
	if n.Kind != yaml.MappingNode {
		l.errorf(diag.FixtureBadShape, n, "%s expects a mapping", kind)
		return nil, false
	}
	out := make(map[string]*yaml.Node, len(n.Content)/2)
	ok := true
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if !slices.Contains(allowed, key.Value) {
			l.errorf(diag.FixtureBadShape, key, "%s has no field %q", kind, key.Value)
			ok = false
			continue
		}
		if _, dup := out[key.Value]; dup {
			l.errorf(diag.FixtureDuplicateDef, key, "%s repeats field %q", kind, key.Value)
			ok = false
			continue
		}
		out[key.Value] = n.Content[i+1]
	}
	return out, ok
}

func (l *loader) require(f map[string]*yaml.Node, at *yaml.Node, kind, field string) (*yaml.Node, bool) {
	v, ok := f[field]
	if !ok || isNull(v) {
		l.errorf(diag.FixtureBadShape, at, "%s requires %q", kind, field)
		return nil, false
	}
	return v, true
}

func (l *loader) list(n *yaml.Node) []*yaml.Node {
	if n == nil || isNull(n) {
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		l.errorf(diag.FixtureBadShape, n, "expected a list")
		return nil
	}
	out := make([]*yaml.Node, len(n.Content))
	copy(out, n.Content)
	return out
}

func (l *loader) name(n *yaml.Node, kind string) (string, bool) {
	if n.Kind != yaml.ScalarNode || n.Value == "" {
		l.errorf(diag.FixtureBadShape, n, "%s expects a name", kind)
		return "", false
	}
	return n.Value, true
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func (l *loader) typeDecl(n *yaml.Node) ast.NodeID {
	key, v, ok := l.single(n, "unit entry")
	if !ok {
		return ast.NoNodeID
	}
	var allowed []string
	switch key {
	case "class":
		allowed = []string{"name", "members"}
	case "enum":
		allowed = []string{"name", "constants", "members"}
	default:
		l.errorf(diag.FixtureUnknownKind, n, "unknown declaration kind %q", key)
		return ast.NoNodeID
	}
	f, _ := l.fields(v, key, allowed...)
	if f == nil {
		return ast.NoNodeID
	}
	nameNode, ok := l.require(f, v, key, "name")
	if !ok {
		return ast.NoNodeID
	}
	name, ok := l.name(nameNode, key)
	if !ok {
		return ast.NoNodeID
	}
	class, known := l.in.ClassByName(name)
	if !known {
		class = l.in.RegisterClass(name, types.NoTypeID)
	}

	var members []ast.NodeID
	for _, c := range l.list(f["constants"]) {
		if id := l.enumConstant(c); id.IsValid() {
			members = append(members, id)
		}
	}
	for _, m := range l.list(f["members"]) {
		if id := l.member(m, class); id.IsValid() {
			members = append(members, id)
		}
	}
	if key == "enum" {
		return l.at(l.b.Enum(class, members...), v)
	}
	return l.at(l.b.Class(class, members...), v)
}

func (l *loader) enumConstant(n *yaml.Node) ast.NodeID {
	f, _ := l.fields(n, "constant", "name", "args")
	if f == nil {
		return ast.NoNodeID
	}
	nameNode, ok := l.require(f, n, "constant", "name")
	if !ok {
		return ast.NoNodeID
	}
	name, ok := l.name(nameNode, "constant")
	if !ok {
		return ast.NoNodeID
	}
	if _, has := f["args"]; !has {
		return l.at(l.b.EnumConstant(name), n)
	}
	return l.at(l.b.EnumConstant(name, l.exprs(f["args"])...), n)
}

func (l *loader) member(n *yaml.Node, class types.TypeID) ast.NodeID {
	key, v, ok := l.single(n, "member")
	if !ok {
		return ast.NoNodeID
	}
	switch key {
	case "method":
		f, _ := l.fields(v, key, "name", "result", "body")
		if f == nil {
			return ast.NoNodeID
		}
		nameNode, ok := l.require(f, v, key, "name")
		if !ok {
			return ast.NoNodeID
		}
		name, ok := l.name(nameNode, key)
		if !ok {
			return ast.NoNodeID
		}
		result := types.NoTypeID
		if r, has := f["result"]; has && !isNull(r) {
			result = l.typeOf(r.Value, nil, r)
		}
		return l.at(l.b.Method(name, result, l.stmts(f["body"])...), v)
	case "ctor":
		f, _ := l.fields(v, key, "typeParams", "params", "body")
		if f == nil {
			return ast.NoNodeID
		}
		var doc sigDoc
		if p, has := f["typeParams"]; has {
			if err := p.Decode(&doc.TypeParams); err != nil {
				l.errorf(diag.FixtureBadShape, p, "ctor typeParams: %v", err)
			}
		}
		if p, has := f["params"]; has {
			if err := p.Decode(&doc.Params); err != nil {
				l.errorf(diag.FixtureBadShape, p, "ctor params: %v", err)
			}
		}
		if info, _ := l.in.ClassInfo(class); info != nil && !info.Interface {
			l.addConstructor(class, doc, v)
		}
		return l.at(l.b.Method("<init>", types.NoTypeID, l.stmts(f["body"])...), v)
	}
	l.errorf(diag.FixtureUnknownKind, n, "unknown member kind %q", key)
	return ast.NoNodeID
}

func (l *loader) stmts(n *yaml.Node) []ast.NodeID {
	items := l.list(n)
	out := make([]ast.NodeID, 0, len(items))
	for _, s := range items {
		if id := l.stmt(s); id.IsValid() {
			out = append(out, id)
		}
	}
	return out
}

func (l *loader) stmt(n *yaml.Node) ast.NodeID {
	key, v, ok := l.single(n, "statement")
	if !ok {
		return ast.NoNodeID
	}
	switch key {
	case "expr":
		return l.at(l.b.ExprStmt(l.expr(v)), n)
	case "return":
		if isNull(v) {
			return l.at(l.b.Return(ast.NoNodeID), n)
		}
		return l.at(l.b.Return(l.expr(v)), n)
	case "yield":
		return l.at(l.b.Yield(l.expr(v)), n)
	case "this":
		return l.at(l.b.This(l.exprs(v)...), n)
	case "super":
		return l.at(l.b.Super(l.exprs(v)...), n)
	case "block":
		return l.at(l.b.Block(l.stmts(v)...), n)
	case "local":
		return l.local(v)
	}
	l.errorf(diag.FixtureUnknownKind, n, "unknown statement kind %q", key)
	return ast.NoNodeID
}

// local declares a variable; a missing type or the type "var" declares it
// with an inferred type, which needs an initializer.
func (l *loader) local(n *yaml.Node) ast.NodeID {
	f, _ := l.fields(n, "local", "name", "type", "init")
	if f == nil {
		return ast.NoNodeID
	}
	nameNode, ok := l.require(f, n, "local", "name")
	if !ok {
		return ast.NoNodeID
	}
	name, ok := l.name(nameNode, "local")
	if !ok {
		return ast.NoNodeID
	}
	t := types.NoTypeID
	if tn, has := f["type"]; has && !isNull(tn) && tn.Value != "var" {
		t = l.typeOf(tn.Value, nil, tn)
	}
	init := ast.NoNodeID
	if iv, has := f["init"]; has && !isNull(iv) {
		init = l.expr(iv)
	} else if t == types.NoTypeID {
		l.errorf(diag.FixtureBadShape, n, "var %s needs an initializer", name)
		return ast.NoNodeID
	}
	decl := l.b.Local(name, t, init)
	declarator := l.b.Tree.Child(decl, 0)
	l.at(l.b.Tree.Child(declarator, 0), nameNode)
	l.at(declarator, n)
	return l.at(decl, n)
}

func (l *loader) exprs(n *yaml.Node) []ast.NodeID {
	items := l.list(n)
	out := make([]ast.NodeID, 0, len(items))
	for _, e := range items {
		out = append(out, l.expr(e))
	}
	return out
}

// expr builds one expression. It always returns a node: anything malformed
// becomes an error-typed placeholder.
func (l *loader) expr(n *yaml.Node) ast.NodeID {
	key, v, ok := l.single(n, "expression")
	if !ok {
		return l.broken(n)
	}
	var id ast.NodeID
	switch key {
	case "call":
		id = l.call(v)
	case "new":
		id = l.newExpr(v)
	case "lambda":
		id = l.lambda(v)
	case "mref":
		if name, ok := l.name(v, key); ok {
			id = l.b.MethodRef(name)
		}
	case "cond":
		id = l.cond(v)
	case "switch":
		id = l.switchExpr(v)
	case "cast":
		id = l.cast(v)
	case "assign":
		id = l.assign(v)
	case "array":
		id = l.arrayInit(v)
	case "lit":
		id = l.literal(v)
	case "name":
		id = l.nameExpr(v)
	case "infix":
		id = l.infix(v)
	default:
		l.errorf(diag.FixtureUnknownKind, n, "unknown expression kind %q", key)
	}
	if !id.IsValid() {
		return l.broken(n)
	}
	return l.at(id, n)
}

func (l *loader) call(n *yaml.Node) ast.NodeID {
	f, _ := l.fields(n, "call", "name", "on", "args")
	if f == nil {
		return ast.NoNodeID
	}
	nameNode, ok := l.require(f, n, "call", "name")
	if !ok {
		return ast.NoNodeID
	}
	name, ok := l.name(nameNode, "call")
	if !ok {
		return ast.NoNodeID
	}
	if on, has := f["on"]; has && !isNull(on) {
		q := l.expr(on)
		return l.b.CallOn(q, name, l.exprs(f["args"])...)
	}
	return l.b.Call(name, l.exprs(f["args"])...)
}

func (l *loader) newExpr(n *yaml.Node) ast.NodeID {
	f, _ := l.fields(n, "new", "class", "args")
	if f == nil {
		return ast.NoNodeID
	}
	cn, ok := l.require(f, n, "new", "class")
	if !ok {
		return ast.NoNodeID
	}
	class, ok := l.constructible(cn.Value, cn)
	if !ok {
		return ast.NoNodeID
	}
	return l.b.New(class, l.exprs(f["args"])...)
}

func (l *loader) lambda(n *yaml.Node) ast.NodeID {
	f, _ := l.fields(n, "lambda", "arity", "body", "block")
	if f == nil {
		return ast.NoNodeID
	}
	arity := 0
	if a, has := f["arity"]; has {
		if err := a.Decode(&arity); err != nil || arity < 0 {
			l.errorf(diag.FixtureBadShape, a, "lambda arity must be a non-negative integer")
			return ast.NoNodeID
		}
	}
	body, hasBody := f["body"]
	block, hasBlock := f["block"]
	switch {
	case hasBody && hasBlock:
		l.errorf(diag.FixtureBadShape, n, "lambda has both body and block")
		return ast.NoNodeID
	case hasBody:
		return l.b.Lambda(arity, l.expr(body))
	case hasBlock:
		return l.b.Lambda(arity, l.at(l.b.Block(l.stmts(block)...), block))
	}
	l.errorf(diag.FixtureBadShape, n, "lambda requires a body or a block")
	return ast.NoNodeID
}

func (l *loader) cond(n *yaml.Node) ast.NodeID {
	f, _ := l.fields(n, "cond", "if", "then", "else")
	if f == nil {
		return ast.NoNodeID
	}
	parts := make([]ast.NodeID, 0, 3)
	for _, field := range []string{"if", "then", "else"} {
		v, ok := l.require(f, n, "cond", field)
		if !ok {
			return ast.NoNodeID
		}
		parts = append(parts, l.expr(v))
	}
	return l.b.Cond(parts[0], parts[1], parts[2])
}

// switchExpr builds a switch expression. Branches are either
// {arrow: {labels, body | block}} or {case: {labels, body}} where a case
// body is a statement list ending in yield or falling through.
func (l *loader) switchExpr(n *yaml.Node) ast.NodeID {
	f, _ := l.fields(n, "switch", "on", "branches")
	if f == nil {
		return ast.NoNodeID
	}
	on, ok := l.require(f, n, "switch", "on")
	if !ok {
		return ast.NoNodeID
	}
	tested := l.expr(on)
	var branches []ast.NodeID
	for _, br := range l.list(f["branches"]) {
		if id := l.branch(br); id.IsValid() {
			branches = append(branches, id)
		}
	}
	return l.b.Switch(tested, branches...)
}

func (l *loader) branch(n *yaml.Node) ast.NodeID {
	key, v, ok := l.single(n, "switch branch")
	if !ok {
		return ast.NoNodeID
	}
	switch key {
	case "arrow":
		f, _ := l.fields(v, key, "labels", "body", "block")
		if f == nil {
			return ast.NoNodeID
		}
		label := l.at(l.b.Label(l.exprs(f["labels"])...), v)
		if body, has := f["body"]; has {
			return l.at(l.b.Arrow(label, l.expr(body)), n)
		}
		if block, has := f["block"]; has {
			return l.at(l.b.Arrow(label, l.at(l.b.Block(l.stmts(block)...), block)), n)
		}
		l.errorf(diag.FixtureBadShape, v, "arrow requires a body or a block")
		return ast.NoNodeID
	case "case":
		f, _ := l.fields(v, key, "labels", "body")
		if f == nil {
			return ast.NoNodeID
		}
		label := l.at(l.b.Label(l.exprs(f["labels"])...), v)
		return l.at(l.b.Fallthrough(label, l.stmts(f["body"])...), n)
	}
	l.errorf(diag.FixtureUnknownKind, n, "unknown switch branch kind %q", key)
	return ast.NoNodeID
}

func (l *loader) cast(n *yaml.Node) ast.NodeID {
	f, _ := l.fields(n, "cast", "type", "expr")
	if f == nil {
		return ast.NoNodeID
	}
	tn, ok := l.require(f, n, "cast", "type")
	if !ok {
		return ast.NoNodeID
	}
	operand, ok := l.require(f, n, "cast", "expr")
	if !ok {
		return ast.NoNodeID
	}
	return l.b.Cast(l.typeOf(tn.Value, nil, tn), l.expr(operand))
}

func (l *loader) assign(n *yaml.Node) ast.NodeID {
	f, _ := l.fields(n, "assign", "lhs", "rhs")
	if f == nil {
		return ast.NoNodeID
	}
	lhs, ok := l.require(f, n, "assign", "lhs")
	if !ok {
		return ast.NoNodeID
	}
	rhs, ok := l.require(f, n, "assign", "rhs")
	if !ok {
		return ast.NoNodeID
	}
	return l.b.Assign(l.expr(lhs), l.expr(rhs))
}

func (l *loader) arrayInit(n *yaml.Node) ast.NodeID {
	f, _ := l.fields(n, "array", "type", "elems")
	if f == nil {
		return ast.NoNodeID
	}
	tn, ok := l.require(f, n, "array", "type")
	if !ok {
		return ast.NoNodeID
	}
	t := l.typeOf(tn.Value, nil, tn)
	if t != l.in.Builtins().Error && l.in.KindOf(t) != types.KindArray {
		l.errorf(diag.FixtureBadShape, tn, "array initializer needs an array type, got %s", l.in.String(t))
		return ast.NoNodeID
	}
	return l.b.ArrayInit(t, l.exprs(f["elems"])...)
}

func (l *loader) literal(n *yaml.Node) ast.NodeID {
	f, _ := l.fields(n, "lit", "type", "value")
	if f == nil {
		return ast.NoNodeID
	}
	tn, ok := l.require(f, n, "lit", "type")
	if !ok {
		return ast.NoNodeID
	}
	text := ""
	if v, has := f["value"]; has {
		text = v.Value
	}
	return l.b.Lit(l.typeOf(tn.Value, nil, tn), text)
}

// nameExpr builds a name reference; without a type the name is unresolved.
func (l *loader) nameExpr(n *yaml.Node) ast.NodeID {
	if n.Kind == yaml.ScalarNode {
		name, ok := l.name(n, "name")
		if !ok {
			return ast.NoNodeID
		}
		return l.b.Name(name, types.NoTypeID)
	}
	f, _ := l.fields(n, "name", "name", "type")
	if f == nil {
		return ast.NoNodeID
	}
	nameNode, ok := l.require(f, n, "name", "name")
	if !ok {
		return ast.NoNodeID
	}
	name, ok := l.name(nameNode, "name")
	if !ok {
		return ast.NoNodeID
	}
	t := types.NoTypeID
	if tn, has := f["type"]; has && !isNull(tn) {
		t = l.typeOf(tn.Value, nil, tn)
	}
	return l.b.Name(name, t)
}

func (l *loader) infix(n *yaml.Node) ast.NodeID {
	f, _ := l.fields(n, "infix", "op", "type", "left", "right")
	if f == nil {
		return ast.NoNodeID
	}
	var parts [4]*yaml.Node
	for i, field := range []string{"op", "type", "left", "right"} {
		v, ok := l.require(f, n, "infix", field)
		if !ok {
			return ast.NoNodeID
		}
		parts[i] = v
	}
	return l.b.Infix(parts[0].Value, l.typeOf(parts[1].Value, nil, parts[1]), l.expr(parts[2]), l.expr(parts[3]))
}
