package fixture

import (
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"polyres/internal/diag"
	"polyres/internal/types"
)

type sigDoc struct {
	Name       string   `yaml:"name"`
	Owner      string   `yaml:"owner"`
	TypeParams []string `yaml:"typeParams"`
	Params     []string `yaml:"params"`
	Result     string   `yaml:"result"`
}

type ctorDoc struct {
	Class      string   `yaml:"class"`
	TypeParams []string `yaml:"typeParams"`
	Params     []string `yaml:"params"`
}

type classDoc struct {
	Name       string   `yaml:"name"`
	Interface  bool     `yaml:"interface"`
	Super      string   `yaml:"super"`
	Implements []string `yaml:"implements"`
	Functional *sigDoc  `yaml:"functional"`
}

type declState uint8

const (
	declPending declState = iota
	declVisiting
	declDone
)

type classDecl struct {
	doc   classDoc
	node  *yaml.Node
	id    types.TypeID
	state declState
}

// declareClasses registers every class of the classes section. Supertypes
// may be declared later in the list; inheritance cycles are cut at the
// edge that closes them.
func (l *loader) declareClasses(nodes []yaml.Node) {
	order := make([]*classDecl, 0, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		var doc classDoc
		if err := n.Decode(&doc); err != nil {
			l.errorf(diag.FixtureBadShape, n, "class: %v", err)
			continue
		}
		if doc.Name == "" {
			l.errorf(diag.FixtureBadShape, n, "class without a name")
			continue
		}
		if _, ok := l.in.Parse(doc.Name); ok || l.pending[doc.Name] != nil {
			l.errorf(diag.FixtureDuplicateDef, n, "type %s is already declared", doc.Name)
			continue
		}
		d := &classDecl{doc: doc, node: n}
		l.pending[doc.Name] = d
		order = append(order, d)
	}
	for _, d := range order {
		l.register(d)
	}
	for _, d := range order {
		if d.doc.Functional == nil {
			continue
		}
		if !d.doc.Interface {
			l.errorf(diag.FixtureBadShape, d.node, "class %s is not an interface and cannot declare a functional method", d.doc.Name)
			continue
		}
		sig := l.signature(*d.doc.Functional, d.node)
		l.in.SetFunctional(d.id, sig)
	}
}

func (l *loader) register(d *classDecl) types.TypeID {
	switch d.state {
	case declDone:
		return d.id
	case declVisiting:
		l.errorf(diag.FixtureBadShape, d.node, "inheritance cycle through %s", d.doc.Name)
		return types.NoTypeID
	}
	d.state = declVisiting

	super := types.NoTypeID
	if d.doc.Super != "" {
		if d.doc.Interface {
			l.errorf(diag.FixtureBadShape, d.node, "interface %s cannot extend a class", d.doc.Name)
		} else if s := l.supertype(d.doc.Super, d.node); s != types.NoTypeID {
			if info, ok := l.in.ClassInfo(s); ok && info.Interface {
				l.errorf(diag.FixtureBadShape, d.node, "%s cannot extend interface %s", d.doc.Name, d.doc.Super)
			} else {
				super = s
			}
		}
	}
	ifaces := make([]types.TypeID, 0, len(d.doc.Implements))
	for _, name := range d.doc.Implements {
		s := l.supertype(name, d.node)
		if s == types.NoTypeID {
			continue
		}
		if info, ok := l.in.ClassInfo(s); !ok || !info.Interface {
			l.errorf(diag.FixtureBadShape, d.node, "%s is not an interface", name)
			continue
		}
		ifaces = append(ifaces, s)
	}

	if d.doc.Interface {
		d.id = l.in.RegisterInterface(d.doc.Name, ifaces...)
	} else {
		d.id = l.in.RegisterClass(d.doc.Name, super, ifaces...)
	}
	d.state = declDone
	return d.id
}

// supertype resolves a supertype name, registering pending declarations
// first. It returns NoTypeID when the name is not a class.
func (l *loader) supertype(name string, at *yaml.Node) types.TypeID {
	if d := l.pending[name]; d != nil {
		return l.register(d)
	}
	id, ok := l.in.ClassByName(name)
	if !ok {
		l.errorf(diag.FixtureUnknownType, at, "unknown type %s", name)
		return types.NoTypeID
	}
	return id
}

func (l *loader) declareMethods(nodes []yaml.Node) {
	for i := range nodes {
		n := &nodes[i]
		var doc sigDoc
		if err := n.Decode(&doc); err != nil {
			l.errorf(diag.FixtureBadShape, n, "method: %v", err)
			continue
		}
		if doc.Name == "" {
			l.errorf(diag.FixtureBadShape, n, "method without a name")
			continue
		}
		sig := l.signature(doc, n)
		if doc.Owner != "" {
			sig.Owner = l.typeOf(doc.Owner, nil, n)
		}
		if slices.ContainsFunc(l.table.Methods(sig.Name), sig.Equal) {
			l.errorf(diag.FixtureDuplicateDef, n, "method %s is already declared", l.in.SigString(sig))
			continue
		}
		l.table.AddMethod(sig)
	}
}

func (l *loader) declareConstructors(nodes []yaml.Node) {
	for i := range nodes {
		n := &nodes[i]
		var doc ctorDoc
		if err := n.Decode(&doc); err != nil {
			l.errorf(diag.FixtureBadShape, n, "constructor: %v", err)
			continue
		}
		class, ok := l.constructible(doc.Class, n)
		if !ok {
			continue
		}
		l.addConstructor(class, sigDoc{TypeParams: doc.TypeParams, Params: doc.Params}, n)
	}
}

func (l *loader) constructible(name string, at *yaml.Node) (types.TypeID, bool) {
	class, ok := l.in.ClassByName(name)
	if !ok {
		l.errorf(diag.FixtureUnknownType, at, "unknown class %q", name)
		return types.NoTypeID, false
	}
	if info, _ := l.in.ClassInfo(class); info.Interface {
		l.errorf(diag.FixtureBadShape, at, "interface %s has no constructors", name)
		return types.NoTypeID, false
	}
	return class, true
}

func (l *loader) addConstructor(class types.TypeID, doc sigDoc, at *yaml.Node) {
	sig := l.signature(doc, at)
	sig.Owner, sig.Result = class, class
	for _, c := range l.table.Constructors(class) {
		if slices.Equal(c.Params, sig.Params) {
			l.errorf(diag.FixtureDuplicateDef, at, "constructor %s is already declared", l.in.SigString(c))
			return
		}
	}
	l.table.AddConstructor(class, sig)
}

// signature builds a method signature. Type parameters are written as
// "T" or "T extends Bound" and are visible in later bounds, the
// parameters and the result.
func (l *loader) signature(doc sigDoc, at *yaml.Node) types.MethodSig {
	scope := make(map[string]types.TypeID, len(doc.TypeParams))
	sig := types.MethodSig{Name: doc.Name}
	for _, tp := range doc.TypeParams {
		name, bound, hasBound := strings.Cut(strings.TrimSpace(tp), " extends ")
		name = strings.TrimSpace(name)
		if name == "" {
			l.errorf(diag.FixtureBadShape, at, "empty type parameter")
			continue
		}
		if _, dup := scope[name]; dup {
			l.errorf(diag.FixtureDuplicateDef, at, "type parameter %s is declared twice", name)
			continue
		}
		b := types.NoTypeID
		if hasBound {
			b = l.typeOf(bound, scope, at)
		}
		tv := l.in.NewTypeVar(name, b)
		scope[name] = tv
		sig.TypeParams = append(sig.TypeParams, tv)
	}
	sig.Params = make([]types.TypeID, 0, len(doc.Params))
	for _, p := range doc.Params {
		sig.Params = append(sig.Params, l.typeOf(p, scope, at))
	}
	if doc.Result == "" {
		sig.Result = l.in.Builtins().Void
	} else {
		sig.Result = l.typeOf(doc.Result, scope, at)
	}
	return sig
}

// typeOf resolves a type name against the type parameters in scope, then
// the interner. Unknown names are reported and become the error type.
func (l *loader) typeOf(name string, scope map[string]types.TypeID, at *yaml.Node) types.TypeID {
	name = strings.TrimSpace(name)
	if elem, ok := strings.CutSuffix(name, "[]"); ok {
		e := l.typeOf(elem, scope, at)
		if e == l.in.Builtins().Error {
			return e
		}
		return l.in.ArrayOf(e)
	}
	if tv, ok := scope[name]; ok {
		return tv
	}
	if id, ok := l.in.Parse(name); ok {
		return id
	}
	l.errorf(diag.FixtureUnknownType, at, "unknown type %q", name)
	return l.in.Builtins().Error
}
