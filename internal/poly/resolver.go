package poly

import (
	"polyres/internal/ast"
	"polyres/internal/diag"
	"polyres/internal/infer"
	"polyres/internal/trace"
	"polyres/internal/types"
)

type state uint8

const (
	stateUnresolved state = iota
	stateInProgress
	stateDone
)

// Options carries the collaborators of a Resolver. All of them belong to
// one file.
type Options struct {
	Tree     *ast.Tree
	Types    *types.Interner
	Engine   *infer.Engine
	Typer    infer.Typer
	Reporter diag.Reporter
	// Spans nests node spans under the caller's; defaults to a root stack
	// over Tracer.
	Spans  *trace.Stack
	Tracer trace.Tracer
}

// Resolver computes poly expression types for one tree. It is not safe for
// concurrent use.
type Resolver struct {
	tree   *ast.Tree
	types  *types.Interner
	engine *infer.Engine
	typer  infer.Typer
	rep    diag.Reporter
	spans  *trace.Stack

	states map[ast.NodeID]state
}

func New(opts Options) *Resolver {
	spans := opts.Spans
	if spans == nil {
		spans = trace.NewStack(opts.Tracer, 0)
	}
	return &Resolver{
		tree:   opts.Tree,
		types:  opts.Types,
		engine: opts.Engine,
		typer:  opts.Typer,
		rep:    opts.Reporter,
		spans:  spans,
		states: make(map[ast.NodeID]state),
	}
}

// CanBePoly reports whether the type of id may depend on its context.
func CanBePoly(tree *ast.Tree, id ast.NodeID) bool {
	switch k := tree.Kind(id); k {
	case ast.KindLambda, ast.KindMethodRef, ast.KindConditional, ast.KindSwitchExpr:
		return true
	default:
		return k.IsInvocation()
	}
}

// ContextOf returns the context of node. With onlyInvoc set the search
// only looks for an enclosing invocation and otherwise yields NoContext.
//
//	new Bar(foo())       foo: invocation arg #0 of new Bar
//	a = foo()            foo: assignment, type of a
//	a = (T) foo()        foo: cast T
//	return foo();        foo: assignment, method result type
//	foo(c ? l1 : l2)     l1, l2 and the conditional: arg #0 of foo
//	foo();               foo: none
//	1 + (c ? foo() : 2)  foo: none, the conditional has no context
func (r *Resolver) ContextOf(node ast.NodeID, onlyInvoc bool) ExprContext {
	t := r.tree
	parent := t.Parent(node)
	if !parent.IsValid() {
		return NoContext
	}

	if t.Kind(parent) == ast.KindArgumentList {
		// lhs = foo(bar(bog())): the context of bog is bar, that of bar is
		// foo, and asking foo for its type binds it to lhs.
		invoc := t.Parent(parent)
		idx := t.IndexInParent(node)
		switch t.Kind(invoc) {
		case ast.KindExplicitCtorCall, ast.KindEnumConstant:
			return InvocationContext(idx, invoc)
		}
		outer := r.ContextOf(invoc, true)
		if outer.IsNone() {
			return InvocationContext(idx, invoc)
		}
		return outer
	}
	if cascades(t, parent, node) {
		return r.ContextOf(parent, onlyInvoc)
	}

	if onlyInvoc {
		return NoContext
	}

	switch t.Kind(parent) {
	case ast.KindArrayInit:
		return AssignmentContext(r.types.ArrayComponent(r.typer.TypeOf(parent)))
	case ast.KindCast:
		return CastContext(t.Node(t.CastType(parent)).Decl)
	case ast.KindAssignment:
		if t.IndexInParent(node) == 1 {
			return AssignmentContext(r.typer.TypeOf(t.Child(parent, 0)))
		}
	case ast.KindReturnStmt:
		return AssignmentContext(r.returnTargetType(parent))
	case ast.KindVarDeclarator:
		if v := t.Node(t.VarID(parent)); v != nil && v.Flags&ast.FlagInferredType == 0 && t.IndexInParent(node) == 1 {
			return AssignmentContext(v.Decl)
		}
	case ast.KindYieldStmt:
		return r.ContextOf(t.YieldTarget(parent), false)
	}

	if n := t.Node(node); n.Kind == ast.KindExplicitCtorCall && n.Flags&ast.FlagSuper != 0 {
		// The superclass is the target when the super constructor is generic.
		return SuperCtorContext(r.types.SuperClass(r.enclosingClass(node)))
	}
	return NoContext
}

// cascades reports whether parent forwards its own context to child:
// conditional and switch branches other than the condition, and arrow
// branch bodies.
func cascades(t *ast.Tree, parent, child ast.NodeID) bool {
	if t.Parent(child) != parent {
		return false
	}
	switch t.Kind(parent) {
	case ast.KindSwitchExpr, ast.KindConditional:
		return t.IndexInParent(child) != 0
	case ast.KindSwitchArrowBranch:
		return true
	}
	return false
}

// returnTargetType is the declared result of the method around ret, the
// functional result of the lambda around it when already known, or
// NoTypeID when a value return is illegal there.
func (r *Resolver) returnTargetType(ret ast.NodeID) types.TypeID {
	t := r.tree
	owner := t.FirstAncestorOfKind(ret, ast.KindMethodDecl, ast.KindLambda, ast.KindTypeDecl, ast.KindEnumDecl)
	switch t.Kind(owner) {
	case ast.KindLambda:
		if fm, ok := r.engine.FunctionalMethod(owner); ok {
			return fm.Result
		}
		return types.NoTypeID
	case ast.KindMethodDecl:
		res := t.ResultType(owner)
		if t.Kind(res) != ast.KindTypeRef {
			return types.NoTypeID
		}
		return t.Node(res).Decl
	}
	return types.NoTypeID
}

func (r *Resolver) enclosingClass(id ast.NodeID) types.TypeID {
	if n := r.tree.Node(r.tree.EnclosingType(id)); n != nil {
		return n.Decl
	}
	return types.NoTypeID
}
