package sema

import (
	"polyres/internal/ast"
	"polyres/internal/diag"
	"polyres/internal/infer"
	"polyres/internal/poly"
	"polyres/internal/trace"
	"polyres/internal/types"
)

// Checker owns the engine and the poly resolver of one tree and answers
// type queries for any of its nodes.
type Checker struct {
	tree     *ast.Tree
	types    *types.Interner
	engine   *infer.Engine
	resolver *poly.Resolver
	spans    *trace.Stack
}

func NewChecker(tree *ast.Tree, opts Options) *Checker {
	in := opts.Types
	if in == nil {
		in = types.NewInterner()
	}
	spans := trace.NewStack(opts.Tracer, opts.Parent)
	rep := opts.Reporter
	if rep == nil {
		rep = diag.NopReporter{}
	}
	c := &Checker{tree: tree, types: in, spans: spans}
	c.engine = infer.New(infer.Options{
		Tree:       tree,
		Types:      in,
		Candidates: opts.Candidates,
		Typer:      c,
		Reporter:   rep,
		Spans:      spans,
	})
	c.resolver = poly.New(poly.Options{
		Tree:     tree,
		Types:    in,
		Engine:   c.engine,
		Typer:    c,
		Reporter: rep,
		Spans:    spans,
	})
	return c
}

func (c *Checker) Engine() *infer.Engine    { return c.engine }
func (c *Checker) Resolver() *poly.Resolver { return c.resolver }
func (c *Checker) Types() *types.Interner   { return c.types }

// TypeOf returns the resolved type of id, computing and recording it on
// first use. Poly expressions go through the resolver; everything else is
// typed from its own shape.
func (c *Checker) TypeOf(id ast.NodeID) types.TypeID {
	if ty, ok := c.tree.Type(id); ok {
		return ty
	}
	if c.tree.Node(id) == nil {
		return c.types.Builtins().Unknown
	}
	if poly.CanBePoly(c.tree, id) {
		return c.resolver.ComputePolyType(id)
	}
	ty := c.standalone(id)
	if ty == types.NoTypeID {
		ty = c.types.Builtins().Unknown
	}
	if _, ok := c.tree.Type(id); !ok {
		c.tree.SetType(id, ty)
	}
	return ty
}

func (c *Checker) standalone(id ast.NodeID) types.TypeID {
	n := c.tree.Node(id)
	switch n.Kind {
	case ast.KindCast:
		return c.tree.Node(c.tree.CastType(id)).Decl
	case ast.KindAssignment:
		return c.TypeOf(c.tree.Child(id, 0))
	case ast.KindName:
		if n.Decl == types.NoTypeID {
			// Unresolved names borrow a type from their context.
			return c.resolver.ContextTypeHint(id)
		}
		return n.Decl
	case ast.KindVarID:
		if n.Flags&ast.FlagInferredType != 0 {
			return c.TypeOf(c.tree.Child(c.tree.Parent(id), 1))
		}
		return n.Decl
	case ast.KindLiteral, ast.KindInfix, ast.KindArrayInit, ast.KindTypeRef:
		return n.Decl
	case ast.KindVoidType:
		return c.types.Builtins().Void
	}
	return c.types.Builtins().Unknown
}
