package sema

import (
	"strconv"

	"polyres/internal/ast"
	"polyres/internal/diag"
	"polyres/internal/infer"
	"polyres/internal/poly"
	"polyres/internal/trace"
	"polyres/internal/types"
)

// Options configure a checking pass over one tree.
type Options struct {
	Reporter   diag.Reporter
	Types      *types.Interner
	Candidates infer.Candidates
	Tracer     trace.Tracer
	// Parent is the span the check pass is nested under.
	Parent uint64
}

// Result stores what the checker learned about the tree.
type Result struct {
	TypeInterner *types.Interner
	// PolyNodes lists every poly expression in walk order.
	PolyNodes []ast.NodeID
	ExprTypes map[ast.NodeID]types.TypeID
	Contexts  map[ast.NodeID]poly.ExprContext
}

// Check types every poly expression of tree, then records the type of every
// expression and the context of every poly expression.
func Check(tree *ast.Tree, opts Options) Result {
	c := NewChecker(tree, opts)
	res := Result{
		TypeInterner: c.types,
		ExprTypes:    make(map[ast.NodeID]types.TypeID),
		Contexts:     make(map[ast.NodeID]poly.ExprContext),
	}
	if tree == nil {
		return res
	}
	sp := c.spans.Begin(trace.ScopePass, "check")
	defer sp.End("")

	nodes := c.nodes()
	for _, id := range nodes {
		if poly.CanBePoly(tree, id) {
			res.PolyNodes = append(res.PolyNodes, id)
			c.TypeOf(id)
		}
	}
	for _, id := range nodes {
		if tree.Kind(id).IsExpression() {
			res.ExprTypes[id] = c.TypeOf(id)
		}
	}
	for _, id := range res.PolyNodes {
		res.Contexts[id] = c.resolver.ContextOf(id, false)
	}
	sp.WithExtra("poly", strconv.Itoa(len(res.PolyNodes)))
	return res
}

// nodes lists the tree in pre-order from the root, or every node when the
// tree has no root.
func (c *Checker) nodes() []ast.NodeID {
	var out []ast.NodeID
	if c.tree.Root.IsValid() {
		c.tree.Walk(c.tree.Root, func(id ast.NodeID) bool {
			out = append(out, id)
			return true
		})
		return out
	}
	for id := range c.tree.All() {
		out = append(out, id)
	}
	return out
}
