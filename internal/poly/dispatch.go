package poly

import (
	"errors"
	"fmt"

	"polyres/internal/ast"
	"polyres/internal/diag"
	"polyres/internal/trace"
	"polyres/internal/types"
)

var (
	// ErrNotPoly is the panic payload when ComputePolyType is asked about a
	// node that cannot be a poly expression.
	ErrNotPoly = errors.New("poly: node cannot be a poly expression")
	// ErrFunctionalUntyped is the panic payload when functional inference
	// returns without assigning a type.
	ErrFunctionalUntyped = errors.New("poly: functional inference left node untyped")
)

// ComputePolyType returns the type of a poly expression, computing it from
// its context on first use and recording it in the node's slot.
func (r *Resolver) ComputePolyType(e ast.NodeID) types.TypeID {
	if !CanBePoly(r.tree, e) {
		panic(fmt.Errorf("%w: %s", ErrNotPoly, r.tree.Label(e)))
	}
	if ty, ok := r.tree.Type(e); ok {
		return ty
	}
	if r.states[e] == stateInProgress {
		r.report(diag.SemaPolyCycle, e, "type of %s depends on itself", r.tree.Label(e))
		return r.types.Builtins().Error
	}
	r.states[e] = stateInProgress

	ctx := r.ContextOf(e, false)
	sp := r.spans.Begin(trace.ScopeNode, "poly").
		WithExtra("node", r.tree.Label(e)).
		WithExtra("ctx", ctx.Describe(r.tree, r.types))

	var ty types.TypeID
	if ctx.IsInvocation() {
		ty = r.polyTypeInvocationCtx(e, ctx)
	} else {
		ty = r.polyTypeOtherCtx(e, ctx)
	}
	if cur, ok := r.tree.Type(e); ok {
		ty = cur
	} else {
		if ty == types.NoTypeID {
			ty = r.types.Builtins().Unknown
		}
		r.tree.SetType(e, ty)
	}
	r.states[e] = stateDone
	sp.End(r.types.String(ty))
	return ty
}

func (r *Resolver) polyTypeOtherCtx(e ast.NodeID, ctx ExprContext) types.TypeID {
	switch k := r.tree.Kind(e); {
	case k.IsInvocation():
		// Only assignment-like targets drive return type inference.
		return r.inferInvocation(e, e, ctx.TargetType(false))
	case k.IsBranching():
		if standalone, ok := r.standaloneBranchType(e); ok {
			return standalone
		}
		if ctx.IsNone() {
			return MergeBranchTypes(r.types, r.rawBranchTypes(e))
		}
		if target := ctx.TargetType(true); target != types.NoTypeID {
			return target
		}
		return r.types.Builtins().Error
	case k.IsFunctional():
		return r.inferLambdaOrMref(e, ctx.TargetType(true))
	}
	panic(fmt.Errorf("%w: %s", ErrNotPoly, r.tree.Label(e)))
}

func (r *Resolver) polyTypeInvocationCtx(e ast.NodeID, ctx ExprContext) types.TypeID {
	invoc := ctx.Invocation
	if r.tree.Kind(invoc).IsExpression() {
		// Typing the outermost call resolves the whole chain.
		r.typer.TypeOf(invoc)
		return r.fetchCascaded(e)
	}
	return r.inferInvocation(invoc, e, types.NoTypeID)
}

// inferInvocation resolves the overload of invoc with an optional target,
// then recovers the type of e, which is invoc itself or one of the
// expressions nested in its arguments.
func (r *Resolver) inferInvocation(invoc, e ast.NodeID, target types.TypeID) types.TypeID {
	r.engine.InferInvocationRecursively(r.engine.NewCallSite(invoc, target))
	return r.fetchCascaded(e)
}

// fetchCascaded returns the type overload resolution of an enclosing call
// assigned to e, or derives it from the selected formal parameter, or types
// e as if it had no context when the call could not be resolved.
func (r *Resolver) fetchCascaded(e ast.NodeID) types.TypeID {
	if ty, ok := r.tree.Type(e); ok {
		return ty
	}
	t := r.tree
	if gp := t.Parent(t.Parent(e)); t.Kind(t.Parent(e)) == ast.KindArgumentList && t.Kind(gp).IsInvocation() {
		if sel, ok := r.engine.Selection(gp); ok && !sel.Failed {
			formal := sel.Formal(t.IndexInParent(e))
			if t.Kind(e).IsFunctional() {
				return r.inferLambdaOrMref(e, formal)
			}
			return formal
		}
	}
	if t.Kind(e).IsInvocation() {
		if _, seen := r.engine.Selection(e); seen {
			// Resolution of e is still running further up the stack.
			return r.types.Builtins().Unknown
		}
	}
	r.spans.Point(trace.ScopeNode, "poly_fallback", t.Label(e))
	return r.polyTypeOtherCtx(e, NoContext)
}

func (r *Resolver) inferLambdaOrMref(e ast.NodeID, target types.TypeID) types.TypeID {
	r.engine.InferFunctionalInUnambiguousContext(r.engine.NewFunctionalSite(e, target))
	ty, ok := r.tree.Type(e)
	if !ok {
		// Assertion only: the engine commits a type for every target,
		// unknown when there is none and error when it does not fit.
		panic(fmt.Errorf("%w: %s", ErrFunctionalUntyped, r.tree.Label(e)))
	}
	return ty
}

// branches returns the result expressions of a conditional or switch.
func (r *Resolver) branches(e ast.NodeID) []ast.NodeID {
	if r.tree.Kind(e) == ast.KindConditional {
		return []ast.NodeID{r.tree.CondThen(e), r.tree.CondElse(e)}
	}
	return r.tree.YieldExpressions(e)
}

func (r *Resolver) rawBranchTypes(e ast.NodeID) []types.TypeID {
	bs := r.branches(e)
	out := make([]types.TypeID, len(bs))
	for i, b := range bs {
		out[i] = r.typer.TypeOf(b)
	}
	return out
}

// standaloneBranchType types a conditional or switch from its branches
// alone. That is only possible when every branch has a type of its own and
// all of them are boolean or numeric, boxed or not; a branch that is a
// lambda, a method reference or a reference typed expression makes the
// whole expression depend on its target.
func (r *Resolver) standaloneBranchType(e ast.NodeID) (types.TypeID, bool) {
	bs := r.branches(e)
	if len(bs) == 0 {
		return types.NoTypeID, false
	}
	ts := make([]types.TypeID, 0, len(bs))
	for _, b := range bs {
		var ty types.TypeID
		switch k := r.tree.Kind(b); {
		case k.IsFunctional():
			return types.NoTypeID, false
		case k.IsBranching():
			st, ok := r.standaloneBranchType(b)
			if !ok {
				return types.NoTypeID, false
			}
			ty = st
		default:
			ty = r.typer.TypeOf(b)
		}
		if !r.types.IsPrimitive(r.types.Unbox(ty)) {
			return types.NoTypeID, false
		}
		ts = append(ts, ty)
	}
	return MergeBranchTypes(r.types, ts), true
}

func (r *Resolver) report(code diag.Code, id ast.NodeID, format string, args ...interface{}) {
	if r.rep == nil {
		return
	}
	var n ast.Node
	if p := r.tree.Node(id); p != nil {
		n = *p
	}
	if b := diag.ReportError(r.rep, code, n.Span, fmt.Sprintf(format, args...)); b != nil {
		b.Emit()
	}
}
