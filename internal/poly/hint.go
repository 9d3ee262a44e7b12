package poly

import (
	"polyres/internal/ast"
	"polyres/internal/types"
)

// ContextTypeHint returns a type suggested by the context of e without ever
// starting overload resolution. Expressions in invocation contexts get the
// unknown type; switch labels get the type of the switch discriminant.
func (r *Resolver) ContextTypeHint(e ast.NodeID) types.TypeID {
	unknown := r.types.Builtins().Unknown
	ctx := r.ContextOf(e, false)
	if ctx.IsInvocation() {
		return unknown
	}
	if r.tree.Kind(r.tree.Parent(e)) == ast.KindSwitchLabel {
		if sw := r.tree.FirstAncestorOfKind(e, ast.KindSwitchExpr); sw.IsValid() {
			return r.typer.TypeOf(r.tree.SwitchTested(sw))
		}
	}
	if target := ctx.TargetType(false); target != types.NoTypeID {
		return target
	}
	return unknown
}
