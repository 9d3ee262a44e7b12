package infer

import (
	"polyres/internal/ast"
	"polyres/internal/diag"
	"polyres/internal/trace"
	"polyres/internal/types"
)

// InferFunctionalInUnambiguousContext assigns the type of a lambda or
// method reference whose target is known: the target when it is a
// functional interface the expression fits, the error type when it is not,
// the unknown type when there is no target. Returns the slot's type.
func (e *Engine) InferFunctionalInUnambiguousContext(site FunctionalSite) types.TypeID {
	if ty, ok := e.tree.Type(site.Expr); ok {
		return ty
	}
	ty := e.functionalType(site)
	e.commitType(site.Expr, ty)
	e.spans.Point(trace.ScopeNode, "infer_functional", e.tree.Label(site.Expr)+": "+e.types.String(ty))
	return ty
}

func (e *Engine) functionalType(site FunctionalSite) types.TypeID {
	b := e.types.Builtins()
	target := site.Target
	switch e.types.KindOf(target) {
	case types.KindInvalid, types.KindUnknown:
		return b.Unknown
	case types.KindError:
		return b.Error
	}
	span := e.span(site.Expr)
	fm, ok := e.types.FunctionalMethod(target)
	if !ok {
		e.report(diag.SemaNotFunctionalInterface, span, "%s is not a functional interface", e.types.String(target))
		return b.Error
	}
	n := e.tree.Node(site.Expr)
	if n.Kind == ast.KindLambda && n.Arity != fm.Arity() {
		e.report(diag.SemaLambdaArity, span, "lambda takes %d parameters but %s expects %d",
			n.Arity, e.types.SigString(fm), fm.Arity())
		return b.Error
	}
	e.functional[site.Expr] = fm
	return target
}
