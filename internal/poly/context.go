package poly

import (
	"fmt"

	"polyres/internal/ast"
	"polyres/internal/types"
)

// Tag discriminates the variants of ExprContext.
type Tag uint8

const (
	CtxNone Tag = iota
	CtxRegular
	CtxInvocation
)

func (t Tag) String() string {
	switch t {
	case CtxNone:
		return "none"
	case CtxRegular:
		return "regular"
	case CtxInvocation:
		return "invocation"
	}
	return fmt.Sprintf("Tag(%d)", t)
}

// CtxKind refines regular contexts.
type CtxKind uint8

const (
	// KindOther covers the no-context sentinel and super constructor calls.
	KindOther CtxKind = iota
	// KindAssignment covers assignment right-hand sides, returns, array
	// initializer elements and explicitly typed variable initializers.
	KindAssignment
	// KindCast covers cast operands. Lambdas may use the cast type as
	// target, conditionals and invocations may not.
	KindCast
)

func (k CtxKind) String() string {
	switch k {
	case KindOther:
		return "other"
	case KindAssignment:
		return "assignment"
	case KindCast:
		return "cast"
	}
	return fmt.Sprintf("CtxKind(%d)", k)
}

// ExprContext is the context of a poly expression. Contexts are derived on
// every query and never stored.
type ExprContext struct {
	Tag Tag

	// Regular contexts.
	Kind   CtxKind
	Target types.TypeID

	// Invocation contexts. Invocation is never a conditional or switch.
	ArgIndex   int
	Invocation ast.NodeID
}

// NoContext is the context of expressions without a target type.
var NoContext = ExprContext{Tag: CtxNone, Kind: KindOther}

func AssignmentContext(target types.TypeID) ExprContext {
	return ExprContext{Tag: CtxRegular, Kind: KindAssignment, Target: target}
}

func CastContext(target types.TypeID) ExprContext {
	return ExprContext{Tag: CtxRegular, Kind: KindCast, Target: target}
}

func SuperCtorContext(superclass types.TypeID) ExprContext {
	return ExprContext{Tag: CtxRegular, Kind: KindOther, Target: superclass}
}

func InvocationContext(argIndex int, invocation ast.NodeID) ExprContext {
	return ExprContext{Tag: CtxInvocation, ArgIndex: argIndex, Invocation: invocation}
}

func (c ExprContext) IsNone() bool       { return c.Tag == CtxNone }
func (c ExprContext) IsInvocation() bool { return c.Tag == CtxInvocation }

// TargetType returns the target type bestowed on a poly expression, or
// NoTypeID. Cast contexts only count when allowCasts is set.
func (c ExprContext) TargetType(allowCasts bool) types.TypeID {
	if c.Tag != CtxRegular {
		return types.NoTypeID
	}
	if !allowCasts && c.Kind == KindCast {
		return types.NoTypeID
	}
	return c.Target
}

// Describe renders the context for reports.
func (c ExprContext) Describe(tree *ast.Tree, in *types.Interner) string {
	switch c.Tag {
	case CtxInvocation:
		return fmt.Sprintf("invocation arg #%d of %s", c.ArgIndex, tree.Label(c.Invocation))
	case CtxRegular:
		if c.Target == types.NoTypeID {
			return c.Kind.String() + " (no target)"
		}
		return c.Kind.String() + " " + in.String(c.Target)
	}
	return "none"
}
