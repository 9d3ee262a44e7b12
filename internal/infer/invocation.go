package infer

import (
	"slices"
	"strconv"
	"strings"

	"polyres/internal/ast"
	"polyres/internal/diag"
	"polyres/internal/trace"
	"polyres/internal/types"
)

// InferInvocationRecursively resolves the overload of site.Call, records
// the selection and commits the types of the call and of the invocations,
// conditionals and switches nested in its arguments. Arguments that are
// lambdas or method references directly are left to the caller.
func (e *Engine) InferInvocationRecursively(site CallSite) Selection {
	if sel, ok := e.selections[site.Call]; ok {
		return *sel
	}
	sp := e.spans.Begin(trace.ScopeNode, "infer_invocation").
		WithExtra("call", e.tree.Label(site.Call))

	// Placeholder so that a cycle through argument typing sees a failed call.
	e.selections[site.Call] = &Selection{Failed: true}
	sel := e.resolve(site.Call, site.Target, true)
	e.selections[site.Call] = &sel
	e.commitInvocation(site.Call, sel)

	if sel.Failed {
		sp.End("failed")
	} else {
		sp.End(e.types.SigString(sel.Method))
	}
	return sel
}

// probe resolves a nested call without a target type and without recording
// or reporting anything, to learn its standalone result type.
func (e *Engine) probe(call ast.NodeID) Selection {
	if sel, ok := e.selections[call]; ok {
		return *sel
	}
	if sel, ok := e.probes[call]; ok {
		return *sel
	}
	e.probes[call] = &Selection{Failed: true}
	sel := e.resolve(call, types.NoTypeID, false)
	e.probes[call] = &sel
	return sel
}

func (e *Engine) resolve(call ast.NodeID, target types.TypeID, report bool) Selection {
	span := e.span(call)
	cands := e.candidates(call)
	if len(cands) == 0 {
		if report {
			e.report(diag.SemaUnresolvedMethod, span, "%s not found", e.missingName(call))
		}
		return Selection{Failed: true}
	}
	args := e.tree.Args(call)

	for _, strict := range []bool{true, false} {
		var app []applicableCandidate
		for _, c := range cands {
			if c.Arity() != len(args) {
				continue
			}
			inst, free := e.instantiate(c, args, target)
			if e.applicable(inst, args, strict) {
				app = append(app, applicableCandidate{sig: inst, resultFree: free})
			}
		}
		best := e.selectMostSpecific(app)
		if best.ambiguous {
			if report {
				e.report(diag.SemaAmbiguousMethod, span, "ambiguous call to %s(%s)", e.displayName(call), e.describeArgs(args))
			}
			return Selection{Failed: true}
		}
		if best.ok {
			return Selection{Method: best.sig, ResultFree: best.resultFree}
		}
	}
	if report {
		b := diag.ReportError(e.rep, diag.SemaNoApplicableMethod, span,
			"no applicable overload for "+e.displayName(call)+"("+e.describeArgs(args)+")")
		for _, c := range cands {
			b.WithNote(span, "candidate: "+e.types.SigString(c))
		}
		b.Emit()
	}
	return Selection{Failed: true}
}

func (e *Engine) candidates(call ast.NodeID) []types.MethodSig {
	switch e.tree.Kind(call) {
	case ast.KindMethodCall:
		return e.cands.Methods(e.tree.Node(call).Name)
	case ast.KindConstructorCall:
		ref := e.tree.Node(e.tree.Child(call, 0))
		if ref == nil {
			return nil
		}
		return e.constructors(ref.Decl)
	case ast.KindExplicitCtorCall:
		cls := e.enclosingClass(call)
		if e.tree.Node(call).Flags&ast.FlagSuper != 0 {
			cls = e.types.SuperClass(cls)
		}
		return e.constructors(cls)
	case ast.KindEnumConstant:
		return e.constructors(e.enclosingClass(call))
	}
	return nil
}

// constructors lists the constructors of class; a class that declares none
// has the implicit no-argument one.
func (e *Engine) constructors(class types.TypeID) []types.MethodSig {
	if class == types.NoTypeID {
		return nil
	}
	declared := e.cands.Constructors(class)
	if len(declared) == 0 {
		return []types.MethodSig{{Name: "<init>", Owner: class, Result: class}}
	}
	out := make([]types.MethodSig, len(declared))
	for i, c := range declared {
		if c.Result == types.NoTypeID {
			c.Result = class
		}
		out[i] = c
	}
	return out
}

func (e *Engine) enclosingClass(id ast.NodeID) types.TypeID {
	decl := e.tree.EnclosingType(id)
	if n := e.tree.Node(decl); n != nil {
		return n.Decl
	}
	return types.NoTypeID
}

// instantiate binds the method type parameters from the argument types,
// then the result from the target, then any remaining one to its bound.
func (e *Engine) instantiate(sig types.MethodSig, args []ast.NodeID, target types.TypeID) (types.MethodSig, bool) {
	if !sig.IsGeneric() {
		return sig, false
	}
	isVar := func(t types.TypeID) bool { return slices.Contains(sig.TypeParams, t) }
	bind := make(map[types.TypeID]types.TypeID, len(sig.TypeParams))
	for i, p := range sig.Params {
		if !isVar(p) {
			continue
		}
		at := e.argType(args[i])
		if at == types.NoTypeID || e.types.IsSentinel(at) || e.types.KindOf(at) == types.KindNull {
			continue
		}
		at = e.types.Box(at)
		if prev, ok := bind[p]; ok && prev != at {
			at = e.types.LUB([]types.TypeID{prev, at})
		}
		bind[p] = at
	}
	free := false
	if isVar(sig.Result) {
		if _, ok := bind[sig.Result]; !ok {
			free = true
			if target != types.NoTypeID && !e.types.IsSentinel(target) && e.types.KindOf(target) != types.KindVoid {
				bind[sig.Result] = e.types.Box(target)
			}
		}
	}
	for _, tv := range sig.TypeParams {
		if _, ok := bind[tv]; ok {
			continue
		}
		info, _ := e.types.TypeVarInfo(tv)
		bind[tv] = info.Bound
	}
	return sig.Subst(bind), free
}

func (e *Engine) applicable(sig types.MethodSig, args []ast.NodeID, strict bool) bool {
	for i, arg := range args {
		if !e.compatible(arg, sig.Params[i], strict) {
			return false
		}
	}
	return true
}

// compatible checks one argument against a formal: functional expressions
// by shape, conditionals and switches branch by branch, everything else by
// its standalone type.
func (e *Engine) compatible(arg ast.NodeID, param types.TypeID, strict bool) bool {
	if param == types.NoTypeID {
		return false
	}
	if e.types.IsSentinel(param) {
		return true
	}
	switch k := e.tree.Kind(arg); {
	case k.IsFunctional():
		fm, ok := e.types.FunctionalMethod(param)
		if !ok {
			return false
		}
		if k == ast.KindLambda {
			return e.tree.Node(arg).Arity == fm.Arity()
		}
		return true
	case k.IsBranching():
		for _, br := range e.branches(arg) {
			if !e.compatible(br, param, strict) {
				return false
			}
		}
		return true
	}
	at := e.argType(arg)
	if strict {
		return e.types.IsSubtype(at, param)
	}
	return e.types.IsAssignable(at, param)
}

// argType is the type an argument has without a target: NoTypeID for
// functional expressions, the probed result for nested calls.
func (e *Engine) argType(arg ast.NodeID) types.TypeID {
	b := e.types.Builtins()
	switch k := e.tree.Kind(arg); {
	case k.IsFunctional():
		return types.NoTypeID
	case k == ast.KindMethodCall || k == ast.KindConstructorCall:
		if ty, ok := e.tree.Type(arg); ok {
			return ty
		}
		sel := e.probe(arg)
		if sel.Failed || sel.ResultFree {
			return b.Unknown
		}
		return sel.Result()
	case k.IsBranching():
		return e.branchType(e.branches(arg))
	}
	if e.typer != nil {
		return e.typer.TypeOf(arg)
	}
	if n := e.tree.Node(arg); n != nil && n.Decl != types.NoTypeID {
		return n.Decl
	}
	return b.Unknown
}

func (e *Engine) branchType(branches []ast.NodeID) types.TypeID {
	var ts []types.TypeID
	for _, br := range branches {
		if t := e.argType(br); t != types.NoTypeID {
			ts = append(ts, t)
		}
	}
	if len(ts) == 0 {
		return types.NoTypeID
	}
	if !slices.ContainsFunc(ts, func(t types.TypeID) bool { return t != ts[0] }) {
		return ts[0]
	}
	if prim, ok := e.widestPrimitive(ts); ok {
		return prim
	}
	boxed := make([]types.TypeID, len(ts))
	for i, t := range ts {
		boxed[i] = e.types.Box(t)
	}
	return e.types.LUB(boxed)
}

func (e *Engine) branches(arg ast.NodeID) []ast.NodeID {
	if e.tree.Kind(arg) == ast.KindConditional {
		return []ast.NodeID{e.tree.CondThen(arg), e.tree.CondElse(arg)}
	}
	return e.tree.YieldExpressions(arg)
}

// numericBranchType returns the type of a conditional or switch whose
// branches are all boolean or numeric; such expressions do not take the
// type of their target.
func (e *Engine) numericBranchType(arg ast.NodeID) (types.TypeID, bool) {
	bs := e.branches(arg)
	if len(bs) == 0 {
		return types.NoTypeID, false
	}
	for _, br := range bs {
		k := e.tree.Kind(br)
		if k.IsFunctional() {
			return types.NoTypeID, false
		}
		if k.IsBranching() {
			if _, ok := e.numericBranchType(br); !ok {
				return types.NoTypeID, false
			}
			continue
		}
		if !e.types.IsPrimitive(e.types.Unbox(e.argType(br))) {
			return types.NoTypeID, false
		}
	}
	ty := e.branchType(bs)
	return ty, ty != types.NoTypeID
}

func (e *Engine) widestPrimitive(ts []types.TypeID) (types.TypeID, bool) {
	for _, p := range e.types.Primitives() {
		all := true
		for _, t := range ts {
			u := e.types.Unbox(t)
			if !e.types.IsPrimitive(u) || !e.types.IsSubtype(u, p) {
				all = false
				break
			}
		}
		if all {
			return p, true
		}
	}
	return types.NoTypeID, false
}

func (e *Engine) commitInvocation(call ast.NodeID, sel Selection) {
	b := e.types.Builtins()
	isExpr := e.tree.Kind(call).IsExpression()
	switch {
	case !isExpr:
		e.commitType(call, b.Void)
	case sel.Failed:
		e.commitType(call, b.Unknown)
	default:
		e.commitType(call, sel.Result())
	}
	if sel.Failed {
		return
	}
	for i, arg := range e.tree.Args(call) {
		e.commitArg(arg, sel.Formal(i), true)
	}
}

func (e *Engine) commitArg(arg ast.NodeID, formal types.TypeID, direct bool) {
	switch e.tree.Kind(arg) {
	case ast.KindMethodCall, ast.KindConstructorCall:
		e.InferInvocationRecursively(CallSite{Call: arg, Target: formal})
	case ast.KindConditional, ast.KindSwitchExpr:
		ty, ok := e.numericBranchType(arg)
		if !ok {
			ty = formal
		}
		e.commitType(arg, ty)
		for _, br := range e.branches(arg) {
			e.commitArg(br, formal, false)
		}
	case ast.KindLambda, ast.KindMethodRef:
		if !direct {
			e.InferFunctionalInUnambiguousContext(FunctionalSite{Expr: arg, Target: formal})
		}
	}
}

func (e *Engine) displayName(call ast.NodeID) string {
	n := e.tree.Node(call)
	if n == nil {
		return "<call>"
	}
	if n.Kind == ast.KindConstructorCall {
		return "new " + n.Name
	}
	return n.Name
}

// missingName names what an unresolved call was looking for.
func (e *Engine) missingName(call ast.NodeID) string {
	switch e.tree.Kind(call) {
	case ast.KindConstructorCall:
		return "class " + e.tree.Node(call).Name
	case ast.KindExplicitCtorCall, ast.KindEnumConstant:
		return "enclosing class"
	}
	return "method " + e.displayName(call)
}

func (e *Engine) describeArgs(args []ast.NodeID) string {
	parts := make([]string, len(args))
	for i, a := range args {
		switch k := e.tree.Kind(a); {
		case k == ast.KindLambda:
			parts[i] = "lambda/" + strconv.Itoa(e.tree.Node(a).Arity)
		case k == ast.KindMethodRef:
			parts[i] = "::" + e.tree.Node(a).Name
		default:
			t := e.argType(a)
			if t == types.NoTypeID {
				parts[i] = "?"
			} else {
				parts[i] = e.types.String(t)
			}
		}
	}
	return strings.Join(parts, ", ")
}
