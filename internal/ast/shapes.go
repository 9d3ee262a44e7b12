package ast

// Child layouts:
//
//	MethodCall        [qualifier?] ArgumentList
//	ConstructorCall   TypeRef ArgumentList
//	ExplicitCtorCall  ArgumentList
//	EnumConstant      ArgumentList?
//	Conditional       condition then else
//	SwitchExpr        tested branch...
//	SwitchArrowBranch SwitchLabel body
//	SwitchFallthrough SwitchLabel stmt...
//	Cast              TypeRef operand
//	Assignment        lhs rhs
//	ReturnStmt        value?
//	YieldStmt         value
//	VarDeclarator     VarID init?
//	MethodDecl        (TypeRef|VoidType) Block
//	Lambda            body

// ArgumentList returns the argument list of an invocation, if any.
func (t *Tree) ArgumentList(call NodeID) NodeID {
	if !t.Kind(call).IsInvocation() {
		return NoNodeID
	}
	kids := t.Children(call)
	if len(kids) == 0 {
		return NoNodeID
	}
	last := kids[len(kids)-1]
	if t.Kind(last) != KindArgumentList {
		return NoNodeID
	}
	return last
}

// Args returns the argument expressions of an invocation.
func (t *Tree) Args(call NodeID) []NodeID {
	return t.Children(t.ArgumentList(call))
}

// CondThen and CondElse return the branches of a conditional.
func (t *Tree) CondThen(cond NodeID) NodeID { return t.Child(cond, 1) }
func (t *Tree) CondElse(cond NodeID) NodeID { return t.Child(cond, 2) }

// SwitchTested returns the discriminant of a switch expression.
func (t *Tree) SwitchTested(sw NodeID) NodeID { return t.Child(sw, 0) }

// YieldTarget returns the switch expression a yield statement belongs to.
func (t *Tree) YieldTarget(y NodeID) NodeID {
	return t.FirstAncestorOfKind(y, KindSwitchExpr)
}

// YieldExpressions returns the result expressions of a switch expression:
// expression bodies of arrow branches and the values of yield statements
// targeting it, in source order.
func (t *Tree) YieldExpressions(sw NodeID) []NodeID {
	kids := t.Children(sw)
	if len(kids) < 2 {
		return nil
	}
	var out []NodeID
	for _, br := range kids[1:] {
		if t.Kind(br) == KindSwitchArrowBranch {
			body := t.Child(br, 1)
			if t.Kind(body).IsExpression() {
				out = append(out, body)
				continue
			}
		}
		t.Walk(br, func(n NodeID) bool {
			switch t.Kind(n) {
			case KindSwitchExpr, KindLambda, KindTypeDecl:
				return n == br
			case KindYieldStmt:
				if v := t.Child(n, 0); v.IsValid() {
					out = append(out, v)
				}
				return false
			}
			return true
		})
	}
	return out
}

// CastType returns the declared type of a cast.
func (t *Tree) CastType(cast NodeID) NodeID { return t.Child(cast, 0) }

// VarID returns the variable of a declarator.
func (t *Tree) VarID(decl NodeID) NodeID { return t.Child(decl, 0) }

// ResultType returns the result type node of a method declaration.
func (t *Tree) ResultType(method NodeID) NodeID { return t.Child(method, 0) }

// EnclosingType returns the innermost type or enum declaration around id.
func (t *Tree) EnclosingType(id NodeID) NodeID {
	return t.FirstAncestorOfKind(id, KindTypeDecl, KindEnumDecl)
}

// Label renders a short human description of a node for reports.
func (t *Tree) Label(id NodeID) string {
	n := t.Node(id)
	if n == nil {
		return "<none>"
	}
	if n.Name != "" {
		return n.Kind.String() + " " + n.Name
	}
	return n.Kind.String()
}
