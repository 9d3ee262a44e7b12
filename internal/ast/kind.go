package ast

import "fmt"

// Kind tags every node. The set is closed: predicates below switch over all
// of it, so a new kind must be classified explicitly.
type Kind uint8

const (
	KindInvalid Kind = iota

	// declarations
	KindCompilationUnit
	KindTypeDecl
	KindEnumDecl
	KindMethodDecl
	KindVarID
	KindVarDeclarator

	// statements
	KindBlock
	KindExprStmt
	KindReturnStmt
	KindYieldStmt
	KindLocalVarDecl

	// invocations that are not expressions
	KindExplicitCtorCall
	KindEnumConstant

	// expressions
	KindMethodCall
	KindConstructorCall
	KindLambda
	KindMethodRef
	KindConditional
	KindSwitchExpr
	KindCast
	KindAssignment
	KindArrayInit
	KindLiteral
	KindName
	KindInfix

	// auxiliary
	KindArgumentList
	KindSwitchArrowBranch
	KindSwitchFallthrough
	KindSwitchLabel
	KindTypeRef
	KindVoidType
)

var kindNames = [...]string{
	KindInvalid:           "Invalid",
	KindCompilationUnit:   "CompilationUnit",
	KindTypeDecl:          "TypeDecl",
	KindEnumDecl:          "EnumDecl",
	KindMethodDecl:        "MethodDecl",
	KindVarID:             "VarID",
	KindVarDeclarator:     "VarDeclarator",
	KindBlock:             "Block",
	KindExprStmt:          "ExprStmt",
	KindReturnStmt:        "ReturnStmt",
	KindYieldStmt:         "YieldStmt",
	KindLocalVarDecl:      "LocalVarDecl",
	KindExplicitCtorCall:  "ExplicitCtorCall",
	KindEnumConstant:      "EnumConstant",
	KindMethodCall:        "MethodCall",
	KindConstructorCall:   "ConstructorCall",
	KindLambda:            "Lambda",
	KindMethodRef:         "MethodRef",
	KindConditional:       "Conditional",
	KindSwitchExpr:        "SwitchExpr",
	KindCast:              "Cast",
	KindAssignment:        "Assignment",
	KindArrayInit:         "ArrayInit",
	KindLiteral:           "Literal",
	KindName:              "Name",
	KindInfix:             "Infix",
	KindArgumentList:      "ArgumentList",
	KindSwitchArrowBranch: "SwitchArrowBranch",
	KindSwitchFallthrough: "SwitchFallthrough",
	KindSwitchLabel:       "SwitchLabel",
	KindTypeRef:           "TypeRef",
	KindVoidType:          "VoidType",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name && Kind(k) != KindInvalid {
			return Kind(k), true
		}
	}
	return KindInvalid, false
}

// IsInvocation reports whether nodes of this kind select an overload.
func (k Kind) IsInvocation() bool {
	switch k {
	case KindMethodCall, KindConstructorCall, KindExplicitCtorCall, KindEnumConstant:
		return true
	}
	return false
}

// IsExpression reports whether nodes of this kind have a value and may be
// asked for their own type. Explicit constructor calls and enum constants
// are invocations but not expressions.
func (k Kind) IsExpression() bool {
	switch k {
	case KindMethodCall, KindConstructorCall, KindLambda, KindMethodRef,
		KindConditional, KindSwitchExpr, KindCast, KindAssignment,
		KindArrayInit, KindLiteral, KindName, KindInfix:
		return true
	case KindInvalid, KindCompilationUnit, KindTypeDecl, KindEnumDecl,
		KindMethodDecl, KindVarID, KindVarDeclarator, KindBlock, KindExprStmt,
		KindReturnStmt, KindYieldStmt, KindLocalVarDecl, KindExplicitCtorCall,
		KindEnumConstant, KindArgumentList, KindSwitchArrowBranch,
		KindSwitchFallthrough, KindSwitchLabel, KindTypeRef, KindVoidType:
		return false
	}
	return false
}

// IsFunctional reports lambdas and method references.
func (k Kind) IsFunctional() bool {
	return k == KindLambda || k == KindMethodRef
}

// IsBranching reports conditional and switch expressions.
func (k Kind) IsBranching() bool {
	return k == KindConditional || k == KindSwitchExpr
}
