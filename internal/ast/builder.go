package ast

import (
	"polyres/internal/source"
	"polyres/internal/types"
)

// Builder constructs trees bottom-up: every helper takes already built
// children and returns the new parent.
type Builder struct {
	Tree  *Tree
	Types *types.Interner
}

func NewBuilder(in *types.Interner) *Builder {
	if in == nil {
		in = types.NewInterner()
	}
	return &Builder{Tree: NewTree(0), Types: in}
}

// At sets the span of id and returns it.
func (b *Builder) At(id NodeID, sp source.Span) NodeID {
	if n := b.Tree.Node(id); n != nil {
		n.Span = sp
	}
	return id
}

func (b *Builder) node(kind Kind, children ...NodeID) NodeID {
	return b.Tree.New(Node{Kind: kind}, children...)
}

// Unit creates the compilation unit and makes it the tree root.
func (b *Builder) Unit(decls ...NodeID) NodeID {
	id := b.node(KindCompilationUnit, decls...)
	b.Tree.Root = id
	return id
}

func (b *Builder) Class(t types.TypeID, members ...NodeID) NodeID {
	return b.Tree.New(Node{Kind: KindTypeDecl, Decl: t, Name: b.Types.String(t)}, members...)
}

func (b *Builder) Enum(t types.TypeID, members ...NodeID) NodeID {
	return b.Tree.New(Node{Kind: KindEnumDecl, Decl: t, Name: b.Types.String(t)}, members...)
}

// Method declares a method; result is NoTypeID or Void for void methods.
func (b *Builder) Method(name string, result types.TypeID, stmts ...NodeID) NodeID {
	var res NodeID
	if result == types.NoTypeID || result == b.Types.Builtins().Void {
		res = b.node(KindVoidType)
	} else {
		res = b.TypeRef(result)
	}
	return b.Tree.New(Node{Kind: KindMethodDecl, Name: name}, res, b.Block(stmts...))
}

func (b *Builder) Block(stmts ...NodeID) NodeID {
	return b.node(KindBlock, stmts...)
}

func (b *Builder) ExprStmt(e NodeID) NodeID {
	return b.node(KindExprStmt, e)
}

// Return builds a return statement; value may be NoNodeID.
func (b *Builder) Return(value NodeID) NodeID {
	return b.node(KindReturnStmt, value)
}

func (b *Builder) Yield(value NodeID) NodeID {
	return b.node(KindYieldStmt, value)
}

// Local declares a local variable; t == NoTypeID declares it with var.
func (b *Builder) Local(name string, t types.TypeID, init NodeID) NodeID {
	v := Node{Kind: KindVarID, Name: name, Decl: t}
	if t == types.NoTypeID {
		v.Flags |= FlagInferredType
	}
	id := b.Tree.New(v)
	decl := b.node(KindVarDeclarator, id, init)
	return b.node(KindLocalVarDecl, decl)
}

func (b *Builder) TypeRef(t types.TypeID) NodeID {
	return b.Tree.New(Node{Kind: KindTypeRef, Decl: t, Name: b.Types.String(t)})
}

func (b *Builder) Lit(t types.TypeID, text string) NodeID {
	return b.Tree.New(Node{Kind: KindLiteral, Decl: t, Name: text})
}

func (b *Builder) Name(name string, t types.TypeID) NodeID {
	return b.Tree.New(Node{Kind: KindName, Decl: t, Name: name})
}

// Infix builds a binary expression whose type is known up front.
func (b *Builder) Infix(op string, t types.TypeID, l, r NodeID) NodeID {
	return b.Tree.New(Node{Kind: KindInfix, Decl: t, Name: op}, l, r)
}

func (b *Builder) args(args []NodeID) NodeID {
	return b.node(KindArgumentList, args...)
}

// Call builds an unqualified method call.
func (b *Builder) Call(name string, args ...NodeID) NodeID {
	return b.Tree.New(Node{Kind: KindMethodCall, Name: name}, b.args(args))
}

// CallOn builds a qualified method call.
func (b *Builder) CallOn(qualifier NodeID, name string, args ...NodeID) NodeID {
	return b.Tree.New(Node{Kind: KindMethodCall, Name: name}, qualifier, b.args(args))
}

// New builds a class instance creation expression.
func (b *Builder) New(class types.TypeID, args ...NodeID) NodeID {
	return b.Tree.New(Node{Kind: KindConstructorCall, Name: b.Types.String(class)}, b.TypeRef(class), b.args(args))
}

// This builds this(...).
func (b *Builder) This(args ...NodeID) NodeID {
	return b.Tree.New(Node{Kind: KindExplicitCtorCall, Name: "this"}, b.args(args))
}

// Super builds super(...).
func (b *Builder) Super(args ...NodeID) NodeID {
	return b.Tree.New(Node{Kind: KindExplicitCtorCall, Name: "super", Flags: FlagSuper}, b.args(args))
}

// EnumConstant builds a constant; with no args it has no argument list.
func (b *Builder) EnumConstant(name string, args ...NodeID) NodeID {
	if len(args) == 0 {
		return b.Tree.New(Node{Kind: KindEnumConstant, Name: name})
	}
	return b.Tree.New(Node{Kind: KindEnumConstant, Name: name}, b.args(args))
}

func (b *Builder) Lambda(arity int, body NodeID) NodeID {
	return b.Tree.New(Node{Kind: KindLambda, Arity: arity}, body)
}

func (b *Builder) MethodRef(name string) NodeID {
	return b.Tree.New(Node{Kind: KindMethodRef, Name: name})
}

func (b *Builder) Cond(cond, then, els NodeID) NodeID {
	return b.node(KindConditional, cond, then, els)
}

func (b *Builder) Switch(tested NodeID, branches ...NodeID) NodeID {
	return b.node(KindSwitchExpr, append([]NodeID{tested}, branches...)...)
}

func (b *Builder) Label(exprs ...NodeID) NodeID {
	return b.node(KindSwitchLabel, exprs...)
}

func (b *Builder) Arrow(label, body NodeID) NodeID {
	return b.node(KindSwitchArrowBranch, label, body)
}

func (b *Builder) Fallthrough(label NodeID, stmts ...NodeID) NodeID {
	return b.node(KindSwitchFallthrough, append([]NodeID{label}, stmts...)...)
}

func (b *Builder) Cast(t types.TypeID, operand NodeID) NodeID {
	return b.node(KindCast, b.TypeRef(t), operand)
}

func (b *Builder) Assign(lhs, rhs NodeID) NodeID {
	return b.node(KindAssignment, lhs, rhs)
}

// ArrayInit builds an array initializer of the given array type.
func (b *Builder) ArrayInit(arrayType types.TypeID, elems ...NodeID) NodeID {
	return b.Tree.New(Node{Kind: KindArrayInit, Decl: arrayType}, elems...)
}
