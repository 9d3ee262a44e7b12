package infer

import (
	"fmt"

	"polyres/internal/ast"
	"polyres/internal/diag"
	"polyres/internal/source"
	"polyres/internal/trace"
	"polyres/internal/types"
)

// Typer answers the type of an expression, computing it on demand.
type Typer interface {
	TypeOf(id ast.NodeID) types.TypeID
}

// Candidates is the symbol table boundary: it lists the overloads an
// invocation may select from.
type Candidates interface {
	Methods(name string) []types.MethodSig
	Constructors(class types.TypeID) []types.MethodSig
}

// Options wires an Engine to one file.
type Options struct {
	Tree       *ast.Tree
	Types      *types.Interner
	Candidates Candidates
	Typer      Typer
	Reporter   diag.Reporter
	// Spans nests inference spans under the caller's; defaults to a root
	// stack over Tracer.
	Spans  *trace.Stack
	Tracer trace.Tracer
}

// Engine resolves overloads and functional expression types. Every call is
// resolved at most once; results are committed to the tree's resolved type
// slots only when the slot is still empty.
type Engine struct {
	tree  *ast.Tree
	types *types.Interner
	cands Candidates
	typer Typer
	rep   diag.Reporter
	spans *trace.Stack

	selections map[ast.NodeID]*Selection
	probes     map[ast.NodeID]*Selection
	functional map[ast.NodeID]types.MethodSig
}

func New(opts Options) *Engine {
	spans := opts.Spans
	if spans == nil {
		spans = trace.NewStack(opts.Tracer, 0)
	}
	cands := opts.Candidates
	if cands == nil {
		cands = Table{}
	}
	return &Engine{
		tree:       opts.Tree,
		types:      opts.Types,
		cands:      cands,
		typer:      opts.Typer,
		rep:        opts.Reporter,
		spans:      spans,
		selections: make(map[ast.NodeID]*Selection),
		probes:     make(map[ast.NodeID]*Selection),
		functional: make(map[ast.NodeID]types.MethodSig),
	}
}

// CallSite is an inference request for one invocation with an optional
// target type (NoTypeID when there is none).
type CallSite struct {
	Call   ast.NodeID
	Target types.TypeID
}

// FunctionalSite is an inference request for a lambda or method reference.
type FunctionalSite struct {
	Expr   ast.NodeID
	Target types.TypeID
}

func (e *Engine) NewCallSite(call ast.NodeID, target types.TypeID) CallSite {
	return CallSite{Call: call, Target: target}
}

func (e *Engine) NewFunctionalSite(expr ast.NodeID, target types.TypeID) FunctionalSite {
	return FunctionalSite{Expr: expr, Target: target}
}

// Selection returns the recorded overload selection of call.
func (e *Engine) Selection(call ast.NodeID) (Selection, bool) {
	sel, ok := e.selections[call]
	if !ok {
		return Selection{}, false
	}
	return *sel, true
}

// FunctionalMethod returns the functional method recorded for a lambda or
// method reference.
func (e *Engine) FunctionalMethod(expr ast.NodeID) (types.MethodSig, bool) {
	sig, ok := e.functional[expr]
	return sig, ok
}

func (e *Engine) commitType(id ast.NodeID, ty types.TypeID) {
	if _, ok := e.tree.Type(id); ok {
		return
	}
	e.tree.SetType(id, ty)
}

func (e *Engine) span(id ast.NodeID) source.Span {
	if n := e.tree.Node(id); n != nil {
		return n.Span
	}
	return source.Span{}
}

func (e *Engine) report(code diag.Code, span source.Span, format string, args ...interface{}) {
	if e.rep == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if b := diag.ReportError(e.rep, code, span, msg); b != nil {
		b.Emit()
	}
}
