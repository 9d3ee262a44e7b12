package ast

import (
	"errors"
	"fmt"
	"iter"

	"polyres/internal/source"
	"polyres/internal/types"
)

// ErrTypeRespecified is the panic payload when a resolved type slot is
// written twice.
var ErrTypeRespecified = errors.New("ast: resolved type already set")

// Node is the payload of one AST node. Structure (parent, children) lives
// in the Tree's side tables, not here.
type Node struct {
	Kind  Kind
	Span  source.Span
	Name  string       // method, variable, enum constant or operator name
	Decl  types.TypeID // declared type of type refs, variables, literals, names
	Arity int          // lambda parameter count
	Flags Flags
}

// Tree stores nodes in an arena and keeps navigation in parallel tables
// indexed by NodeID, so parents never own their children.
type Tree struct {
	nodes    *Arena[Node]
	parents  []NodeID
	index    []int
	children [][]NodeID
	resolved []types.TypeID

	Root NodeID
}

// NewTree allocates an empty tree.
func NewTree(capHint uint) *Tree {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Tree{
		nodes:    NewArena[Node](capHint),
		parents:  make([]NodeID, 1, capHint+1),
		index:    make([]int, 1, capHint+1),
		children: make([][]NodeID, 1, capHint+1),
		resolved: make([]types.TypeID, 1, capHint+1),
	}
}

// New allocates n and adopts children in order. Invalid children are
// skipped. Adopting a node that already has a parent is a construction bug.
func (t *Tree) New(n Node, children ...NodeID) NodeID {
	id := NodeID(t.nodes.Allocate(n))
	kids := make([]NodeID, 0, len(children))
	for _, c := range children {
		if !c.IsValid() {
			continue
		}
		if t.parents[c].IsValid() {
			panic(fmt.Errorf("ast: node %d already adopted by %d", c, t.parents[c]))
		}
		t.parents[c] = id
		t.index[c] = len(kids)
		kids = append(kids, c)
	}
	t.parents = append(t.parents, NoNodeID)
	t.index = append(t.index, -1)
	t.children = append(t.children, kids)
	t.resolved = append(t.resolved, types.NoTypeID)
	return id
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return int(t.nodes.Len())
}

// Node returns the payload of id, nil for invalid ids.
func (t *Tree) Node(id NodeID) *Node {
	return t.nodes.Get(uint32(id))
}

// Kind returns the kind of id, KindInvalid for invalid ids.
func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Node(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}

func (t *Tree) valid(id NodeID) bool {
	return id.IsValid() && int(id) < len(t.parents)
}

// Parent returns the parent of id or NoNodeID for roots.
func (t *Tree) Parent(id NodeID) NodeID {
	if !t.valid(id) {
		return NoNodeID
	}
	return t.parents[id]
}

// IndexInParent returns the position of id among its siblings, -1 for roots.
func (t *Tree) IndexInParent(id NodeID) int {
	if !t.valid(id) {
		return -1
	}
	return t.index[id]
}

// Children returns the children of id. The slice must not be modified.
func (t *Tree) Children(id NodeID) []NodeID {
	if !t.valid(id) {
		return nil
	}
	return t.children[id]
}

// Child returns the i-th child of id or NoNodeID.
func (t *Tree) Child(id NodeID, i int) NodeID {
	kids := t.Children(id)
	if i < 0 || i >= len(kids) {
		return NoNodeID
	}
	return kids[i]
}

// Ancestors yields the strict ancestors of id, innermost first.
func (t *Tree) Ancestors(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for p := t.Parent(id); p.IsValid(); p = t.Parent(p) {
			if !yield(p) {
				return
			}
		}
	}
}

// FirstAncestor returns the innermost ancestor matching pred.
func (t *Tree) FirstAncestor(id NodeID, pred func(NodeID) bool) NodeID {
	for a := range t.Ancestors(id) {
		if pred(a) {
			return a
		}
	}
	return NoNodeID
}

// FirstAncestorOfKind returns the innermost ancestor of one of the kinds.
func (t *Tree) FirstAncestorOfKind(id NodeID, kinds ...Kind) NodeID {
	return t.FirstAncestor(id, func(a NodeID) bool {
		k := t.Kind(a)
		for _, want := range kinds {
			if k == want {
				return true
			}
		}
		return false
	})
}

// All yields every node in allocation order.
func (t *Tree) All() iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for i := 1; i < len(t.parents); i++ {
			if !yield(NodeID(i)) {
				return
			}
		}
	}
}

// Walk visits the subtree rooted at id in pre-order. Returning false from
// fn skips the children of the visited node.
func (t *Tree) Walk(id NodeID, fn func(NodeID) bool) {
	if !t.valid(id) {
		return
	}
	if !fn(id) {
		return
	}
	for _, c := range t.children[id] {
		t.Walk(c, fn)
	}
}

// Type returns the resolved type of id if it was set.
func (t *Tree) Type(id NodeID) (types.TypeID, bool) {
	if !t.valid(id) {
		return types.NoTypeID, false
	}
	ty := t.resolved[id]
	return ty, ty != types.NoTypeID
}

// SetType writes the resolved type slot. The slot goes from absent to
// present exactly once; a second write panics with ErrTypeRespecified.
func (t *Tree) SetType(id NodeID, ty types.TypeID) {
	if !t.valid(id) {
		panic(fmt.Errorf("ast: SetType on invalid node %d", id))
	}
	if ty == types.NoTypeID {
		panic(fmt.Errorf("ast: SetType(%d) with no type", id))
	}
	if t.resolved[id] != types.NoTypeID {
		panic(fmt.Errorf("%w: %s node %d", ErrTypeRespecified, t.Kind(id), id))
	}
	t.resolved[id] = ty
}
