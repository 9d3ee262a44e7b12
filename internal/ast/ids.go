package ast

// NodeID is a stable 1-based index into a Tree.
type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// Flags carries boolean node attributes.
type Flags uint8

const (
	// FlagSuper marks super(...) explicit constructor calls.
	FlagSuper Flags = 1 << iota
	// FlagInferredType marks variables declared with var.
	FlagInferredType
)
