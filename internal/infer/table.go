package infer

import "polyres/internal/types"

// Table is a map backed Candidates implementation.
type Table struct {
	ByName map[string][]types.MethodSig
	Ctors  map[types.TypeID][]types.MethodSig
}

func NewTable() *Table {
	return &Table{
		ByName: make(map[string][]types.MethodSig),
		Ctors:  make(map[types.TypeID][]types.MethodSig),
	}
}

// AddMethod declares a method overload.
func (t *Table) AddMethod(sig types.MethodSig) {
	t.ByName[sig.Name] = append(t.ByName[sig.Name], sig)
}

// AddConstructor declares a constructor of class. The result type is the
// class itself.
func (t *Table) AddConstructor(class types.TypeID, sig types.MethodSig) {
	sig.Owner = class
	sig.Result = class
	if sig.Name == "" {
		sig.Name = "<init>"
	}
	t.Ctors[class] = append(t.Ctors[class], sig)
}

func (t Table) Methods(name string) []types.MethodSig {
	return t.ByName[name]
}

func (t Table) Constructors(class types.TypeID) []types.MethodSig {
	return t.Ctors[class]
}
