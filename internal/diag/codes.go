package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Fixture loading
	FixtureInvalid      Code = 2001
	FixtureUnknownType  Code = 2002
	FixtureUnknownKind  Code = 2003
	FixtureBadShape     Code = 2004
	FixtureDuplicateDef Code = 2005

	// Type resolution
	SemaUnresolvedMethod       Code = 3001
	SemaNoApplicableMethod     Code = 3002
	SemaAmbiguousMethod        Code = 3003
	SemaNotFunctionalInterface Code = 3004
	SemaLambdaArity            Code = 3005
	SemaPolyCycle              Code = 3006
)

var codeDescription = map[Code]string{
	UnknownCode:                "Unknown error",
	FixtureInvalid:             "Invalid fixture document",
	FixtureUnknownType:         "Unknown type name",
	FixtureUnknownKind:         "Unknown node kind",
	FixtureBadShape:            "Malformed node",
	FixtureDuplicateDef:        "Duplicate declaration",
	SemaUnresolvedMethod:       "Cannot resolve method",
	SemaNoApplicableMethod:     "No applicable overload",
	SemaAmbiguousMethod:        "Ambiguous method call",
	SemaNotFunctionalInterface: "Target type is not a functional interface",
	SemaLambdaArity:            "Lambda arity does not match functional method",
	SemaPolyCycle:              "Cyclic poly expression context",
}

func (c Code) ID() string {
	ic := int(c)
	switch {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("FIX%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
