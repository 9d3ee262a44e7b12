// Package fixture loads YAML descriptions of declarations and statement
// trees into the arena AST, the type interner and a candidate table.
//
// A document has four top-level sections:
//
//	classes:       class and interface declarations
//	methods:       method signatures visible to every call
//	constructors:  constructor signatures keyed by class
//	unit:          class and enum bodies with their statements
//
// Expressions and statements are single-key mappings whose key names the
// node shape, for example {call: {name: foo, args: [...]}}. Semantic
// problems are reported through a diag.Reporter and the offending node is
// replaced by an error-typed name so the surrounding shape stays intact.
package fixture
