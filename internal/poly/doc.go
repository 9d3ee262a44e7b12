// Package poly resolves the types of poly expressions: lambdas, method
// references, conditional and switch expressions, and invocations.
//
// The type of such an expression depends on where it appears. ContextOf
// walks outward from a node to find the context that bestows a target
// type; ComputePolyType then either drives overload resolution of the
// outermost enclosing invocation, merges branch types of a conditional or
// switch, or runs functional inference against the target.
//
// Resolution is pull based and re-entrant: asking for one node may ask for
// its enclosing call, which asks for the node's siblings. Each node's
// resolved type slot is written once. A node whose resolution re-enters
// itself is reported as SemaPolyCycle and typed as the error type.
package poly
