// Package registry maintains named type definitions and resolves type
// references to concrete shapes.
//
// A Registry grows only by appending parsed definitions; it never
// removes or mutates existing entries. Resolution handles name and
// positional references, transitive alias chains (bounded, so cycles
// fail instead of spinning), generic instantiation by parameter
// substitution, and an optional literal fallback that re-parses unknown
// names as inline type expressions.
package registry
