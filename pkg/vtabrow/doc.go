// Package vtabrow is the public surface of the framework: three fluent
// builders (LiveBuilder, CachedBuilder[Row], GeneratorBuilder[Row]) that
// accumulate a table definition, and a registration layer that clones a
// built definition onto the engine and emits the CREATE VIRTUAL TABLE DDL
// after validating identifiers (spec.md §4.7).
//
// A host application never touches internal/DS, internal/QP, internal/IS,
// or internal/VM directly — those packages exist to give the module
// adapter and planner a home separate from the fluent API a caller sees.
package vtabrow
