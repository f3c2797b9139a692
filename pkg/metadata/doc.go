// Package metadata provides a minimal in-memory mapping-metadata system:
// a catalog of entity types with single inheritance, scalar and relationship
// properties, and aliased or polymorphic views over mapped types.
//
// It implements the descriptor interfaces consumed by go-paths and is
// intended for tests, examples, and embedders that do not bring their own
// metadata system.
package metadata
