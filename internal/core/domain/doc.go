// Package domain defines the core business entities for Grimoire.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Entity: A catalog entity (monster, spell, item, ...) with its raw payload
//   - Kind: The enumerated entity kind
//   - Book: A source book registered in the catalog
//   - ImportReport: The aggregate outcome of an import run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
