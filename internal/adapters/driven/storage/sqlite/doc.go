// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - CatalogStore: Entity and book persistence
//   - SearchIndex: Full-text search over flattened entity text (FTS5)
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Entities keep their original JSON payload verbatim;
// a few frequently filtered fields are promoted into columns. The FTS5 table
// shares its rowid with the entities table so index rows can be swapped
// alongside the entity in one transaction.
//
// # Data Location
//
// By default, the database is stored at ~/.grimoire/data/catalog.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
