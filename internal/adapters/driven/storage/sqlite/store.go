package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/harrowgate-labs/grimoire-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
	"github.com/harrowgate-labs/grimoire-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// the catalog store and search index interfaces.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.grimoire/data/catalog.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".grimoire", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "catalog.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CatalogStore returns a CatalogStore interface backed by this store.
func (s *Store) CatalogStore() driven.CatalogStore {
	return &catalogStore{store: s}
}

// SearchIndex returns a SearchIndex interface backed by this store.
func (s *Store) SearchIndex() driven.SearchIndex {
	return &searchIndex{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Catalog Store ====================

// catalogStore implements driven.CatalogStore.
type catalogStore struct {
	store *Store
}

var _ driven.CatalogStore = (*catalogStore)(nil)

// entityColumns is the scan list shared by every entity query.
const entityColumns = `name, source, kind, payload, cr, creature_type, size, level, school, rarity, updated_at`

// SaveEntity stores or updates an entity and swaps its FTS row in the
// same transaction. The FTS rowid follows the entities rowid, so the
// old index row is removed before the new text is indexed.
func (c *catalogStore) SaveEntity(ctx context.Context, entity *domain.Entity, searchText string) error {
	if entity.Name == "" || entity.Source == "" {
		return fmt.Errorf("%w: entity needs a name and source", domain.ErrInvalidInput)
	}
	entity.UpdatedAt = time.Now().UTC()

	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO entities (name, source, kind, payload, cr, creature_type, size, level, school, rarity, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name, source, kind) DO UPDATE SET
			payload = excluded.payload,
			cr = excluded.cr,
			creature_type = excluded.creature_type,
			size = excluded.size,
			level = excluded.level,
			school = excluded.school,
			rarity = excluded.rarity,
			updated_at = excluded.updated_at
	`, entity.Name, entity.Source, string(entity.Kind), string(entity.Payload),
		entity.Promoted.CR, entity.Promoted.CreatureType, entity.Promoted.Size,
		entity.Promoted.Level, entity.Promoted.School, entity.Promoted.Rarity,
		entity.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving entity: %w", err)
	}

	var rowID int64
	row := tx.QueryRowContext(ctx,
		"SELECT id FROM entities WHERE name = ? AND source = ? AND kind = ?",
		entity.Name, entity.Source, string(entity.Kind))
	if err := row.Scan(&rowID); err != nil {
		return fmt.Errorf("resolving entity rowid: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM entity_fts WHERE rowid = ?", rowID); err != nil {
		return fmt.Errorf("clearing index row: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO entity_fts (rowid, name, body) VALUES (?, ?, ?)",
		rowID, entity.Name, searchText); err != nil {
		return fmt.Errorf("indexing entity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entity: %w", err)
	}
	return nil
}

// GetEntity retrieves an entity by its composite key.
func (c *catalogStore) GetEntity(ctx context.Context, key domain.EntityKey) (*domain.Entity, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT `+entityColumns+`
		FROM entities WHERE name = ? AND source = ? AND kind = ?
	`, key.Name, key.Source, string(key.Kind))

	entity, err := scanEntity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning entity: %w", err)
	}
	return entity, nil
}

// ListEntities returns entities matching the filter, ordered by name
// then source.
func (c *catalogStore) ListEntities(ctx context.Context, filter domain.EntityFilter, limit, offset int) ([]domain.Entity, error) {
	where, args := filterClauses(filter)
	query := `SELECT ` + entityColumns + ` FROM entities` + where +
		` ORDER BY name COLLATE NOCASE, source LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := c.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	defer rows.Close()

	var entities []domain.Entity
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		entities = append(entities, *entity)
	}
	return entities, rows.Err()
}

// CountEntities reports how many entities match the filter.
func (c *catalogStore) CountEntities(ctx context.Context, filter domain.EntityFilter) (int, error) {
	where, args := filterClauses(filter)
	var count int
	row := c.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entities"+where, args...)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting entities: %w", err)
	}
	return count, nil
}

// DeleteBySource removes all entities from one source along with their
// index rows.
func (c *catalogStore) DeleteBySource(ctx context.Context, source string) error {
	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM entity_fts WHERE rowid IN (SELECT id FROM entities WHERE source = ?)
	`, source); err != nil {
		return fmt.Errorf("clearing index rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM entities WHERE source = ?", source); err != nil {
		return fmt.Errorf("deleting entities: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}
	return nil
}

// SaveBook stores or updates a book record.
func (c *catalogStore) SaveBook(ctx context.Context, book *domain.Book) error {
	if book.Code == "" {
		return fmt.Errorf("%w: book needs a code", domain.ErrInvalidInput)
	}
	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO books (code, name, book_group, published, enabled, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			name = excluded.name,
			book_group = excluded.book_group,
			published = excluded.published,
			enabled = excluded.enabled,
			imported_at = excluded.imported_at
	`, book.Code, book.Name, book.Group, book.Published, book.Enabled, nullTime(book.ImportedAt))
	if err != nil {
		return fmt.Errorf("saving book: %w", err)
	}
	return nil
}

// GetBook retrieves a book by its source code.
func (c *catalogStore) GetBook(ctx context.Context, code string) (*domain.Book, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT code, name, book_group, published, enabled, imported_at
		FROM books WHERE code = ?
	`, code)

	book, err := scanBook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning book: %w", err)
	}
	return book, nil
}

// ListBooks returns all imported books ordered by code.
func (c *catalogStore) ListBooks(ctx context.Context) ([]domain.Book, error) {
	rows, err := c.store.db.QueryContext(ctx, `
		SELECT code, name, book_group, published, enabled, imported_at
		FROM books ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning book: %w", err)
		}
		books = append(books, *book)
	}
	return books, rows.Err()
}

// DeleteBook removes a book record and everything imported from it.
func (c *catalogStore) DeleteBook(ctx context.Context, code string) error {
	if err := c.DeleteBySource(ctx, code); err != nil {
		return err
	}
	if _, err := c.store.db.ExecContext(ctx,
		"DELETE FROM books WHERE code = ?", code); err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *catalogStore) Close() error {
	return c.store.Close()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntity(row scanner) (*domain.Entity, error) {
	var entity domain.Entity
	var kind, payload string
	var updatedAt sql.NullTime
	if err := row.Scan(&entity.Name, &entity.Source, &kind, &payload,
		&entity.Promoted.CR, &entity.Promoted.CreatureType, &entity.Promoted.Size,
		&entity.Promoted.Level, &entity.Promoted.School, &entity.Promoted.Rarity,
		&updatedAt); err != nil {
		return nil, err
	}
	entity.Kind = domain.Kind(kind)
	entity.Payload = []byte(payload)
	if updatedAt.Valid {
		entity.UpdatedAt = updatedAt.Time
	}
	return &entity, nil
}

func scanBook(row scanner) (*domain.Book, error) {
	var book domain.Book
	var importedAt sql.NullTime
	if err := row.Scan(&book.Code, &book.Name, &book.Group, &book.Published,
		&book.Enabled, &importedAt); err != nil {
		return nil, err
	}
	if importedAt.Valid {
		book.ImportedAt = importedAt.Time
	}
	return &book, nil
}

// filterClauses turns a filter into a WHERE clause and its arguments.
func filterClauses(filter domain.EntityFilter) (string, []any) {
	var clauses []string
	var args []any
	add := func(clause string, arg any) {
		clauses = append(clauses, clause)
		args = append(args, arg)
	}

	if filter.Kind != "" {
		add("kind = ?", string(filter.Kind))
	}
	if filter.Source != "" {
		add("source = ?", filter.Source)
	}
	if filter.CR != "" {
		add("cr = ?", filter.CR)
	}
	if filter.CreatureType != "" {
		add("creature_type = ?", filter.CreatureType)
	}
	if filter.Size != "" {
		add("size = ?", filter.Size)
	}
	if filter.Level != nil {
		add("level = ?", *filter.Level)
	}
	if filter.School != "" {
		add("school = ?", filter.School)
	}
	if filter.Rarity != "" {
		add("rarity = ?", filter.Rarity)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
