package driven

import (
	"context"

	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
)

// CatalogStore persists catalog entities and book records.
// Backed by SQLite.
type CatalogStore interface {
	// SaveEntity stores or updates an entity and swaps its search
	// index row in the same transaction. searchText is the flattened
	// document the index tokenizes.
	SaveEntity(ctx context.Context, entity *domain.Entity, searchText string) error

	// GetEntity retrieves an entity by its composite key.
	GetEntity(ctx context.Context, key domain.EntityKey) (*domain.Entity, error)

	// ListEntities returns entities matching the filter, ordered by
	// name then source.
	ListEntities(ctx context.Context, filter domain.EntityFilter, limit, offset int) ([]domain.Entity, error)

	// CountEntities reports how many entities match the filter.
	CountEntities(ctx context.Context, filter domain.EntityFilter) (int, error)

	// DeleteBySource removes all entities from one source, search
	// index rows included.
	DeleteBySource(ctx context.Context, source string) error

	// SaveBook stores or updates a book record.
	SaveBook(ctx context.Context, book *domain.Book) error

	// GetBook retrieves a book by its source code.
	GetBook(ctx context.Context, code string) (*domain.Book, error)

	// ListBooks returns all imported books ordered by code.
	ListBooks(ctx context.Context) ([]domain.Book, error)

	// DeleteBook removes a book record and its entities.
	DeleteBook(ctx context.Context, code string) error

	// Close releases the underlying database handle.
	Close() error
}
