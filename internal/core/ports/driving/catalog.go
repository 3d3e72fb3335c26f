package driving

import (
	"context"

	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
)

// CatalogService exposes read access to the imported catalog.
type CatalogService interface {
	// Get retrieves one entity by name, source and kind.
	Get(ctx context.Context, key domain.EntityKey) (*domain.Entity, error)

	// List returns entities matching the filter, ordered by name.
	List(ctx context.Context, filter domain.EntityFilter, limit, offset int) ([]domain.Entity, error)

	// Books lists the imported books.
	Books(ctx context.Context) ([]domain.Book, error)

	// RemoveBook deletes a book and everything imported from it.
	RemoveBook(ctx context.Context, code string) error
}
