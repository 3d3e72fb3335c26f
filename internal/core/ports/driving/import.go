package driving

import (
	"context"

	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
)

// ImportService loads book data from a 5etools-style data root into
// the catalog.
type ImportService interface {
	// Import runs one import pass over the books the scope selects
	// and reports per-kind outcomes. Individual record failures are
	// recorded in the report, not returned as errors.
	Import(ctx context.Context, root string, scope domain.ImportScope) (*domain.ImportReport, error)

	// Discover lists the books available at the data root without
	// importing anything.
	Discover(ctx context.Context, root string) ([]domain.Book, error)
}
