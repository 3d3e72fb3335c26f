package driving

import (
	"context"

	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search performs full-text search across the imported catalog.
	// An empty query lists matching entities in name order.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
