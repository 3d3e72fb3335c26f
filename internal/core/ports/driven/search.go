package driven

import (
	"context"

	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
)

// SearchIndex provides full-text search over the catalog.
// Backed by SQLite FTS5 with BM25 ranking.
type SearchIndex interface {
	// Search performs a keyword search and returns matching entities
	// with scores and snippets. An empty query lists entities in name
	// order instead of ranking.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
