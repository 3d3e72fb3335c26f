package services

import (
	"context"
	"strings"

	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
	"github.com/harrowgate-labs/grimoire-cli/internal/core/ports/driven"
	"github.com/harrowgate-labs/grimoire-cli/internal/core/ports/driving"
	"github.com/harrowgate-labs/grimoire-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// defaultSearchLimit caps result sets when the caller does not ask
// for a specific page size.
const defaultSearchLimit = 20

// SearchService provides full-text search over the catalog.
type SearchService struct {
	index driven.SearchIndex
}

// NewSearchService creates a new search service.
func NewSearchService(index driven.SearchIndex) *SearchService {
	return &SearchService{index: index}
}

// Search performs full-text search across the imported catalog.
// An empty query is a listing request, not an error, and returns
// entities in name order.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Limit == 0 {
		opts.Limit = defaultSearchLimit
	}
	logger.Debug("Limit: %d, Offset: %d, Kinds: %v, Sources: %v",
		opts.Limit, opts.Offset, opts.Kinds, opts.Sources)

	results, err := s.index.Search(ctx, strings.TrimSpace(query), opts)
	if err != nil {
		return nil, err
	}
	logger.Info("Search returned %d results", len(results))
	return results, nil
}
