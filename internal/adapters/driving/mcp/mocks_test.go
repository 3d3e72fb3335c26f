package mcp

import (
	"context"

	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results  []domain.SearchResult
	err      error
	lastOpts domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastOpts = opts
	return m.results, m.err
}

// mockCatalogService is a mock implementation of driving.CatalogService.
type mockCatalogService struct {
	entity   *domain.Entity
	entities []domain.Entity
	books    []domain.Book
	err      error
}

func (m *mockCatalogService) Get(_ context.Context, _ domain.EntityKey) (*domain.Entity, error) {
	if m.entity == nil && m.err == nil {
		return nil, domain.ErrNotFound
	}
	return m.entity, m.err
}

func (m *mockCatalogService) List(_ context.Context, _ domain.EntityFilter, _, _ int) ([]domain.Entity, error) {
	return m.entities, m.err
}

func (m *mockCatalogService) Books(_ context.Context) ([]domain.Book, error) {
	return m.books, m.err
}

func (m *mockCatalogService) RemoveBook(_ context.Context, _ string) error {
	return m.err
}
