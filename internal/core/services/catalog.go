package services

import (
	"context"
	"fmt"

	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
	"github.com/harrowgate-labs/grimoire-cli/internal/core/ports/driven"
	"github.com/harrowgate-labs/grimoire-cli/internal/core/ports/driving"
	"github.com/harrowgate-labs/grimoire-cli/internal/logger"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService exposes read access to the imported catalog.
type CatalogService struct {
	store driven.CatalogStore
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store driven.CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

// Get retrieves one entity by name, source and kind.
func (s *CatalogService) Get(ctx context.Context, key domain.EntityKey) (*domain.Entity, error) {
	if key.Name == "" || key.Source == "" {
		return nil, fmt.Errorf("%w: name and source are required", domain.ErrInvalidInput)
	}
	if _, ok := domain.ParseKind(string(key.Kind)); !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownKind, key.Kind)
	}
	return s.store.GetEntity(ctx, key)
}

// List returns entities matching the filter, ordered by name.
func (s *CatalogService) List(
	ctx context.Context, filter domain.EntityFilter, limit, offset int,
) ([]domain.Entity, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", domain.ErrInvalidInput)
	}
	if limit == 0 {
		limit = defaultSearchLimit
	}
	if filter.Kind != "" {
		if _, ok := domain.ParseKind(string(filter.Kind)); !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownKind, filter.Kind)
		}
	}
	return s.store.ListEntities(ctx, filter, limit, offset)
}

// Books lists the imported books.
func (s *CatalogService) Books(ctx context.Context) ([]domain.Book, error) {
	return s.store.ListBooks(ctx)
}

// RemoveBook deletes a book record and every entity imported from it.
func (s *CatalogService) RemoveBook(ctx context.Context, code string) error {
	if code == "" {
		return fmt.Errorf("%w: book code is required", domain.ErrInvalidInput)
	}
	if _, err := s.store.GetBook(ctx, code); err != nil {
		return err
	}
	logger.Info("Removing book %s and its entities", code)
	return s.store.DeleteBook(ctx, code)
}
