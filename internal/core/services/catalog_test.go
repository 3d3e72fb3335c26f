package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
)

func seedCatalog(t *testing.T) *mockCatalogStore {
	t.Helper()
	store := newMockCatalogStore()
	ctx := context.Background()
	entities := []domain.Entity{
		{Name: "Goblin", Source: "MM", Kind: domain.KindMonster, Payload: json.RawMessage(`{"name":"Goblin"}`)},
		{Name: "Fireball", Source: "PHB", Kind: domain.KindSpell, Payload: json.RawMessage(`{"name":"Fireball"}`)},
		{Name: "Hex", Source: "PHB", Kind: domain.KindSpell, Payload: json.RawMessage(`{"name":"Hex"}`)},
	}
	for i := range entities {
		require.NoError(t, store.SaveEntity(ctx, &entities[i], entities[i].Name))
	}
	require.NoError(t, store.SaveBook(ctx, &domain.Book{Code: "MM", Name: "Monster Manual"}))
	require.NoError(t, store.SaveBook(ctx, &domain.Book{Code: "PHB", Name: "Player's Handbook"}))
	return store
}

func TestCatalogGet(t *testing.T) {
	svc := NewCatalogService(seedCatalog(t))

	entity, err := svc.Get(context.Background(),
		domain.EntityKey{Name: "Goblin", Source: "MM", Kind: domain.KindMonster})
	require.NoError(t, err)
	assert.Equal(t, "Goblin", entity.Name)

	_, err = svc.Get(context.Background(),
		domain.EntityKey{Name: "Dragon", Source: "MM", Kind: domain.KindMonster})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(context.Background(),
		domain.EntityKey{Name: "Goblin", Source: "MM", Kind: "gremlin"})
	assert.ErrorIs(t, err, domain.ErrUnknownKind)

	_, err = svc.Get(context.Background(), domain.EntityKey{Kind: domain.KindMonster})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCatalogList(t *testing.T) {
	svc := NewCatalogService(seedCatalog(t))

	spells, err := svc.List(context.Background(), domain.EntityFilter{Kind: domain.KindSpell}, 0, 0)
	require.NoError(t, err)
	require.Len(t, spells, 2)
	assert.Equal(t, "Fireball", spells[0].Name)

	_, err = svc.List(context.Background(), domain.EntityFilter{Kind: "gremlin"}, 0, 0)
	assert.ErrorIs(t, err, domain.ErrUnknownKind)

	_, err = svc.List(context.Background(), domain.EntityFilter{}, -1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCatalogRemoveBook(t *testing.T) {
	store := seedCatalog(t)
	svc := NewCatalogService(store)
	ctx := context.Background()

	require.NoError(t, svc.RemoveBook(ctx, "PHB"))

	books, err := svc.Books(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "MM", books[0].Code)

	remaining, err := svc.List(ctx, domain.EntityFilter{}, 0, 0)
	require.NoError(t, err)
	require.Len(t, remaining, 1, "entities from the removed book are gone")
	assert.Equal(t, "Goblin", remaining[0].Name)

	assert.ErrorIs(t, svc.RemoveBook(ctx, "PHB"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.RemoveBook(ctx, ""), domain.ErrInvalidInput)
}
