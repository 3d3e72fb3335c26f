package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrowgate-labs/grimoire-cli/internal/adapters/driven/config/file"
	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "20", flag.DefValue)
}

func TestSearchCmd_ExecutesWithQuery(t *testing.T) {
	ts, cleanup := setupTestServices(t)
	defer cleanup()

	ts.search.results = []domain.SearchResult{
		{Entity: domain.Entity{Name: "Goblin", Source: "MM", Kind: domain.KindMonster}, Score: 1.5},
	}

	out, err := execute("search", "goblin")

	require.NoError(t, err)
	assert.Equal(t, "goblin", ts.search.lastQuery)
	assert.Contains(t, out, "Goblin")
	assert.Contains(t, out, "MM")
}

func TestSearchCmd_KindAndSourceFlags(t *testing.T) {
	ts, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute("search", "fire", "--kind", "spell", "--source", "PHB", "--limit", "5")

	require.NoError(t, err)
	assert.Equal(t, []domain.Kind{domain.KindSpell}, ts.search.lastOpts.Kinds)
	assert.Equal(t, []string{"PHB"}, ts.search.lastOpts.Sources)
	assert.Equal(t, 5, ts.search.lastOpts.Limit)
	searchKinds, searchSources, searchLimit = nil, nil, 20
}

func TestSearchCmd_RejectsUnknownKind(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute("search", "fire", "--kind", "gremlin")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
	searchKinds = nil
}

func TestSearchCmd_EmptyQueryLists(t *testing.T) {
	ts, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute("search")

	require.NoError(t, err)
	assert.Equal(t, "", ts.search.lastQuery)
}

func TestSearchCmd_DefaultSourcesFromConfig(t *testing.T) {
	ts, cleanup := setupTestServices(t)
	defer cleanup()

	require.NoError(t, configStore.Set(file.KeyDefaultSources, []string{"SRD"}))

	_, err := execute("search", "goblin")

	require.NoError(t, err)
	assert.Equal(t, []string{"SRD"}, ts.search.lastOpts.Sources)
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	ts, cleanup := setupTestServices(t)
	defer cleanup()

	ts.search.results = []domain.SearchResult{
		{Entity: domain.Entity{
			Name: "Goblin", Source: "MM", Kind: domain.KindMonster,
			Payload: []byte(`{"name":"Goblin"}`),
		}, Score: 1.5},
	}

	out, err := execute("search", "goblin", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Goblin"`)
	assert.Contains(t, out, `"kind": "monster"`)
	searchJSON = false
}

func TestSearchCmd_NoResults(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute("search", "nothing")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}
