package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
)

func TestBooksListCmd(t *testing.T) {
	ts, cleanup := setupTestServices(t)
	defer cleanup()

	ts.catalog.books = []domain.Book{
		{Code: "MM", Name: "Monster Manual", Group: "core", ImportedAt: time.Now()},
		{Code: "SRD", Name: "Systems Reference Document 5.1"},
	}

	out, err := execute("books", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Monster Manual")
	assert.Contains(t, out, "[core]")
	assert.Contains(t, out, "Systems Reference Document 5.1")
}

func TestBooksListCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute("books", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No books imported")
}

func TestBooksDiscoverCmd(t *testing.T) {
	ts, cleanup := setupTestServices(t)
	defer cleanup()

	ts.imports.books = []domain.Book{
		{Code: "PHB", Name: "Player's Handbook", Group: "core", Published: "2014-08-19"},
	}

	out, err := execute("books", "discover", "/srv/data")

	require.NoError(t, err)
	assert.Contains(t, out, "PHB")
	assert.Contains(t, out, "(2014-08-19)")
}

func TestBooksRemoveCmd(t *testing.T) {
	ts, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute("books", "remove", "PHB")

	require.NoError(t, err)
	assert.Equal(t, []string{"PHB"}, ts.catalog.removed)
	assert.Contains(t, out, "Removed PHB")
}

func TestBooksRemoveCmd_NotFound(t *testing.T) {
	ts, cleanup := setupTestServices(t)
	defer cleanup()

	ts.catalog.err = domain.ErrNotFound

	_, err := execute("books", "remove", "NOPE")
	assert.Error(t, err)
}
