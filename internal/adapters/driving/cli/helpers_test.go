package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/harrowgate-labs/grimoire-cli/internal/adapters/driven/config/file"
	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results   []domain.SearchResult
	err       error
	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results, m.err
}

// mockCatalogService is a mock implementation of driving.CatalogService.
type mockCatalogService struct {
	entity   *domain.Entity
	entities []domain.Entity
	books    []domain.Book
	removed  []string
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

func (m *mockCatalogService) RemoveBook(_ context.Context, code string) error {
	if m.err != nil {
		return m.err
	}
	m.removed = append(m.removed, code)
	return nil
}

// mockImportService is a mock implementation of driving.ImportService.
type mockImportService struct {
	report    *domain.ImportReport
	books     []domain.Book
	err       error
	lastRoot  string
	lastScope domain.ImportScope
}

func (m *mockImportService) Import(_ context.Context, root string, scope domain.ImportScope) (*domain.ImportReport, error) {
	m.lastRoot = root
	m.lastScope = scope
	if m.err != nil {
		return nil, m.err
	}
	if m.report == nil {
		return domain.NewImportReport("test", scope), nil
	}
	return m.report, nil
}

func (m *mockImportService) Discover(_ context.Context, _ string) ([]domain.Book, error) {
	return m.books, m.err
}

// testServices swaps the package-level services for mocks and restores
// them afterwards.
type testServices struct {
	search  *mockSearchService
	catalog *mockCatalogService
	imports *mockImportService
}

func setupTestServices(t *testing.T) (*testServices, func()) {
	t.Helper()

	cfg, err := file.NewConfigStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating test config store: %v", err)
	}

	ts := &testServices{
		search:  &mockSearchService{},
		catalog: &mockCatalogService{},
		imports: &mockImportService{},
	}

	prevConfig := configStore
	prevSearch := searchService
	prevCatalog := catalogService
	prevImport := importService

	configStore = cfg
	searchService = ts.search
	catalogService = ts.catalog
	importService = ts.imports

	cleanup := func() {
		configStore = prevConfig
		searchService = prevSearch
		catalogService = prevCatalog
		importService = prevImport
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}
	return ts, cleanup
}

// execute runs the root command with args and captures its output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}
