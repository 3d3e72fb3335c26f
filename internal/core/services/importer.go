package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
	"github.com/harrowgate-labs/grimoire-cli/internal/core/ports/driven"
	"github.com/harrowgate-labs/grimoire-cli/internal/core/ports/driving"
	"github.com/harrowgate-labs/grimoire-cli/internal/flatten"
	"github.com/harrowgate-labs/grimoire-cli/internal/ingest"
	"github.com/harrowgate-labs/grimoire-cli/internal/logger"
)

// Ensure ImportOrchestrator implements the interface.
var _ driving.ImportService = (*ImportOrchestrator)(nil)

// ImportOrchestrator coordinates catalog imports from a data root.
type ImportOrchestrator struct {
	store driven.CatalogStore

	mu      sync.Mutex
	running bool
}

// NewImportOrchestrator creates a new import orchestrator.
func NewImportOrchestrator(store driven.CatalogStore) *ImportOrchestrator {
	return &ImportOrchestrator{store: store}
}

// Discover lists the books available at the data root.
func (o *ImportOrchestrator) Discover(ctx context.Context, root string) ([]domain.Book, error) {
	return ingest.DiscoverBooks(root)
}

// Import runs one import pass over the books the scope selects.
//
// Books are processed sequentially; each entity is persisted in its own
// transaction so a failure mid-book leaves earlier entities imported.
// Record-level failures land in the report, never in the error return.
func (o *ImportOrchestrator) Import(
	ctx context.Context, root string, scope domain.ImportScope,
) (*domain.ImportReport, error) {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return nil, domain.ErrImportInProgress
	}
	o.running = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.running = false
		o.mu.Unlock()
	}()

	logger.Section("Catalog Import")
	logger.Debug("Data root: %s", root)

	available, err := ingest.DiscoverBooks(root)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered %d books", len(available))

	selected, err := selectBooks(available, scope)
	if err != nil {
		return nil, err
	}
	logger.Info("Importing %d of %d books", len(selected), len(available))

	report := domain.NewImportReport(uuid.NewString(), scope)
	report.StartedAt = time.Now()

	for _, book := range selected {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := o.importBook(ctx, root, book, scope, report); err != nil {
			return nil, fmt.Errorf("import %s: %w", book.Code, err)
		}
		report.Books = append(report.Books, book.Code)
	}

	if scope.SRDOnly {
		if err := o.store.SaveBook(ctx, &domain.Book{
			Code:       domain.SRDSource,
			Name:       srdBookName(scope.Ruleset),
			Group:      "reference",
			Enabled:    true,
			ImportedAt: time.Now(),
		}); err != nil {
			return nil, fmt.Errorf("save book %s: %w", domain.SRDSource, err)
		}
	}

	report.FinishedAt = time.Now()
	logger.Info("Import finished: %d imported, %d failed",
		report.TotalSucceeded(), report.TotalFailed())
	return report, nil
}

// importBook collects one book and persists what the scope admits.
func (o *ImportOrchestrator) importBook(
	ctx context.Context, root string, book domain.Book,
	scope domain.ImportScope, report *domain.ImportReport,
) error {
	logger.Debug("Collecting book %s", book.Code)
	collected, err := ingest.CollectBook(root, book.Code)
	if err != nil {
		return err
	}

	for _, failure := range collected.Failures {
		report.Kind(failure.Kind).RecordFailure(
			fmt.Sprintf("%s: %s", failure.File, failure.Reason))
	}

	for _, kind := range domain.AllKinds {
		for _, entity := range collected.Entities[kind] {
			if scope.SRDOnly {
				srdEntity, included := ingest.ClassifySRD(entity, scope.Ruleset)
				if !included {
					continue
				}
				entity = srdEntity
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			o.persist(ctx, entity, report)
		}
	}

	if !scope.SRDOnly {
		book.Enabled = true
		book.ImportedAt = time.Now()
		if err := o.store.SaveBook(ctx, &book); err != nil {
			return fmt.Errorf("save book: %w", err)
		}
	}
	return nil
}

// persist flattens and stores one entity, recording the outcome.
func (o *ImportOrchestrator) persist(ctx context.Context, entity domain.Entity, report *domain.ImportReport) {
	kr := report.Kind(entity.Kind)
	doc := flatten.Document(entity.Name, entity.Payload)
	if err := o.store.SaveEntity(ctx, &entity, doc.SearchText); err != nil {
		logger.Debug("Failed to store %s (%s): %v", entity.Name, entity.Source, err)
		kr.RecordFailure(fmt.Sprintf("%s (%s): %v", entity.Name, entity.Source, err))
		return
	}
	kr.Succeeded++
}

// selectBooks resolves the scope against the discovered books.
func selectBooks(available []domain.Book, scope domain.ImportScope) ([]domain.Book, error) {
	if scope.SRDOnly || (len(scope.Books) == 0 && len(scope.Groups) == 0) {
		// SRD markers live across the whole corpus, and an empty
		// scope means everything.
		return available, nil
	}

	var selected []domain.Book
	seen := make(map[string]bool)
	keep := func(b domain.Book) {
		if !seen[b.Code] {
			seen[b.Code] = true
			selected = append(selected, b)
		}
	}

	for _, pattern := range scope.Books {
		matched := false
		for _, book := range available {
			if ingest.MatchSource(book.Code, pattern) != ingest.MatchNone {
				keep(book)
				matched = true
			}
		}
		if !matched && !strings.HasSuffix(pattern, "*") {
			return nil, fmt.Errorf("%w: book %s", domain.ErrUnknownScope, pattern)
		}
	}

	for _, group := range scope.Groups {
		for _, book := range available {
			if strings.EqualFold(book.Group, group) {
				keep(book)
			}
		}
	}

	return selected, nil
}

func srdBookName(ruleset domain.SRDRuleset) string {
	if ruleset == domain.SRDCurrent {
		return "Systems Reference Document 5.2"
	}
	return "Systems Reference Document 5.1"
}
