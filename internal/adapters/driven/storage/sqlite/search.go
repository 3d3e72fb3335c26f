package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
	"github.com/harrowgate-labs/grimoire-cli/internal/core/ports/driven"
)

// nameWeight biases BM25 ranking towards matches in the entity name
// over matches in the body text.
const nameWeight = 4.0

// searchIndex implements driven.SearchIndex on top of the entity_fts
// FTS5 table.
type searchIndex struct {
	store *Store
}

var _ driven.SearchIndex = (*searchIndex)(nil)

// Search performs a BM25-ranked full-text search. An empty query lists
// entities in name order instead.
func (s *searchIndex) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}

	match := compileQuery(query)
	if match == "" {
		return s.listByName(ctx, opts, limit)
	}

	where, args := searchFilterClauses(opts)
	sqlQuery := fmt.Sprintf(`
		SELECT e.name, e.source, e.kind, e.payload, e.cr, e.creature_type, e.size,
		       e.level, e.school, e.rarity, e.updated_at,
		       -bm25(entity_fts, %f, 1.0) AS score,
		       snippet(entity_fts, 1, '', '', '...', 12) AS snip
		FROM entity_fts
		JOIN entities e ON e.id = entity_fts.rowid
		WHERE entity_fts MATCH ?%s
		ORDER BY bm25(entity_fts, %f, 1.0), e.name COLLATE NOCASE
		LIMIT ? OFFSET ?
	`, nameWeight, where, nameWeight)

	queryArgs := append([]any{match}, args...)
	queryArgs = append(queryArgs, limit, opts.Offset)

	rows, err := s.store.db.QueryContext(ctx, sqlQuery, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("searching catalog: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var result domain.SearchResult
		var kind, payload string
		if err := rows.Scan(&result.Entity.Name, &result.Entity.Source, &kind, &payload,
			&result.Entity.Promoted.CR, &result.Entity.Promoted.CreatureType,
			&result.Entity.Promoted.Size, &result.Entity.Promoted.Level,
			&result.Entity.Promoted.School, &result.Entity.Promoted.Rarity,
			&result.Entity.UpdatedAt, &result.Score, &result.Snippet); err != nil {
			return nil, fmt.Errorf("scanning search hit: %w", err)
		}
		result.Entity.Kind = domain.Kind(kind)
		result.Entity.Payload = []byte(payload)
		results = append(results, result)
	}
	return results, rows.Err()
}

// listByName serves the empty-query listing path.
func (s *searchIndex) listByName(ctx context.Context, opts domain.SearchOptions, limit int) ([]domain.SearchResult, error) {
	filter := domain.EntityFilter{}
	if len(opts.Kinds) == 1 {
		filter.Kind = opts.Kinds[0]
	}
	if len(opts.Sources) == 1 {
		filter.Source = opts.Sources[0]
	}

	catalog := &catalogStore{store: s.store}
	if len(opts.Kinds) <= 1 && len(opts.Sources) <= 1 {
		entities, err := catalog.ListEntities(ctx, filter, limit, opts.Offset)
		if err != nil {
			return nil, err
		}
		return asListing(entities), nil
	}

	where, args := searchFilterClauses(opts)
	where = strings.Replace(where, " AND ", " WHERE ", 1)
	query := `SELECT ` + entityColumns + ` FROM entities e` + where +
		` ORDER BY name COLLATE NOCASE, source LIMIT ? OFFSET ?`
	args = append(args, limit, opts.Offset)

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	defer rows.Close()

	var entities []domain.Entity
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		entities = append(entities, *entity)
	}
	return asListing(entities), rows.Err()
}

func asListing(entities []domain.Entity) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, len(entities))
	for _, entity := range entities {
		results = append(results, domain.SearchResult{Entity: entity})
	}
	return results
}

// searchFilterClauses builds the kind and source restrictions appended
// after the MATCH clause. Each clause starts with AND.
func searchFilterClauses(opts domain.SearchOptions) (string, []any) {
	var sb strings.Builder
	var args []any

	if len(opts.Kinds) > 0 {
		sb.WriteString(" AND e.kind IN (" + placeholders(len(opts.Kinds)) + ")")
		for _, k := range opts.Kinds {
			args = append(args, string(k))
		}
	}
	if len(opts.Sources) > 0 {
		sb.WriteString(" AND e.source IN (" + placeholders(len(opts.Sources)) + ")")
		for _, src := range opts.Sources {
			args = append(args, src)
		}
	}
	return sb.String(), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// compileQuery turns free-form user input into an FTS5 MATCH
// expression. The full input is tried as an exact phrase ORed with a
// prefix match on every term, so "fire bol" still finds "Fire Bolt"
// while an exact phrase ranks first. Returns "" for blank input.
func compileQuery(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	terms := strings.Fields(input)
	var prefixes []string
	for _, term := range terms {
		clean := sanitizeTerm(term)
		if clean != "" {
			prefixes = append(prefixes, clean+"*")
		}
	}
	if len(prefixes) == 0 {
		return ""
	}

	phrase := `"` + strings.ReplaceAll(input, `"`, `""`) + `"`
	return phrase + " OR (" + strings.Join(prefixes, " ") + ")"
}

// sanitizeTerm strips FTS5 operator characters so user punctuation
// cannot change the query structure.
func sanitizeTerm(term string) string {
	var sb strings.Builder
	for _, r := range term {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r > 127:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
