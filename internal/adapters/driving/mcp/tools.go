package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
)

// SearchInput is the input schema for the search_catalog tool.
type SearchInput struct {
	Query   string   `json:"query" jsonschema:"the search query; matches entity names and rules text"`
	Kinds   []string `json:"kinds,omitempty" jsonschema:"restrict to entity kinds such as monster or spell"`
	Sources []string `json:"sources,omitempty" jsonschema:"restrict to source book codes such as PHB"`
	Limit   int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search_catalog tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Name    string  `json:"name"`
	Kind    string  `json:"kind"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet,omitempty"`
}

// GetEntityInput is the input schema for the get_entity tool.
type GetEntityInput struct {
	Kind   string `json:"kind" jsonschema:"the entity kind, e.g. monster, spell, item"`
	Name   string `json:"name" jsonschema:"the entity name"`
	Source string `json:"source,omitempty" jsonschema:"source book code; the best match is used when omitted"`
}

// GetEntityOutput is the output schema for the get_entity tool.
type GetEntityOutput struct {
	Name    string          `json:"name"`
	Kind    string          `json:"kind"`
	Source  string          `json:"source"`
	Payload json.RawMessage `json:"payload"`
}

// ListBooksOutput is the output schema for the list_books tool.
type ListBooksOutput struct {
	Books []BookOutput `json:"books"`
	Count int          `json:"count"`
}

// BookOutput represents one imported book.
type BookOutput struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Group     string `json:"group,omitempty"`
	Published string `json:"published,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_catalog",
		Description: "Search the imported D&D 5e catalog by keyword",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_entity",
		Description: "Fetch one entity's full JSON stat block by kind and name",
	}, s.handleGetEntity)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_books",
		Description: "List the books imported into the catalog",
	}, s.handleListBooks)
}

// handleSearch handles the search_catalog tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	opts := domain.SearchOptions{Limit: limit, Sources: input.Sources}
	for _, k := range input.Kinds {
		kind, ok := domain.ParseKind(k)
		if !ok {
			return nil, SearchOutput{}, fmt.Errorf("unknown kind %q", k)
		}
		opts.Kinds = append(opts.Kinds, kind)
	}

	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			Name:    results[i].Entity.Name,
			Kind:    string(results[i].Entity.Kind),
			Source:  results[i].Entity.Source,
			Score:   results[i].Score,
			Snippet: results[i].Snippet,
		}
	}

	return nil, output, nil
}

// handleGetEntity handles the get_entity tool invocation.
func (s *Server) handleGetEntity(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetEntityInput,
) (*mcp.CallToolResult, GetEntityOutput, error) {
	kind, ok := domain.ParseKind(input.Kind)
	if !ok {
		return nil, GetEntityOutput{}, fmt.Errorf("unknown kind %q", input.Kind)
	}
	if input.Name == "" {
		return nil, GetEntityOutput{}, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	var entity *domain.Entity
	var err error
	if input.Source != "" {
		entity, err = s.ports.Catalog.Get(ctx, domain.EntityKey{
			Name: input.Name, Source: input.Source, Kind: kind,
		})
	} else {
		entity, err = s.bestMatch(ctx, input.Name, kind)
	}
	if err != nil {
		return nil, GetEntityOutput{}, err
	}

	return nil, GetEntityOutput{
		Name:    entity.Name,
		Kind:    string(entity.Kind),
		Source:  entity.Source,
		Payload: entity.Payload,
	}, nil
}

// bestMatch resolves an entity without a source via search.
func (s *Server) bestMatch(ctx context.Context, name string, kind domain.Kind) (*domain.Entity, error) {
	results, err := s.ports.Search.Search(ctx, name, domain.SearchOptions{
		Limit: 10,
		Kinds: []domain.Kind{kind},
	})
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		if strings.EqualFold(r.Entity.Name, name) {
			return &r.Entity, nil
		}
	}
	return nil, domain.ErrNotFound
}

// handleListBooks handles the list_books tool invocation.
func (s *Server) handleListBooks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListBooksOutput, error) {
	books, err := s.ports.Catalog.Books(ctx)
	if err != nil {
		return nil, ListBooksOutput{}, err
	}

	output := ListBooksOutput{
		Books: make([]BookOutput, len(books)),
		Count: len(books),
	}
	for i, book := range books {
		output.Books[i] = BookOutput{
			Code:      book.Code,
			Name:      book.Name,
			Group:     book.Group,
			Published: book.Published,
		}
	}
	return nil, output, nil
}
