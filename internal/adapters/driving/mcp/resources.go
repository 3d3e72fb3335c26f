package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Grimoire resources.
	uriScheme = "grimoire://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing imported books.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "books",
		Name:        "books",
		Description: "List of all imported source books",
		MIMEType:    "application/json",
	}, s.handleBooksResource)

	// Template for listing entities of one kind from one book.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "books/{code}/{kind}",
		Name:        "book-entities",
		Description: "Entities of one kind imported from a specific book",
		MIMEType:    "application/json",
	}, s.handleBookEntitiesResource)
}

// handleBooksResource returns the imported books.
func (s *Server) handleBooksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	books, err := s.ports.Catalog.Books(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}

	infos := make([]BookOutput, len(books))
	for i, book := range books {
		infos[i] = BookOutput{
			Code:      book.Code,
			Name:      book.Name,
			Group:     book.Group,
			Published: book.Published,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling books: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleBookEntitiesResource lists entity names of one kind in a book.
func (s *Server) handleBookEntitiesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	rest := strings.TrimPrefix(req.Params.URI, uriScheme+"books/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("%w: want %sbooks/{code}/{kind}", domain.ErrInvalidInput, uriScheme)
	}
	code := parts[0]
	kind, ok := domain.ParseKind(parts[1])
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", parts[1])
	}

	entities, err := s.ports.Catalog.List(ctx, domain.EntityFilter{
		Kind:   kind,
		Source: code,
	}, 1000, 0)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}

	names := make([]string, len(entities))
	for i, e := range entities {
		names[i] = e.Name
	}

	data, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling entities: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
