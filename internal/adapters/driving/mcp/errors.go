// Package mcp provides an MCP (Model Context Protocol) server adapter for Grimoire.
// It enables AI assistants like Claude to look up rules content from the local catalog.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingCatalogService is returned when the catalog service is not provided.
var ErrMissingCatalogService = errors.New("mcp: catalog service is required")
