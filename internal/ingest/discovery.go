package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
)

// manifestName is the optional catalog file at the data root carrying
// book metadata keyed by source code.
const manifestName = "books.json"

type manifestEntry struct {
	Name      string `json:"name"`
	Source    string `json:"source"`
	Group     string `json:"group"`
	Published string `json:"published"`
}

// DiscoverBooks scans the data root for importable books. Each
// immediate subdirectory is one book, named by its source code. The
// books.json manifest, when present, supplies display names and
// grouping; directories without a manifest entry still count, with the
// directory name standing in for the title.
func DiscoverBooks(root string) ([]domain.Book, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDataRootNotFound, root)
		}
		return nil, fmt.Errorf("stat data root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrDataRootNotFound, root)
	}

	manifest, err := readManifest(root)
	if err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read data root: %w", err)
	}

	var books []domain.Book
	for _, de := range dirEntries {
		if !de.IsDir() || strings.HasPrefix(de.Name(), ".") {
			continue
		}
		code := de.Name()
		book := domain.Book{Code: code, Name: code}
		if meta, ok := manifest[strings.ToLower(code)]; ok {
			if meta.Name != "" {
				book.Name = meta.Name
			}
			book.Group = meta.Group
			book.Published = meta.Published
		}
		books = append(books, book)
	}

	sort.Slice(books, func(i, j int) bool { return books[i].Code < books[j].Code })
	return books, nil
}

// readManifest loads books.json when present, keyed by lowercased
// source code. A missing manifest is not an error; a malformed one is.
func readManifest(root string) (map[string]manifestEntry, error) {
	raw, err := os.ReadFile(filepath.Join(root, manifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", manifestName, err)
	}

	// The upstream layout wraps the list in a "book" key; accept a
	// bare array as well.
	var wrapped struct {
		Book []manifestEntry `json:"book"`
	}
	var entries []manifestEntry
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Book) > 0 {
		entries = wrapped.Book
	} else if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", manifestName, err)
	}

	manifest := make(map[string]manifestEntry, len(entries))
	for _, e := range entries {
		if e.Source == "" {
			continue
		}
		manifest[strings.ToLower(e.Source)] = e
	}
	return manifest, nil
}
