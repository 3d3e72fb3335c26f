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

// Failure records one record that could not be collected. The file is
// relative to the book directory.
type Failure struct {
	File   string
	Kind   domain.Kind
	Reason string
}

// Collected holds everything gathered from one book directory.
type Collected struct {
	Entities map[domain.Kind][]domain.Entity
	Failures []Failure
}

func (c *Collected) add(e domain.Entity) {
	if c.Entities == nil {
		c.Entities = make(map[domain.Kind][]domain.Entity)
	}
	c.Entities[e.Kind] = append(c.Entities[e.Kind], e)
}

func (c *Collected) fail(file string, kind domain.Kind, reason string) {
	c.Failures = append(c.Failures, Failure{File: file, Kind: kind, Reason: reason})
}

// Total reports how many entities were collected across all kinds.
func (c *Collected) Total() int {
	n := 0
	for _, es := range c.Entities {
		n += len(es)
	}
	return n
}

// CollectBook gathers the entities belonging to one book from its
// directory under the data root. Only files whose names the kind
// registry knows are opened; records from other sources sharing the
// file are filtered out against the book's code.
//
// Collection is permissive: a malformed file or record is recorded as
// a failure and skipped, never aborting the rest of the book. Only a
// missing book directory is an error.
func CollectBook(root, code string) (*Collected, error) {
	dir := filepath.Join(root, code)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: book %s", domain.ErrNotFound, code)
		}
		return nil, fmt.Errorf("stat book dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: book %s", domain.ErrNotFound, code)
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read book dir: %w", err)
	}

	collected := &Collected{}
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		specs := SpecsForFile(de.Name())
		if len(specs) == 0 {
			continue
		}
		collectFile(collected, filepath.Join(dir, de.Name()), de.Name(), specs, code)
	}

	for _, es := range collected.Entities {
		sort.Slice(es, func(i, j int) bool {
			if es[i].Name != es[j].Name {
				return es[i].Name < es[j].Name
			}
			return es[i].Source < es[j].Source
		})
	}
	return collected, nil
}

// collectFile pulls every record the kind specs claim out of one data
// file. The top level is either an object keyed by kind, the upstream
// shape, or a bare array when the file maps to a single kind.
func collectFile(collected *Collected, path, name string, specs []KindSpec, code string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		collected.fail(name, specs[0].Kind, fmt.Sprintf("read: %v", err))
		return
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err == nil {
		for _, spec := range specs {
			for _, key := range spec.JSONKeys {
				arr, ok := top[key]
				if !ok {
					continue
				}
				collectArray(collected, name, spec, arr, code)
			}
		}
		return
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		collected.fail(name, specs[0].Kind, fmt.Sprintf("parse: %v", err))
		return
	}
	if len(specs) > 1 {
		collected.fail(name, specs[0].Kind, "bare array is ambiguous for this file")
		return
	}
	collectRecords(collected, name, specs[0], arr, code)
}

func collectArray(collected *Collected, file string, spec KindSpec, raw json.RawMessage, code string) {
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		collected.fail(file, spec.Kind, fmt.Sprintf("parse %s array: %v", spec.Kind, err))
		return
	}
	collectRecords(collected, file, spec, records, code)
}

func collectRecords(collected *Collected, file string, spec KindSpec, records []json.RawMessage, code string) {
	for _, record := range records {
		var header struct {
			Name   string `json:"name"`
			Source string `json:"source"`
		}
		if err := json.Unmarshal(record, &header); err != nil {
			collected.fail(file, spec.Kind, fmt.Sprintf("record is not an object: %v", err))
			continue
		}
		if header.Name == "" {
			collected.fail(file, spec.Kind, "record has no name")
			continue
		}
		if header.Source == "" {
			collected.fail(file, spec.Kind, fmt.Sprintf("%s has no source", header.Name))
			continue
		}
		if PayloadMatches(record, []string{code}) == MatchNone {
			continue
		}
		collected.add(domain.Entity{
			Name:     header.Name,
			Source:   header.Source,
			Kind:     spec.Kind,
			Payload:  record,
			Promoted: PromoteFields(spec.Kind, record),
		})
	}
}
