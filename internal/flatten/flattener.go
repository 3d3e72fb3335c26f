// Package flatten converts nested rule-text "entries" structures into
// plain indexable text and lightly formatted display text.
//
// The upstream data nests strings, lists, tables and named sections
// arbitrarily deep, and embeds inline reference tags such as
// {@spell fireball|PHB}. Flattening resolves tags to their display
// form and walks the structure in a fixed key order so that output
// is byte-identical across calls for the same input.
package flatten

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// DepthCeiling bounds recursion. Content nested beyond the ceiling is
// still emitted, but without further tag resolution.
const DepthCeiling = 64

// tagPattern matches inline tags like {@spell fireball|PHB}, capturing
// the display text before any pipe. Unknown tag words still match, so
// unrecognised tags degrade to their inner text instead of failing.
var tagPattern = regexp.MustCompile(`\{@\w+\s+([^|{}]+)(?:\|[^{}]*)?\}`)

// bareTagPattern matches argument-less tags like {@atk mw} leftovers
// and tags whose body was already resolved, e.g. {@h}.
var bareTagPattern = regexp.MustCompile(`\{@\w+\}`)

// maxTagPasses bounds repeated resolution of nested tags like
// {@b {@spell fireball}}.
const maxTagPasses = 8

// StripTags resolves all inline tags in s to their display text.
func StripTags(s string) string {
	for range maxTagPasses {
		replaced := tagPattern.ReplaceAllString(s, "$1")
		replaced = bareTagPattern.ReplaceAllString(replaced, "")
		if replaced == s {
			break
		}
		s = replaced
	}
	return s
}

// Result holds the two renderings of a flattened structure.
type Result struct {
	// SearchText is plain space-joined text with tags stripped,
	// suitable for full-text indexing.
	SearchText string

	// DisplayText keeps light structure: section names terminated
	// with a colon, list items bulleted, blocks newline-separated.
	DisplayText string
}

// Entries flattens a decoded entries value (string, array, or object).
func Entries(v any) Result {
	var search, display []string
	walk(v, 0, &search, &display)
	return Result{
		SearchText:  strings.Join(search, " "),
		DisplayText: strings.Join(display, "\n"),
	}
}

// RawEntries decodes raw JSON and flattens it.
// Malformed JSON yields an empty result rather than an error: flattened
// text is a rebuildable cache, and the untrusted payload must never
// abort processing.
func RawEntries(raw json.RawMessage) Result {
	if len(raw) == 0 {
		return Result{}
	}
	v, err := decode(raw)
	if err != nil {
		return Result{}
	}
	return Entries(v)
}

// payloadTextFields are the markup-bearing payload fields flattened into
// an entity's search document, in fixed order for determinism.
var payloadTextFields = []string{
	"entries",
	"entriesHigherLevel",
	"trait",
	"action",
	"bonus",
	"reaction",
	"legendary",
}

// Document builds the full search document for an entity: its name
// followed by the flattened text of every markup-bearing payload field.
func Document(name string, payload json.RawMessage) Result {
	search := []string{name}
	display := []string{name}

	if len(payload) > 0 {
		if v, err := decode(payload); err == nil {
			if obj, ok := v.(map[string]any); ok {
				for _, field := range payloadTextFields {
					fv, ok := obj[field]
					if !ok {
						continue
					}
					walk(fv, 0, &search, &display)
				}
			}
		}
	}

	return Result{
		SearchText:  strings.Join(search, " "),
		DisplayText: strings.Join(display, "\n"),
	}
}

// decode parses JSON preserving number lexemes, so numeric fragments
// render identically on every call.
func decode(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// walk recursively flattens one value into both output slices.
func walk(v any, depth int, search, display *[]string) {
	switch val := v.(type) {
	case string:
		if val == "" {
			return
		}
		emit(val, depth, search, display)

	case json.Number:
		emit(val.String(), depth, search, display)

	case []any:
		for _, item := range val {
			walk(item, depth+1, search, display)
		}

	case map[string]any:
		walkObject(val, depth, search, display)
	}
}

// walkObject handles block structures. Keys are visited in a fixed
// order; map iteration is never used, to keep output deterministic.
func walkObject(obj map[string]any, depth int, search, display *[]string) {
	isList := false
	if t, ok := obj["type"].(string); ok && t == "list" {
		isList = true
	}

	if name, ok := obj["name"].(string); ok && name != "" {
		emitHeading(name, depth, search, display)
	}
	if title, ok := obj["title"].(string); ok && title != "" {
		emitHeading(title, depth, search, display)
	}
	if caption, ok := obj["caption"].(string); ok && caption != "" {
		emitHeading(caption, depth, search, display)
	}

	if entries, ok := obj["entries"]; ok {
		switch e := entries.(type) {
		case []any:
			for _, item := range e {
				walk(item, depth+1, search, display)
			}
		case string:
			emit(e, depth, search, display)
		}
	}

	if items, ok := obj["items"].([]any); ok {
		for _, item := range items {
			if s, ok := item.(string); ok && isList {
				emitBullet(s, depth, search, display)
				continue
			}
			walk(item, depth+1, search, display)
		}
	}

	if by, ok := obj["by"].(string); ok && by != "" {
		emit(by, depth, search, display)
	}
}

func emit(s string, depth int, search, display *[]string) {
	s = resolve(s, depth)
	*search = append(*search, s)
	*display = append(*display, s)
}

func emitHeading(s string, depth int, search, display *[]string) {
	s = resolve(s, depth)
	*search = append(*search, s)
	*display = append(*display, s+":")
}

func emitBullet(s string, depth int, search, display *[]string) {
	s = resolve(s, depth)
	*search = append(*search, s)
	*display = append(*display, "- "+s)
}

// resolve strips tags unless the content sits beyond the depth ceiling.
func resolve(s string, depth int) string {
	if depth > DepthCeiling {
		return s
	}
	return StripTags(s)
}
