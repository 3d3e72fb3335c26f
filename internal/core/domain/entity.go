package domain

import (
	"encoding/json"
	"time"
)

// Entity is the generic unit of catalog data.
// The raw JSON payload is preserved verbatim; only a handful of
// high-value fields are promoted to structured columns for filtering.
type Entity struct {
	// Name is the display identifier. Not globally unique.
	Name string

	// Source is the book code this entity came from (e.g. "PHB").
	Source string

	// Kind is the entity kind.
	Kind Kind

	// Payload is the original JSON document, unmodified.
	Payload json.RawMessage

	// Promoted holds the filterable fields extracted from the payload.
	Promoted PromotedFields

	// UpdatedAt is when the entity row was last written.
	UpdatedAt time.Time
}

// Key returns the natural identity of the entity.
// (name, source, kind) uniquely identifies an entity in a catalog snapshot.
func (e Entity) Key() EntityKey {
	return EntityKey{Name: e.Name, Source: e.Source, Kind: e.Kind}
}

// EntityKey is the natural identity used for upserts.
type EntityKey struct {
	Name   string
	Source string
	Kind   Kind
}

// PromotedFields are the payload fields promoted to columns for filtering.
// Which fields are populated depends on the kind; everything else stays
// in the raw payload and is re-derived on read.
type PromotedFields struct {
	// CR is the challenge rating (monsters), e.g. "1/4", "13".
	CR string

	// CreatureType is the creature type (monsters), e.g. "humanoid".
	CreatureType string

	// Size is the size code (monsters), e.g. "M".
	Size string

	// Level is the spell level (spells). -1 when not applicable.
	Level int

	// School is the school of magic code (spells), e.g. "V".
	School string

	// Rarity is the item rarity (items), e.g. "rare".
	Rarity string
}

// EntityFilter narrows catalog list operations.
// Zero-value fields are ignored.
type EntityFilter struct {
	Kind         Kind
	Source       string
	CR           string
	CreatureType string
	Size         string
	Level        *int
	School       string
	Rarity       string
}

// Book is a source book registered in the catalog.
type Book struct {
	// Code is the short source code, e.g. "PHB", "MM".
	Code string

	// Name is the human-readable title.
	Name string

	// Group categorises the book, e.g. "core", "supplement".
	Group string

	// Published is the upstream publication date, when known.
	Published string

	// Enabled marks whether the book participates in searches.
	Enabled bool

	// ImportedAt is when the book's content was last imported.
	ImportedAt time.Time
}

// SRDSource is the pseudo-book code assigned to entities reclassified
// as System Reference Document content.
const SRDSource = "SRD"
