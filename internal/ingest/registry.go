// Package ingest reads third-party rulebook JSON trees and turns them
// into catalog entities: discovering which books are present, collecting
// per-kind records permissively, filtering by source code and
// reclassifying SRD-eligible content.
package ingest

import (
	"encoding/json"

	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
)

// KindSpec describes how one entity kind appears on disk and which
// payload fields get promoted to filterable columns.
type KindSpec struct {
	// Kind is the entity kind this spec covers.
	Kind domain.Kind

	// FileNames are the recognised file names inside a book directory.
	FileNames []string

	// JSONKeys are the top-level object keys holding the entity array.
	// A bare top-level array is also accepted when the file name maps
	// to exactly one kind.
	JSONKeys []string

	// Promote extracts the filterable columns from a decoded payload.
	// Nil when the kind promotes nothing.
	Promote func(payload map[string]any) domain.PromotedFields
}

// registry maps each kind to its on-disk spec. Built once at package
// init and looked up by kind or file name; nothing relies on wildcard
// re-exports of per-kind types.
var registry = map[domain.Kind]KindSpec{
	domain.KindMonster: {
		Kind:      domain.KindMonster,
		FileNames: []string{"bestiary.json", "monsters.json"},
		JSONKeys:  []string{"monster", "creature"},
		Promote:   promoteMonster,
	},
	domain.KindSpell: {
		Kind:      domain.KindSpell,
		FileNames: []string{"spells.json"},
		JSONKeys:  []string{"spell"},
		Promote:   promoteSpell,
	},
	domain.KindItem: {
		Kind:      domain.KindItem,
		FileNames: []string{"items.json"},
		JSONKeys:  []string{"item", "baseitem"},
		Promote:   promoteItem,
	},
	domain.KindRace: {
		Kind:      domain.KindRace,
		FileNames: []string{"races.json"},
		JSONKeys:  []string{"race"},
	},
	domain.KindBackground: {
		Kind:      domain.KindBackground,
		FileNames: []string{"backgrounds.json"},
		JSONKeys:  []string{"background"},
	},
	domain.KindClass: {
		Kind:      domain.KindClass,
		FileNames: []string{"class.json", "classes.json"},
		JSONKeys:  []string{"class"},
	},
	domain.KindFeat: {
		Kind:      domain.KindFeat,
		FileNames: []string{"feats.json"},
		JSONKeys:  []string{"feat"},
	},
	domain.KindCondition: {
		Kind:      domain.KindCondition,
		FileNames: []string{"conditions.json", "conditionsdiseases.json"},
		JSONKeys:  []string{"condition"},
	},
	domain.KindLanguage: {
		Kind:      domain.KindLanguage,
		FileNames: []string{"languages.json"},
		JSONKeys:  []string{"language"},
	},
	domain.KindTrap: {
		Kind:      domain.KindTrap,
		FileNames: []string{"traps.json", "trapshazards.json"},
		JSONKeys:  []string{"trap"},
	},
	domain.KindHazard: {
		Kind:      domain.KindHazard,
		FileNames: []string{"hazards.json", "trapshazards.json"},
		JSONKeys:  []string{"hazard"},
	},
	domain.KindAction: {
		Kind:      domain.KindAction,
		FileNames: []string{"actions.json"},
		JSONKeys:  []string{"action"},
	},
	domain.KindDeity: {
		Kind:      domain.KindDeity,
		FileNames: []string{"deities.json"},
		JSONKeys:  []string{"deity"},
	},
	domain.KindObject: {
		Kind:      domain.KindObject,
		FileNames: []string{"objects.json"},
		JSONKeys:  []string{"object"},
	},
	domain.KindOptionalFeature: {
		Kind:      domain.KindOptionalFeature,
		FileNames: []string{"optionalfeatures.json"},
		JSONKeys:  []string{"optionalfeature"},
	},
	domain.KindPsionic: {
		Kind:      domain.KindPsionic,
		FileNames: []string{"psionics.json"},
		JSONKeys:  []string{"psionic"},
	},
	domain.KindReward: {
		Kind:      domain.KindReward,
		FileNames: []string{"rewards.json"},
		JSONKeys:  []string{"reward"},
	},
	domain.KindTable: {
		Kind:      domain.KindTable,
		FileNames: []string{"tables.json"},
		JSONKeys:  []string{"table"},
	},
	domain.KindVariantRule: {
		Kind:      domain.KindVariantRule,
		FileNames: []string{"variantrules.json"},
		JSONKeys:  []string{"variantrule"},
	},
	domain.KindVehicle: {
		Kind:      domain.KindVehicle,
		FileNames: []string{"vehicles.json"},
		JSONKeys:  []string{"vehicle"},
	},
	domain.KindCult: {
		Kind:      domain.KindCult,
		FileNames: []string{"cults.json", "cultsboons.json"},
		JSONKeys:  []string{"cult"},
	},
}

// fileIndex maps a file name to the kinds that may appear in it.
var fileIndex = buildFileIndex()

func buildFileIndex() map[string][]KindSpec {
	index := make(map[string][]KindSpec)
	for _, kind := range domain.AllKinds {
		spec, ok := registry[kind]
		if !ok {
			continue
		}
		for _, name := range spec.FileNames {
			index[name] = append(index[name], spec)
		}
	}
	return index
}

// Spec returns the on-disk spec for a kind.
func Spec(kind domain.Kind) (KindSpec, bool) {
	spec, ok := registry[kind]
	return spec, ok
}

// SpecsForFile returns the kinds that may appear in the named file.
// A file like trapshazards.json carries more than one kind.
func SpecsForFile(name string) []KindSpec {
	return fileIndex[name]
}

// PromoteFields extracts the filterable columns for an entity payload.
func PromoteFields(kind domain.Kind, payload json.RawMessage) domain.PromotedFields {
	fields := domain.PromotedFields{Level: -1}

	spec, ok := registry[kind]
	if !ok || spec.Promote == nil {
		return fields
	}

	var obj map[string]any
	if err := json.Unmarshal(payload, &obj); err != nil {
		return fields
	}
	return spec.Promote(obj)
}

func promoteMonster(payload map[string]any) domain.PromotedFields {
	fields := domain.PromotedFields{Level: -1}

	switch cr := payload["cr"].(type) {
	case string:
		fields.CR = cr
	case map[string]any:
		// Some stat blocks wrap CR: {"cr": "13", "lair": "14"}.
		if s, ok := cr["cr"].(string); ok {
			fields.CR = s
		}
	}

	switch ct := payload["type"].(type) {
	case string:
		fields.CreatureType = ct
	case map[string]any:
		// Tagged creature types: {"type": "humanoid", "tags": [...]}.
		if s, ok := ct["type"].(string); ok {
			fields.CreatureType = s
		}
	}

	// Size is an array of codes; the first is the primary size.
	if sizes, ok := payload["size"].([]any); ok && len(sizes) > 0 {
		if s, ok := sizes[0].(string); ok {
			fields.Size = s
		}
	}

	return fields
}

func promoteSpell(payload map[string]any) domain.PromotedFields {
	fields := domain.PromotedFields{Level: -1}

	if level, ok := payload["level"].(float64); ok {
		fields.Level = int(level)
	}
	if school, ok := payload["school"].(string); ok {
		fields.School = school
	}

	return fields
}

func promoteItem(payload map[string]any) domain.PromotedFields {
	fields := domain.PromotedFields{Level: -1}

	if rarity, ok := payload["rarity"].(string); ok {
		fields.Rarity = rarity
	}

	return fields
}
