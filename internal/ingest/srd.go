package ingest

import (
	"encoding/json"

	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
)

// srdStatus is the classification of one payload or sub-part.
type srdStatus int

const (
	srdExclude srdStatus = iota
	srdInclude
	srdIncludeRenamed
)

// markerFields returns the payload fields carrying SRD markers for a
// ruleset: the primary srd field and the secondary basic-rules field.
func markerFields(ruleset domain.SRDRuleset) (primary, secondary string) {
	if ruleset == domain.SRDCurrent {
		return "srd52", "basicRules2024"
	}
	return "srd", "basicRules"
}

// checkStatus reads the SRD markers from a decoded payload.
//
// Marker semantics: true includes, false excludes, a non-empty string
// includes under a new name. A missing marker is not SRD (fail-closed).
func checkStatus(obj map[string]any, ruleset domain.SRDRuleset) (srdStatus, string) {
	primary, secondary := markerFields(ruleset)

	if v, ok := obj[primary]; ok {
		switch marker := v.(type) {
		case bool:
			if marker {
				return srdInclude, ""
			}
			return srdExclude, ""
		case string:
			if marker != "" {
				return srdIncludeRenamed, marker
			}
		}
	}

	if v, ok := obj[secondary].(bool); ok && v {
		return srdInclude, ""
	}

	return srdExclude, ""
}

// ClassifySRD decides whether an entity belongs to the SRD under the
// given ruleset and, when it does, returns the entity transformed for
// SRD-only import: reclassified under the SRD pseudo-book, renamed if
// the marker says so, and with ineligible sub-parts removed.
//
// Composite entities carry alternate stat blocks in a _versions array;
// a version without its own marker inherits the parent's status. An
// entity with no eligible part is excluded entirely, never emitted
// as an empty shell.
func ClassifySRD(entity domain.Entity, ruleset domain.SRDRuleset) (domain.Entity, bool) {
	var obj map[string]any
	if err := json.Unmarshal(entity.Payload, &obj); err != nil {
		return domain.Entity{}, false
	}

	status, srdName := checkStatus(obj, ruleset)
	versions, hasVersions := obj["_versions"].([]any)

	var kept []any
	if hasVersions {
		kept = eligibleVersions(versions, status, ruleset)
	}

	if status == srdExclude && len(kept) == 0 {
		return domain.Entity{}, false
	}

	transformed := transformForSRD(obj, status, srdName, ruleset)
	if hasVersions {
		if len(kept) > 0 {
			transformed["_versions"] = kept
		} else {
			delete(transformed, "_versions")
		}
	}

	payload, err := json.Marshal(transformed)
	if err != nil {
		return domain.Entity{}, false
	}

	name := entity.Name
	if status == srdIncludeRenamed {
		name = srdName
	}

	return domain.Entity{
		Name:     name,
		Source:   domain.SRDSource,
		Kind:     entity.Kind,
		Payload:  payload,
		Promoted: PromoteFields(entity.Kind, payload),
	}, true
}

// eligibleVersions keeps the sub-parts allowed into the SRD.
func eligibleVersions(versions []any, parent srdStatus, ruleset domain.SRDRuleset) []any {
	var kept []any
	for _, v := range versions {
		version, ok := v.(map[string]any)
		if !ok {
			continue
		}

		primary, secondary := markerFields(ruleset)
		_, hasPrimary := version[primary]
		_, hasSecondary := version[secondary]

		if hasPrimary || hasSecondary {
			if status, _ := checkStatus(version, ruleset); status != srdExclude {
				kept = append(kept, v)
			}
			continue
		}
		// No marker of its own: inherit the parent's status.
		if parent != srdExclude {
			kept = append(kept, v)
		}
	}
	return kept
}

// transformForSRD rewrites a payload for SRD-only output.
func transformForSRD(obj map[string]any, status srdStatus, srdName string, ruleset domain.SRDRuleset) map[string]any {
	transformed := make(map[string]any, len(obj))
	for k, v := range obj {
		transformed[k] = v
	}

	if status == srdIncludeRenamed {
		if original, ok := transformed["name"]; ok {
			transformed["originalName"] = original
		}
		transformed["srdName"] = srdName
		transformed["name"] = srdName
	}

	primary, secondary := markerFields(ruleset)
	transformed["source"] = domain.SRDSource
	transformed[primary] = true
	delete(transformed, secondary)

	return transformed
}
