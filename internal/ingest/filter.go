package ingest

import (
	"encoding/json"
	"strings"
)

// Match classifies how a source code matched a pattern.
// Exact matches outrank prefix matches when deduplicating entities
// that satisfy more than one pattern.
type Match int

const (
	// MatchNone means the pattern does not cover the source.
	MatchNone Match = iota

	// MatchPrefix means the pattern covered the source as a prefix,
	// either via an explicit wildcard or a variant-suffix boundary.
	MatchPrefix

	// MatchExact means the pattern equals the source.
	MatchExact
)

// MatchSource decides whether a source code satisfies one pattern.
//
// Matching is case-insensitive. Two pattern forms exist:
//
//   - exact code ("DMG"): matches "DMG" exactly, and variant-suffixed
//     codes whose suffix starts at a non-alphanumeric boundary
//     ("DMG-p12"), but never "DMG2";
//   - wildcard ("DMG*"): raw prefix, matches "DMG", "DMG2", "DMG-x".
func MatchSource(source, pattern string) Match {
	s := strings.ToUpper(strings.TrimSpace(source))
	p := strings.ToUpper(strings.TrimSpace(pattern))
	if s == "" || p == "" {
		return MatchNone
	}

	if stripped, ok := strings.CutSuffix(p, "*"); ok {
		if stripped == "" {
			return MatchNone
		}
		if s == stripped {
			return MatchExact
		}
		if strings.HasPrefix(s, stripped) {
			return MatchPrefix
		}
		return MatchNone
	}

	if s == p {
		return MatchExact
	}
	if strings.HasPrefix(s, p) && !isAlphanumeric(s[len(p)]) {
		return MatchPrefix
	}
	return MatchNone
}

// MatchAny returns the best match across a pattern list (OR semantics).
// An empty pattern list matches everything exactly.
func MatchAny(source string, patterns []string) Match {
	if len(patterns) == 0 {
		return MatchExact
	}
	best := MatchNone
	for _, p := range patterns {
		if m := MatchSource(source, p); m > best {
			best = m
		}
	}
	return best
}

// PayloadMatches decides membership for a full entity payload.
// The upstream data references sources in three shapes: a direct
// source field, inheritsFrom[].source, and sources[].source.
func PayloadMatches(payload json.RawMessage, patterns []string) Match {
	var probe struct {
		Source       string `json:"source"`
		InheritsFrom []struct {
			Source string `json:"source"`
		} `json:"inheritsFrom"`
		Sources []struct {
			Source string `json:"source"`
		} `json:"sources"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return MatchNone
	}

	best := MatchAny(probe.Source, patterns)
	for _, inherit := range probe.InheritsFrom {
		if m := MatchAny(inherit.Source, patterns); m > best {
			best = m
		}
	}
	for _, src := range probe.Sources {
		if m := MatchAny(src.Source, patterns); m > best {
			best = m
		}
	}
	return best
}

func isAlphanumeric(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
