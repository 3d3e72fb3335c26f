package ingest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrowgate-labs/grimoire-cli/internal/core/domain"
)

func monsterEntity(t *testing.T, payload string) domain.Entity {
	t.Helper()
	var header struct {
		Name   string `json:"name"`
		Source string `json:"source"`
	}
	require.NoError(t, json.Unmarshal([]byte(payload), &header))
	return domain.Entity{
		Name:    header.Name,
		Source:  header.Source,
		Kind:    domain.KindMonster,
		Payload: json.RawMessage(payload),
	}
}

func TestClassifySRDMarkers(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		ruleset  domain.SRDRuleset
		included bool
	}{
		{"srd true", `{"name":"Goblin","source":"MM","srd":true}`, domain.SRDLegacy, true},
		{"srd false", `{"name":"Beholder","source":"MM","srd":false}`, domain.SRDLegacy, false},
		{"no marker is excluded", `{"name":"Flumph","source":"MM"}`, domain.SRDLegacy, false},
		{"basic rules counts", `{"name":"Zombie","source":"MM","basicRules":true}`, domain.SRDLegacy, true},
		{"legacy marker ignored under current", `{"name":"Goblin","source":"MM","srd":true}`, domain.SRDCurrent, false},
		{"srd52 under current", `{"name":"Goblin","source":"XMM","srd52":true}`, domain.SRDCurrent, true},
		{"basic rules 2024", `{"name":"Zombie","source":"XMM","basicRules2024":true}`, domain.SRDCurrent, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, included := ClassifySRD(monsterEntity(t, tt.payload), tt.ruleset)
			assert.Equal(t, tt.included, included)
		})
	}
}

func TestClassifySRDReassignsSource(t *testing.T) {
	out, included := ClassifySRD(monsterEntity(t, `{"name":"Goblin","source":"MM","srd":true}`), domain.SRDLegacy)
	require.True(t, included)
	assert.Equal(t, domain.SRDSource, out.Source)

	var obj map[string]any
	require.NoError(t, json.Unmarshal(out.Payload, &obj))
	assert.Equal(t, domain.SRDSource, obj["source"])
	assert.Equal(t, true, obj["srd"])
}

func TestClassifySRDRename(t *testing.T) {
	payload := `{"name":"Tim's Thunderclap","source":"PHB","srd":"Thunderclap"}`
	out, included := ClassifySRD(monsterEntity(t, payload), domain.SRDLegacy)
	require.True(t, included)
	assert.Equal(t, "Thunderclap", out.Name)

	var obj map[string]any
	require.NoError(t, json.Unmarshal(out.Payload, &obj))
	assert.Equal(t, "Thunderclap", obj["name"])
	assert.Equal(t, "Tim's Thunderclap", obj["originalName"])
	assert.Equal(t, "Thunderclap", obj["srdName"])
}

func TestClassifySRDVersions(t *testing.T) {
	t.Run("unmarked versions inherit inclusion", func(t *testing.T) {
		payload := `{"name":"Knight","source":"MM","srd":true,"_versions":[{"name":"Knight (Variant)"}]}`
		out, included := ClassifySRD(monsterEntity(t, payload), domain.SRDLegacy)
		require.True(t, included)
		var obj map[string]any
		require.NoError(t, json.Unmarshal(out.Payload, &obj))
		assert.Len(t, obj["_versions"], 1)
	})

	t.Run("excluded version is dropped", func(t *testing.T) {
		payload := `{"name":"Knight","source":"MM","srd":true,"_versions":[{"name":"A","srd":false},{"name":"B"}]}`
		out, included := ClassifySRD(monsterEntity(t, payload), domain.SRDLegacy)
		require.True(t, included)
		var obj map[string]any
		require.NoError(t, json.Unmarshal(out.Payload, &obj))
		versions, ok := obj["_versions"].([]any)
		require.True(t, ok)
		require.Len(t, versions, 1)
		assert.Equal(t, "B", versions[0].(map[string]any)["name"])
	})

	t.Run("eligible version rescues excluded entity", func(t *testing.T) {
		payload := `{"name":"Knight","source":"MM","_versions":[{"name":"Knight (SRD)","srd":true}]}`
		out, included := ClassifySRD(monsterEntity(t, payload), domain.SRDLegacy)
		require.True(t, included)
		var obj map[string]any
		require.NoError(t, json.Unmarshal(out.Payload, &obj))
		assert.Len(t, obj["_versions"], 1)
	})

	t.Run("nothing eligible excludes entirely", func(t *testing.T) {
		payload := `{"name":"Knight","source":"MM","_versions":[{"name":"A","srd":false}]}`
		_, included := ClassifySRD(monsterEntity(t, payload), domain.SRDLegacy)
		assert.False(t, included)
	})
}

func TestClassifySRDPromotesFromTransformedPayload(t *testing.T) {
	payload := `{"name":"Goblin","source":"MM","srd":true,"cr":"1/4","type":"humanoid","size":["S"]}`
	out, included := ClassifySRD(monsterEntity(t, payload), domain.SRDLegacy)
	require.True(t, included)
	assert.Equal(t, "1/4", out.Promoted.CR)
	assert.Equal(t, "humanoid", out.Promoted.CreatureType)
	assert.Equal(t, "S", out.Promoted.Size)
}
