package flatten

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple tag", "{@spell fireball}", "fireball"},
		{"tag with source", "{@creature goblin|MM}", "goblin"},
		{"dice tag", "{@dice 2d6+3}", "2d6+3"},
		{"hit tag", "{@hit +7}", "+7"},
		{"dc tag", "{@dc 15}", "15"},
		{"condition tag", "{@condition frightened}", "frightened"},
		{"unknown tag keeps inner text", "{@wibble strange thing|XGE}", "strange thing"},
		{"bare tag dropped", "before {@h} after", "before  after"},
		{"nested tags", "{@b {@spell fireball|PHB}}", "fireball"},
		{
			"multiple tags",
			"Cast {@spell fireball} at the {@creature goblin|MM}.",
			"Cast fireball at the goblin.",
		},
		{"no tags", "Plain text without any tags.", "Plain text without any tags."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripTags(tt.input))
		})
	}
}

func TestEntriesPlainStrings(t *testing.T) {
	result := Entries([]any{"First.", "Second."})
	assert.Equal(t, "First. Second.", result.SearchText)
	assert.Equal(t, "First.\nSecond.", result.DisplayText)
}

func TestEntriesNestedSections(t *testing.T) {
	raw := json.RawMessage(`[{
		"type": "entries",
		"name": "Nimble Escape",
		"entries": ["The goblin can take the {@action Disengage} action."]
	}]`)

	result := RawEntries(raw)
	assert.Contains(t, result.SearchText, "Nimble Escape")
	assert.Contains(t, result.SearchText, "Disengage action")
	assert.NotContains(t, result.SearchText, "{@action")
	assert.Contains(t, result.DisplayText, "Nimble Escape:")
}

func TestEntriesList(t *testing.T) {
	raw := json.RawMessage(`[{
		"type": "list",
		"items": ["Item one", "Item two"]
	}]`)

	result := RawEntries(raw)
	assert.Contains(t, result.SearchText, "Item one")
	assert.Contains(t, result.DisplayText, "- Item one")
	assert.Contains(t, result.DisplayText, "- Item two")
}

func TestEntriesQuoteAndCaption(t *testing.T) {
	raw := json.RawMessage(`[
		{"type": "quote", "entries": ["To be or not to be."], "by": "A Bard"},
		{"type": "table", "caption": "Random Encounters", "rows": []}
	]`)

	result := RawEntries(raw)
	assert.Contains(t, result.SearchText, "To be or not to be.")
	assert.Contains(t, result.SearchText, "A Bard")
	assert.Contains(t, result.SearchText, "Random Encounters")
}

func TestEntriesNumbers(t *testing.T) {
	result := Entries([]any{json.Number("3"), "damage"})
	assert.Equal(t, "3 damage", result.SearchText)
}

func TestEntriesDeterministic(t *testing.T) {
	raw := json.RawMessage(`[{
		"type": "entries",
		"name": "Breath Weapon",
		"entries": [
			"The dragon exhales fire in a {@dice 6d6} cone.",
			{"type": "list", "items": ["{@condition prone}", "{@dc 15} save"]}
		]
	}]`)

	first := RawEntries(raw)
	for range 10 {
		assert.Equal(t, first, RawEntries(raw))
	}
}

func TestEntriesDeepNestingTerminates(t *testing.T) {
	// Build nesting four times deeper than the ceiling.
	depth := DepthCeiling * 4
	var b strings.Builder
	for range depth {
		b.WriteString(`{"type":"entries","entries":[`)
	}
	b.WriteString(`"{@spell leaf}"`)
	for range depth {
		b.WriteString(`]}`)
	}

	result := RawEntries(json.RawMessage(b.String()))
	// Beyond the ceiling content is emitted verbatim, tags unresolved.
	assert.Contains(t, result.SearchText, "{@spell leaf}")
}

func TestEntriesWithinCeilingResolvesTags(t *testing.T) {
	raw := json.RawMessage(`[{"type":"entries","entries":["{@spell leaf}"]}]`)
	result := RawEntries(raw)
	assert.Equal(t, "leaf", result.SearchText)
}

func TestRawEntriesMalformedJSON(t *testing.T) {
	result := RawEntries(json.RawMessage(`{"type": "entries",`))
	assert.Empty(t, result.SearchText)
	assert.Empty(t, result.DisplayText)
}

func TestDocument(t *testing.T) {
	payload := json.RawMessage(`{
		"name": "Goblin",
		"source": "MM",
		"entries": ["A small goblinoid."],
		"trait": [{"name": "Nimble Escape", "entries": ["Can {@action Disengage} freely."]}]
	}`)

	result := Document("Goblin", payload)
	require.NotEmpty(t, result.SearchText)
	assert.True(t, strings.HasPrefix(result.SearchText, "Goblin"))
	assert.Contains(t, result.SearchText, "small goblinoid")
	assert.Contains(t, result.SearchText, "Nimble Escape")
	assert.Contains(t, result.SearchText, "Disengage freely")
}

func TestDocumentEmptyPayload(t *testing.T) {
	result := Document("Orc", nil)
	assert.Equal(t, "Orc", result.SearchText)
}
