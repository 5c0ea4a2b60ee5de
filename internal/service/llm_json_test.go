package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"plain array", `[{"type":"MCQ"},{"type":"ESSAY"}]`, 2},
		{"fenced", "```json\n[{\"type\":\"MCQ\"}]\n```", 1},
		{"fence without language", "```\n[{\"type\":\"MCQ\"}]\n```", 1},
		{"surrounding prose", "Sure! Here are the questions:\n[{\"type\":\"MCQ\"}]\nGood luck.", 1},
		{"trailing commas", "[{\"type\":\"MCQ\", \"options\": [\"a\", \"b\",],},]", 1},
		{"wrapped in questions", `{"questions": [{"type":"MCQ"},{"type":"MCQ"},{"type":"MCQ"}]}`, 3},
		{"wrapped in items", `{"items": []}`, 0},
		{"single object", `{"type":"ESSAY","question":"Why?"}`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := ExtractJSONArray(tt.content)
			require.NoError(t, err)
			assert.Len(t, items, tt.want)
			for _, item := range items {
				assert.True(t, json.Valid(item))
			}
		})
	}
}

func TestExtractJSONArrayRejects(t *testing.T) {
	for _, content := range []string{"", "   ", "no json here", "```json\n```", `{"foo": 1}`, "[not json"} {
		_, err := ExtractJSONArray(content)
		assert.Error(t, err, "content %q", content)
	}
}

func TestGeneratedOptionForms(t *testing.T) {
	var opts []generatedOption
	require.NoError(t, json.Unmarshal([]byte(`["a", {"text": "b", "isCorrect": true}]`), &opts))
	assert.Equal(t, []generatedOption{{Text: "a"}, {Text: "b", IsCorrect: true}}, opts)

	assert.Error(t, json.Unmarshal([]byte(`[1]`), &opts))
}

func TestParseBoolish(t *testing.T) {
	tests := []struct {
		raw    string
		want   bool
		wantOK bool
	}{
		{`true`, true, true},
		{`false`, false, true},
		{`"True"`, true, true},
		{`" no "`, false, true},
		{`"maybe"`, false, false},
		{`1`, false, false},
	}
	for _, tt := range tests {
		got, ok := parseBoolish(json.RawMessage(tt.raw))
		assert.Equal(t, tt.wantOK, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}
