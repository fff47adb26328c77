package llmutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare object",
			input:    `{"intent": "schedule"}`,
			expected: `{"intent": "schedule"}`,
		},
		{
			name:     "fenced with language tag",
			input:    "```json\n{\"intent\": \"schedule\"}\n```",
			expected: `{"intent": "schedule"}`,
		},
		{
			name:     "fenced without language tag",
			input:    "```\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "prose around object",
			input:    `Sure! Here is the result: {"a": 1} — hope that helps.`,
			expected: `{"a": 1}`,
		},
		{
			name:     "nested braces keep outermost span",
			input:    `prefix {"outer": {"inner": 2}} suffix`,
			expected: `{"outer": {"inner": 2}}`,
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "no object at all",
			input:    "I'd be happy to help with that!",
			expected: "",
		},
		{
			name:     "truncated object yields nothing",
			input:    `{"a": 1`,
			expected: "",
		},
		{
			name:     "leading whitespace",
			input:    "\n\n  {\"a\": 1}\n",
			expected: `{"a": 1}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractJSON(tc.input))
		})
	}
}

func TestDecodeCompletion(t *testing.T) {
	type payload struct {
		Intent     string  `json:"intent"`
		Confidence float64 `json:"confidence"`
	}

	t.Run("fenced payload decodes", func(t *testing.T) {
		got, err := DecodeCompletion[payload]("```json\n{\"intent\": \"schedule workout\", \"confidence\": 0.9}\n```")
		require.NoError(t, err)
		assert.Equal(t, "schedule workout", got.Intent)
		assert.InDelta(t, 0.9, got.Confidence, 1e-9)
	})

	t.Run("prose wrapped payload decodes", func(t *testing.T) {
		got, err := DecodeCompletion[payload](`Here you go: {"intent": "chat", "confidence": 0.3}`)
		require.NoError(t, err)
		assert.Equal(t, "chat", got.Intent)
	})

	t.Run("no object is an error", func(t *testing.T) {
		_, err := DecodeCompletion[payload]("I couldn't produce JSON, sorry.")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no JSON object")
	})

	t.Run("malformed object is an error", func(t *testing.T) {
		_, err := DecodeCompletion[payload](`{"intent": "chat", "confidence": }`)
		require.Error(t, err)
	})

	t.Run("unmarshal error truncates the extracted text", func(t *testing.T) {
		garbage := "{\"intent\": " + strings.Repeat("x", 1000) + "}"
		_, err := DecodeCompletion[payload](garbage)
		require.Error(t, err)
		assert.Less(t, len(err.Error()), 500)
	})
}
