package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence no newline", "```json{\"a\":1}```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```\n ", `{"a":1}`},
		{"no trailing fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, StripCodeFences(tc.in))
		})
	}
}

func TestParseRemoteVerdict_FencedEqualsUnfenced(t *testing.T) {
	t.Parallel()

	body := `{"isAIGenerated":true,"confidence":85,"reasoning":"texture artifacts","visualIndicators":["smooth skin","warped text"]}`

	plain, err := ParseRemoteVerdict(body)
	require.NoError(t, err)
	fenced, err := ParseRemoteVerdict("```json\n" + body + "\n```")
	require.NoError(t, err)

	assert.Equal(t, plain, fenced)
	assert.True(t, plain.IsAIGenerated)
	assert.Equal(t, 85, plain.Confidence)
	assert.Equal(t, "texture artifacts", plain.Reasoning)
	assert.Equal(t, []string{"smooth skin", "warped text"}, plain.VisualIndicators)
}

func TestParseRemoteVerdict_Defaults(t *testing.T) {
	t.Parallel()

	v, err := ParseRemoteVerdict(`{}`)
	require.NoError(t, err)
	assert.False(t, v.IsAIGenerated)
	assert.Equal(t, 0, v.Confidence)
	assert.Equal(t, "No reasoning provided", v.Reasoning)
	assert.Empty(t, v.VisualIndicators)
	assert.NotNil(t, v.VisualIndicators)
}

func TestParseRemoteVerdict_MissingReasoning(t *testing.T) {
	t.Parallel()

	v, err := ParseRemoteVerdict(`{"isAIGenerated":true,"confidence":70}`)
	require.NoError(t, err)
	assert.Equal(t, "No reasoning provided", v.Reasoning)
	assert.True(t, v.IsAIGenerated)
}

func TestParseRemoteVerdict_ConfidenceClamped(t *testing.T) {
	t.Parallel()

	v, err := ParseRemoteVerdict(`{"confidence":150}`)
	require.NoError(t, err)
	assert.Equal(t, 100, v.Confidence)

	v, err = ParseRemoteVerdict(`{"confidence":-5}`)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Confidence)
}

func TestParseRemoteVerdict_Malformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"I think this image is AI generated.",
		"```json\nnot json\n```",
		"",
	} {
		_, err := ParseRemoteVerdict(raw)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	}
}
