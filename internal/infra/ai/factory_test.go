package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVerifier_EmptyKeySkips(t *testing.T) {
	t.Parallel()

	v, err := NewVerifier(context.Background(), "gemini", "", "")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestNewVerifier_UnknownProvider(t *testing.T) {
	t.Parallel()

	_, err := NewVerifier(context.Background(), "anthropic", "some-key", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown ai provider")
}

func TestNewVerifier_OpenAI(t *testing.T) {
	t.Parallel()

	v, err := NewVerifier(context.Background(), "openai", "sk-test", "gpt-4o-mini")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.True(t, v.IsConfigured())
}
