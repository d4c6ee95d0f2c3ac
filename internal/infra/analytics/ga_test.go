package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCount_UnconfiguredServesMock(t *testing.T) {
	t.Parallel()

	c := New(context.Background(), "", "", zap.NewNop())
	assert.False(t, c.IsConfigured())

	got := c.Count(context.Background())
	assert.True(t, got.IsMock)
	assert.Equal(t, 0, got.ActiveUsers)
	assert.Equal(t, "30d", got.Period)
}

func TestNew_BadCredentialsDegradesToMock(t *testing.T) {
	t.Parallel()

	c := New(context.Background(), "123456", "not-json", zap.NewNop())
	assert.False(t, c.IsConfigured())

	got := c.Count(context.Background())
	assert.True(t, got.IsMock)
}
