package redis

import (
	"context"
	"testing"
	"time"

	"github.com/LegalMindAI/Backend-V2/internal/config"
	"github.com/LegalMindAI/Backend-V2/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_DisabledReturnsNil(t *testing.T) {
	c, err := NewClient(config.RedisConfig{Enabled: false}, observability.NewNopLogger())
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.False(t, c.IsEnabled())
	assert.NoError(t, c.Close())
}

func TestNilClient_ReportsNotInitialized(t *testing.T) {
	var c *Client
	ctx := context.Background()

	_, err := c.RecordHit(ctx, "rl:owner", "1", time.Now(), time.Minute)
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, c.RemoveHit(ctx, "rl:owner", "1"), ErrNotInitialized)
	assert.ErrorIs(t, c.Ping(ctx), ErrNotInitialized)
}
