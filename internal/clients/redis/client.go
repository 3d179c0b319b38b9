package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LegalMindAI/Backend-V2/internal/config"
	"github.com/LegalMindAI/Backend-V2/internal/observability"

	"github.com/redis/go-redis/v9"
)

var ErrNotInitialized = errors.New("redis client not initialized")

// Client wraps the Redis client with observability. A nil *Client is valid and reports
// itself as disabled.
type Client struct {
	client *redis.Client
	logger *observability.Logger
}

// NewClient creates a new Redis client. It returns nil, nil when Redis is disabled.
func NewClient(cfg config.RedisConfig, logger *observability.Logger) (*Client, error) {
	if !cfg.Enabled {
		logger.Info(context.Background(), "Redis is disabled, skipping client initialization")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info(ctx, "successfully connected to Redis",
		observability.Field{Key: "addr", Value: cfg.Addr()},
		observability.Field{Key: "db", Value: cfg.DB},
	)

	return Wrap(client, logger), nil
}

// Wrap adapts an existing go-redis client.
func Wrap(client *redis.Client, logger *observability.Logger) *Client {
	return &Client{client: client, logger: logger}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// IsEnabled returns whether Redis is enabled
func (c *Client) IsEnabled() bool {
	return c != nil && c.client != nil
}

// Ping checks connectivity
func (c *Client) Ping(ctx context.Context) error {
	if !c.IsEnabled() {
		return ErrNotInitialized
	}
	return c.client.Ping(ctx).Err()
}

// WindowResult is the state of a sliding window after recording a hit.
type WindowResult struct {
	// Count is the number of hits inside the window, including the one just recorded.
	Count int64
	// Oldest is the time of the earliest hit still inside the window.
	Oldest time.Time
}

// RecordHit adds a hit at now to the sorted set at key, drops hits older than window and
// returns the remaining count. All steps run in one MULTI/EXEC transaction.
func (c *Client) RecordHit(ctx context.Context, key, member string, now time.Time, window time.Duration) (WindowResult, error) {
	if !c.IsEnabled() {
		return WindowResult{}, ErrNotInitialized
	}

	nowMs := now.UnixMilli()
	windowStartMs := now.Add(-window).UnixMilli()

	var card *redis.IntCmd
	var oldest *redis.ZSliceCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStartMs))
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(nowMs), Member: member})
		card = pipe.ZCard(ctx, key)
		oldest = pipe.ZRangeWithScores(ctx, key, 0, 0)
		pipe.Expire(ctx, key, 2*window)
		return nil
	})
	if err != nil {
		return WindowResult{}, fmt.Errorf("failed to record hit: %w", err)
	}

	result := WindowResult{Count: card.Val(), Oldest: now}
	if z := oldest.Val(); len(z) > 0 {
		result.Oldest = time.UnixMilli(int64(z[0].Score))
	}
	return result, nil
}

// RemoveHit deletes a previously recorded member, used to not count rejected requests.
func (c *Client) RemoveHit(ctx context.Context, key, member string) error {
	if !c.IsEnabled() {
		return ErrNotInitialized
	}
	return c.client.ZRem(ctx, key, member).Err()
}
