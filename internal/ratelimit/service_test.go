package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LegalMindAI/Backend-V2/internal/clients/redis"
	"github.com/LegalMindAI/Backend-V2/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

// memoryWindows is an in-memory WindowStore with the same semantics as the Redis one.
type memoryWindows struct {
	hits    map[string]map[string]time.Time
	failing bool
}

func newMemoryWindows() *memoryWindows {
	return &memoryWindows{hits: make(map[string]map[string]time.Time)}
}

func (m *memoryWindows) RecordHit(_ context.Context, key, member string, now time.Time, window time.Duration) (redis.WindowResult, error) {
	if m.failing {
		return redis.WindowResult{}, errors.New("redis: connection refused")
	}
	set, ok := m.hits[key]
	if !ok {
		set = make(map[string]time.Time)
		m.hits[key] = set
	}
	for k, at := range set {
		if !at.After(now.Add(-window)) {
			delete(set, k)
		}
	}
	set[member] = now
	oldest := now
	for _, at := range set {
		if at.Before(oldest) {
			oldest = at
		}
	}
	return redis.WindowResult{Count: int64(len(set)), Oldest: oldest}, nil
}

func (m *memoryWindows) RemoveHit(_ context.Context, key, member string) error {
	delete(m.hits[key], member)
	return nil
}

func newTestService(windows WindowStore, limit int, clock *time.Time) *Service {
	s := NewService(windows, limit, observability.NewNopLogger())
	s.now = func() time.Time { return *clock }
	return s
}

func TestCheckRateLimit_SharedWindow(t *testing.T) {
	clock := start
	windows := newMemoryWindows()
	s := newTestService(windows, 2, &clock)
	ctx := context.Background()

	first := s.CheckRateLimit(ctx, "owner-1")
	assert.True(t, first.Allowed)
	assert.Equal(t, 1, first.Remaining)

	clock = start.Add(10 * time.Second)
	assert.True(t, s.CheckRateLimit(ctx, "owner-1").Allowed)

	clock = start.Add(20 * time.Second)
	rejected := s.CheckRateLimit(ctx, "owner-1")
	assert.False(t, rejected.Allowed)
	assert.Equal(t, 40*time.Second, rejected.RetryAfter)
	assert.Len(t, windows.hits["rl:owner-1"], 2, "rejected requests are not counted")

	// Other owners have their own budget.
	assert.True(t, s.CheckRateLimit(ctx, "owner-2").Allowed)

	// The first hit leaves the window.
	clock = start.Add(61 * time.Second)
	assert.True(t, s.CheckRateLimit(ctx, "owner-1").Allowed)
}

func TestCheckRateLimit_FallsBackToLocal(t *testing.T) {
	for _, windows := range []WindowStore{nil, &memoryWindows{failing: true}} {
		clock := start
		s := newTestService(windows, 2, &clock)
		ctx := context.Background()

		assert.True(t, s.CheckRateLimit(ctx, "owner-1").Allowed)
		assert.True(t, s.CheckRateLimit(ctx, "owner-1").Allowed)

		rejected := s.CheckRateLimit(ctx, "owner-1")
		assert.False(t, rejected.Allowed)
		assert.InDelta(t, float64(30*time.Second), float64(rejected.RetryAfter), float64(time.Millisecond))

		// One token is refilled every 30 seconds.
		clock = start.Add(31 * time.Second)
		assert.True(t, s.CheckRateLimit(ctx, "owner-1").Allowed)
	}
}

func TestCheckRateLimit_Disabled(t *testing.T) {
	clock := start
	s := newTestService(nil, 0, &clock)
	for i := 0; i < 100; i++ {
		require.True(t, s.CheckRateLimit(context.Background(), "owner-1").Allowed)
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	clock := start
	s := newTestService(newMemoryWindows(), 1, &clock)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("User-ID", "owner-1")
		c.Next()
	})
	r.Use(s.Middleware())
	r.POST("/chat-basic", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat-basic", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat-basic", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Rate limit exceeded. Please try again later.","code":"RATE_LIMIT_EXCEEDED"}`, w.Body.String())
}
