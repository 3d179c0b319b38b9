package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/LegalMindAI/Backend-V2/internal/clients/redis"
	"github.com/LegalMindAI/Backend-V2/internal/observability"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const window = time.Minute

// WindowStore keeps a shared sliding window of request hits
type WindowStore interface {
	RecordHit(ctx context.Context, key, member string, now time.Time, window time.Duration) (redis.WindowResult, error)
	RemoveHit(ctx context.Context, key, member string) error
}

// RateLimitResult represents the result of a rate limit check
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Service limits requests per subject to a fixed number per minute. With a WindowStore the
// window is shared across instances; without one, or when it fails, each instance enforces
// the budget on its own with a token bucket.
type Service struct {
	windows WindowStore
	limit   int
	logger  *observability.Logger
	now     func() time.Time

	mu    sync.Mutex
	local map[string]*rate.Limiter
}

// NewService creates a limiter allowing requestsPerMinute per subject. windows may be nil.
// A limit of zero or less disables limiting.
func NewService(windows WindowStore, requestsPerMinute int, logger *observability.Logger) *Service {
	return &Service{
		windows: windows,
		limit:   requestsPerMinute,
		logger:  logger,
		now:     time.Now,
		local:   make(map[string]*rate.Limiter),
	}
}

// CheckRateLimit records a request for subject and reports whether it is within budget.
// Rejected requests are not counted against the subject.
func (s *Service) CheckRateLimit(ctx context.Context, subject string) RateLimitResult {
	now := s.now()
	if s.limit <= 0 {
		return RateLimitResult{Allowed: true, Limit: s.limit, ResetAt: now}
	}

	if s.windows != nil {
		result, err := s.checkShared(ctx, subject, now)
		if err == nil {
			return result
		}
		s.logger.WarnWithError(ctx, "shared rate limit check failed, falling back to local limiter", err)
	}
	return s.checkLocal(subject, now)
}

// checkShared implements a sliding window over a Redis sorted set keyed rl:{subject}.
func (s *Service) checkShared(ctx context.Context, subject string, now time.Time) (RateLimitResult, error) {
	key := fmt.Sprintf("rl:%s", subject)
	member := fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString())

	hit, err := s.windows.RecordHit(ctx, key, member, now, window)
	if err != nil {
		return RateLimitResult{}, err
	}

	resetAt := hit.Oldest.Add(window)
	if int(hit.Count) > s.limit {
		if err := s.windows.RemoveHit(ctx, key, member); err != nil {
			s.logger.WarnWithError(ctx, "failed to remove rejected hit", err)
		}
		retryAfter := resetAt.Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return RateLimitResult{
			Allowed:    false,
			Limit:      s.limit,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: retryAfter,
		}, nil
	}

	return RateLimitResult{
		Allowed:   true,
		Limit:     s.limit,
		Remaining: s.limit - int(hit.Count),
		ResetAt:   resetAt,
	}, nil
}

func (s *Service) checkLocal(subject string, now time.Time) RateLimitResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, ok := s.local[subject]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(window/time.Duration(s.limit)), s.limit)
		s.local[subject] = limiter
	}

	reservation := limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return RateLimitResult{
			Allowed:    false,
			Limit:      s.limit,
			Remaining:  0,
			ResetAt:    now.Add(delay),
			RetryAfter: delay,
		}
	}

	remaining := int(limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return RateLimitResult{
		Allowed:   true,
		Limit:     s.limit,
		Remaining: remaining,
		ResetAt:   now.Add(window),
	}
}
