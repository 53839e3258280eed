package google

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

// defaultPause applies when a rate limited response names no Retry-After.
const defaultPause = time.Minute

// Quota is the request budget for one API client.
type Quota struct {
	PerSecond float64
	Burst     int
}

// DefaultQuota stays well below the per-user Tasks API quota.
var DefaultQuota = Quota{
	PerSecond: domain.DefaultRequestsPerSecond,
	Burst:     domain.DefaultBurst,
}

// Throttle paces requests with a token bucket. After the server reports
// rate limiting, every caller is held back until the pause ends.
type Throttle struct {
	bucket *rate.Limiter
	now    func() time.Time

	mu         sync.Mutex
	pauseUntil time.Time
}

// NewThrottle creates a throttle for q. Non-positive fields take the
// DefaultQuota value.
func NewThrottle(q Quota) *Throttle {
	if q.PerSecond <= 0 {
		q.PerSecond = DefaultQuota.PerSecond
	}
	if q.Burst <= 0 {
		q.Burst = DefaultQuota.Burst
	}
	return &Throttle{
		bucket: rate.NewLimiter(rate.Limit(q.PerSecond), q.Burst),
		now:    time.Now,
	}
}

// Wait blocks until the pause is over and a token is available.
func (t *Throttle) Wait(ctx context.Context) error {
	if d := t.remainingPause(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return t.bucket.Wait(ctx)
}

// Pause holds back requests for d, or defaultPause if d is not positive.
// A shorter pause never cuts an earlier, longer one short.
func (t *Throttle) Pause(d time.Duration) {
	if d <= 0 {
		d = defaultPause
	}
	until := t.now().Add(d)

	t.mu.Lock()
	defer t.mu.Unlock()
	if until.After(t.pauseUntil) {
		t.pauseUntil = until
	}
}

// Ready reports whether a request could go out now, consuming a token if so.
func (t *Throttle) Ready() bool {
	return t.remainingPause() <= 0 && t.bucket.Allow()
}

func (t *Throttle) remainingPause() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pauseUntil.Sub(t.now())
}
