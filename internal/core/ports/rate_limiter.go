package ports

import (
	"context"
	"time"
)

// RateLimiter counts hits per key in fixed windows. The check and the
// increment happen as one atomic step per key.
type RateLimiter interface {
	// Allow records a hit for key. When the hit exceeds the window budget,
	// allowed is false and retryAfter is the time left in the window.
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}
