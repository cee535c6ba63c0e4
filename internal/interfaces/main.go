// Package interfaces declares the small contracts services depend on
// without caring about the backing implementation.
package interfaces

import (
	"context"

	"github.com/go-redis/redis_rate/v10"
)

// Limiter is a keyed token-bucket rate limit check.
type Limiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) error
}
