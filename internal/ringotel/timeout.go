package ringotel

import (
	"context"
	"time"
)

const DefaultTimeout = 15 * time.Second

// callWithTimeout executes one remote call bounded by d (DefaultTimeout when zero).
func callWithTimeout[T any](ctx context.Context, d time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if d <= 0 {
		d = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return fn(ctx)
}
