// Package ratelimiter implements token bucket rate limiting with an
// in-memory store for single instances, a Redis store shared across
// instances, and HTTP middleware.
//
// A bucket holds up to Capacity tokens and regains RefillRate tokens every
// RefillInterval. A request costs one token; a request that finds too few
// tokens is denied without draining the bucket.
//
//	limiter, err := ratelimiter.New(ratelimiter.NewMemoryStore(), ratelimiter.Config{
//		Capacity:       60,
//		RefillRate:     1,
//		RefillInterval: time.Second,
//	})
//	r.Use(ratelimiter.Middleware(limiter, ratelimiter.ByClientIP, onError))
package ratelimiter
