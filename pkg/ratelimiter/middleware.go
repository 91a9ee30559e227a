package ratelimiter

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrymomot/bookspace/handler"
	"github.com/dmitrymomot/bookspace/pkg/clientip"
	"github.com/dmitrymomot/bookspace/pkg/jwt"
)

// KeyFunc names the bucket a request draws from. An empty key skips
// limiting.
type KeyFunc func(r *http.Request) string

// ByClientIP keys on the address stored by clientip.Middleware.
func ByClientIP(r *http.Request) string {
	if ip := clientip.FromContext(r.Context()); ip != "" {
		return "ip:" + ip
	}
	return ""
}

// BySubject keys on the verified token subject and falls back to the
// client address for anonymous requests.
func BySubject(r *http.Request) string {
	if sub := jwt.SubjectFromContext(r.Context()); sub != "" {
		return "sub:" + sub
	}
	return ByClientIP(r)
}

// Middleware rejects requests whose bucket is empty with 429 and sets the
// X-RateLimit-* headers. Store failures let the request through.
func Middleware(l *Limiter, key KeyFunc, onError handler.ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}
			res, err := l.Allow(r.Context(), k)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(res.Remaining, 0)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
			if !res.Allowed() {
				retry := res.RetryAfter(time.Now())
				h.Set("Retry-After", strconv.Itoa(int((retry+time.Second-1)/time.Second)))
				onError(w, r, errors.Join(handler.ErrTooManyRequests, ErrLimitExceeded))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
