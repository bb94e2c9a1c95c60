package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/starford/figcaption/internal/metrics"
)

// SaveThrottle limits how often one user may submit the caption form.
// Anonymous requests are keyed by remote address.
type SaveThrottle struct {
	limit   rate.Limit
	burst   int
	metrics *metrics.Registry

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewSaveThrottle allows perMinute saves per user per minute. A
// non-positive perMinute returns nil, which disables throttling.
func NewSaveThrottle(perMinute int, m *metrics.Registry) *SaveThrottle {
	if perMinute <= 0 {
		return nil
	}
	return &SaveThrottle{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		metrics:  m,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (t *SaveThrottle) limiter(key string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.limiters[key]
	if !ok {
		l = rate.NewLimiter(t.limit, t.burst)
		t.limiters[key] = l
	}
	return l
}

// Middleware rejects requests over the limit with 429.
func (t *SaveThrottle) Middleware(next http.Handler) http.Handler {
	if t == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if u := UserFromContext(r.Context()); !u.IsAnonymous() {
			key = "user:" + strconv.FormatInt(u.ID, 10)
		}
		if !t.limiter(key).Allow() {
			t.metrics.Save(metrics.SaveThrottled)
			writeJSON(w, http.StatusTooManyRequests, errorBody("too many requests"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
