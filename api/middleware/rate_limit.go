package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/rohanverma/vastra-backend/api/responses"
	"github.com/rohanverma/vastra-backend/pkg/config"
	pkgerrors "github.com/rohanverma/vastra-backend/pkg/errors"
	"github.com/rohanverma/vastra-backend/pkg/logger"
)

const limiterIdleEviction = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterPool struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rps     rate.Limit
	burst   int
}

func newLimiterPool(cfg config.RateLimitConfig) *limiterPool {
	return &limiterPool{
		clients: make(map[string]*clientLimiter),
		rps:     rate.Limit(cfg.RPS),
		burst:   cfg.Burst,
	}
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	entry, ok := p.clients[key]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(p.rps, p.burst)}
		p.clients[key] = entry
	}
	entry.lastSeen = now

	// Evict stale clients inline so the map does not grow unbounded.
	for k, v := range p.clients {
		if now.Sub(v.lastSeen) > limiterIdleEviction {
			delete(p.clients, k)
		}
	}
	return entry.limiter
}

// RateLimit applies a per-client token bucket across the API surface.
func RateLimit(cfg config.RateLimitConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	pool := newLimiterPool(cfg)
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled || cfg.RPS <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !pool.get(ip).Allow() {
				if logg != nil {
					ctx := logg.WithFields(r.Context(), map[string]any{"ip": ip})
					logg.Warn(ctx, "rate_limit.blocked")
				}
				responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
