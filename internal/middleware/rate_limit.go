// internal/middleware/rate_limit.go
package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/javajoker/franchise-backoffice/internal/config"
	"github.com/javajoker/franchise-backoffice/internal/i18n"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiter struct {
	visitors map[string]*visitor
	mtx      sync.Mutex
	rate     rate.Limit
	burst    int
}

func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    b,
	}
}

// Cleanup forgets visitors idle for three minutes until ctx is cancelled.
func (rl *RateLimiter) Cleanup(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mtx.Lock()
			for ip, v := range rl.visitors {
				if time.Since(v.lastSeen) > 3*time.Minute {
					delete(rl.visitors, ip)
				}
			}
			rl.mtx.Unlock()
		}
	}
}

func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.getVisitor(c.ClientIP())

		if !limiter.Allow() {
			utils.ErrorResponse(c, http.StatusTooManyRequests, i18n.T(utils.GetLangFromContext(c), i18n.KeyRateLimited), nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// Limiters groups the per-IP limiters used by the router.
type Limiters struct {
	General *RateLimiter
	Auth    *RateLimiter
	Upload  *RateLimiter
}

// NewLimiters builds the general limiter from configuration; login and
// upload endpoints get fixed tighter budgets.
func NewLimiters(cfg config.RateLimitConfig) *Limiters {
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 600
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 20
	}
	return &Limiters{
		General: NewRateLimiter(rate.Limit(float64(perMinute)/60), burst),
		Auth:    NewRateLimiter(rate.Every(12*time.Second), 5), // 5 per minute
		Upload:  NewRateLimiter(rate.Every(6*time.Second), 10), // 10 per minute
	}
}

// Start runs the visitor cleanup of every limiter until ctx is cancelled.
func (l *Limiters) Start(ctx context.Context) {
	go l.General.Cleanup(ctx)
	go l.Auth.Cleanup(ctx)
	go l.Upload.Cleanup(ctx)
}
