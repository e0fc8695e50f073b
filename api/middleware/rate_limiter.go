// api/middleware/rate_limiter.go
package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the limiter map; idle entries are swept past it.
const maxTrackedClients = 10000

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter grants each client IP limit requests per window, refilled
// continuously.
type RateLimiter struct {
	clients map[string]*client
	mutex   sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	cl, ok := rl.clients[ip]
	if !ok {
		if len(rl.clients) >= maxTrackedClients {
			rl.sweep(now)
		}
		cl = &client{limiter: rate.NewLimiter(rate.Every(rl.window/time.Duration(rl.limit)), rl.limit)}
		rl.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// sweep forgets clients idle for a full window; their buckets are full again.
func (rl *RateLimiter) sweep(now time.Time) {
	for ip, cl := range rl.clients {
		if now.Sub(cl.lastSeen) >= rl.window {
			delete(rl.clients, ip)
		}
	}
}

func getIP(c *gin.Context) string {
	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.ClientIP()
	}
	return ip
}

// RateLimitMiddleware rejects over-limit requests with 429. The body keeps
// an empty command list so AI clients can treat it like any other reply.
func RateLimitMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := getIP(c)
		if !rl.Allow(ip) {
			customLog.WithField("ip", ip).Warn("RateLimitMiddleware: request rejected")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":    "Too many requests. Please wait.",
				"commands": []any{},
			})
			return
		}
		c.Next()
	}
}
