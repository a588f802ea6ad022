package http

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"trilha-futuro/internal/service"
)

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

// corsMiddleware solo refleja Origins de la lista blanca.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	originSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originSet[o] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (originSet[origin] || originSet["*"]) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, Origin")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func secureHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

// ipRule es un token bucket por IP: burst de max requests que se recarga
// a razon de max por window.
type ipRule struct {
	max    int
	window time.Duration
}

type visitor struct {
	limiters []*rate.Limiter
	lastSeen time.Time
}

// ipRateLimitMiddleware aplica todos los rules por IP. Una request solo
// consume tokens si todos los buckets la aceptan. Las IPs inactivas se purgan
// en la misma request, sin goroutine de fondo.
func ipRateLimitMiddleware(rules ...ipRule) gin.HandlerFunc {
	active := make([]ipRule, 0, len(rules))
	var expiry time.Duration
	for _, r := range rules {
		if r.max > 0 && r.window > 0 {
			active = append(active, r)
			expiry = max(expiry, r.window)
		}
	}
	if len(active) == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	var (
		mu        sync.Mutex
		visitors  = make(map[string]*visitor)
		lastSweep = time.Now()
	)

	return func(c *gin.Context) {
		key := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if now.Sub(lastSweep) > time.Minute {
			for ip, v := range visitors {
				if now.Sub(v.lastSeen) > expiry {
					delete(visitors, ip)
				}
			}
			lastSweep = now
		}
		v, ok := visitors[key]
		if !ok {
			v = &visitor{limiters: make([]*rate.Limiter, len(active))}
			for i, r := range active {
				v.limiters[i] = rate.NewLimiter(rate.Every(r.window/time.Duration(r.max)), r.max)
			}
			visitors[key] = v
		}
		v.lastSeen = now

		var wait time.Duration
		reservations := make([]*rate.Reservation, 0, len(v.limiters))
		for _, l := range v.limiters {
			res := l.ReserveN(now, 1)
			reservations = append(reservations, res)
			wait = max(wait, res.DelayFrom(now))
		}
		if wait > 0 {
			for _, res := range reservations {
				res.CancelAt(now)
			}
		}
		mu.Unlock()

		if wait > 0 {
			abortTooManyRequests(c, wait)
			return
		}
		c.Next()
	}
}

// scopedRateLimitMiddleware limita una ruta por scope+IP con el limiter
// compartido (memoria o Redis).
func scopedRateLimitMiddleware(scope string, limiter service.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		decision := limiter.Allow(c.Request.Context(), scope+":"+c.ClientIP())
		if !decision.Allowed {
			abortTooManyRequests(c, decision.RetryAfter)
			return
		}
		c.Next()
	}
}

// abortTooManyRequests responde 429 con Retry-After en segundos, redondeado
// hacia arriba.
func abortTooManyRequests(c *gin.Context, retryAfter time.Duration) {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	c.Header("Retry-After", strconv.Itoa(seconds))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":       "too many requests",
		"retry_after": seconds,
	})
}
