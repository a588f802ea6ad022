package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateDecision es la respuesta de un RateLimiter. RetryAfter solo tiene
// sentido cuando Allowed es false.
type RateDecision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// RateLimiter limita acciones por clave (scope:ip) en una ventana deslizante.
type RateLimiter interface {
	Allow(ctx context.Context, key string) RateDecision
}

type slidingWindow struct {
	hits []time.Time
}

// prune descarta los hits anteriores a cutoff. Los hits estan ordenados.
func (w *slidingWindow) prune(cutoff time.Time) {
	i := 0
	for i < len(w.hits) && !w.hits[i].After(cutoff) {
		i++
	}
	w.hits = w.hits[i:]
}

type memoryRateLimiter struct {
	mu        sync.Mutex
	window    time.Duration
	max       int
	now       func() time.Time
	windows   map[string]*slidingWindow
	lastSweep time.Time
}

// NewMemoryRateLimiter crea un limiter por proceso. Las claves sin hits
// dentro de la ventana se purgan como mucho una vez por ventana.
func NewMemoryRateLimiter(window time.Duration, max int) RateLimiter {
	return newMemoryRateLimiter(window, max, time.Now)
}

func newMemoryRateLimiter(window time.Duration, max int, now func() time.Time) *memoryRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &memoryRateLimiter{
		window:    window,
		max:       max,
		now:       now,
		windows:   make(map[string]*slidingWindow),
		lastSweep: now(),
	}
}

func (l *memoryRateLimiter) Allow(_ context.Context, key string) RateDecision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(cutoff)
		l.lastSweep = now
	}

	w, ok := l.windows[key]
	if !ok {
		w = &slidingWindow{}
		l.windows[key] = w
	}
	w.prune(cutoff)
	if len(w.hits) >= l.max {
		return RateDecision{RetryAfter: w.hits[0].Add(l.window).Sub(now)}
	}
	w.hits = append(w.hits, now)
	return RateDecision{Allowed: true}
}

func (l *memoryRateLimiter) sweep(cutoff time.Time) {
	for key, w := range l.windows {
		w.prune(cutoff)
		if len(w.hits) == 0 {
			delete(l.windows, key)
		}
	}
}

type redisTxPipeliner interface {
	TxPipeline() redis.Pipeliner
}

type redisRateLimiter struct {
	client  redisTxPipeliner
	logger  *zap.Logger
	prefix  string
	window  time.Duration
	max     int
	timeout time.Duration
	now     func() time.Time
}

// NewRedisRateLimiter guarda cada hit en un sorted set (score en microsegundos)
// para compartir la ventana entre instancias. Si redis falla deja pasar.
func NewRedisRateLimiter(client *redis.Client, logger *zap.Logger, prefix string, window time.Duration, max int) RateLimiter {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	if prefix == "" {
		prefix = "rl:"
	}
	return &redisRateLimiter{
		client:  client,
		logger:  logger,
		prefix:  prefix,
		window:  window,
		max:     max,
		timeout: 500 * time.Millisecond,
		now:     time.Now,
	}
}

func (l *redisRateLimiter) Allow(ctx context.Context, key string) RateDecision {
	if l == nil || l.client == nil {
		return RateDecision{Allowed: true}
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return RateDecision{Allowed: true}
	}
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	now := l.now()
	redisKey := l.prefix + key
	cutoff := strconv.FormatInt(now.Add(-l.window).UnixMicro(), 10)

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", cutoff)
	oldest := pipe.ZRangeWithScores(ctx, redisKey, 0, 0)
	count := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warn("rate limiter read failed", zap.String("key", redisKey), zap.Error(err))
		return RateDecision{Allowed: true}
	}

	if count.Val() >= int64(l.max) {
		retry := l.window
		if z := oldest.Val(); len(z) > 0 {
			retry = time.UnixMicro(int64(z[0].Score)).Add(l.window).Sub(now)
		}
		return RateDecision{RetryAfter: retry}
	}

	pipe = l.client.TxPipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixMicro()), Member: uuid.NewString()})
	pipe.PExpire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warn("rate limiter write failed", zap.String("key", redisKey), zap.Error(err))
	}
	return RateDecision{Allowed: true}
}
