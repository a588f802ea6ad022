package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore guarda las sesiones de refresh (jti -> user id). Consume es
// de un solo uso: un refresh token rotado no vuelve a servir.
type SessionStore interface {
	Save(ctx context.Context, jti, userID string, ttl time.Duration) error
	Consume(ctx context.Context, jti string) (string, error)
	Delete(ctx context.Context, jti string) error
}

var ErrSessionNotFound = errors.New("session not found")

type memorySession struct {
	userID    string
	expiresAt time.Time
}

type memorySessionStore struct {
	mu       sync.Mutex
	now      func() time.Time
	sessions map[string]memorySession
}

func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{
		now:      time.Now,
		sessions: make(map[string]memorySession),
	}
}

func (s *memorySessionStore) Save(_ context.Context, jti, userID string, ttl time.Duration) error {
	jti = strings.TrimSpace(jti)
	if jti == "" || userID == "" || ttl <= 0 {
		return errors.New("invalid session")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	// Las sesiones vencidas se purgan al guardar una nueva.
	for k, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			delete(s.sessions, k)
		}
	}
	s.sessions[jti] = memorySession{userID: userID, expiresAt: now.Add(ttl)}
	return nil
}

func (s *memorySessionStore) Consume(_ context.Context, jti string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	jti = strings.TrimSpace(jti)
	sess, ok := s.sessions[jti]
	if !ok {
		return "", ErrSessionNotFound
	}
	delete(s.sessions, jti)
	if !s.now().Before(sess.expiresAt) {
		return "", ErrSessionNotFound
	}
	return sess.userID, nil
}

func (s *memorySessionStore) Delete(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, strings.TrimSpace(jti))
	return nil
}

type redisSessionStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionStore comparte las sesiones entre instancias. Consume usa
// GETDEL para que dos rotaciones concurrentes no reciban el mismo jti.
func NewRedisSessionStore(client *redis.Client) SessionStore {
	if client == nil {
		return nil
	}
	return &redisSessionStore{client: client, prefix: "session:"}
}

func (s *redisSessionStore) Save(ctx context.Context, jti, userID string, ttl time.Duration) error {
	jti = strings.TrimSpace(jti)
	if jti == "" || userID == "" || ttl <= 0 {
		return errors.New("invalid session")
	}
	return s.client.Set(ctx, s.prefix+jti, userID, ttl).Err()
}

func (s *redisSessionStore) Consume(ctx context.Context, jti string) (string, error) {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return "", ErrSessionNotFound
	}
	userID, err := s.client.GetDel(ctx, s.prefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, jti string) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+jti).Err()
}
