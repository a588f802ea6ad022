package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"trilha-futuro/internal/domain"
	"trilha-futuro/internal/monitoring"
	"trilha-futuro/internal/repository"
	"trilha-futuro/internal/service"
)

// memStore implementa todos los repositorios en memoria para los tests HTTP.
type memStore struct {
	mu            sync.Mutex
	users         map[string]domain.User
	results       []domain.QuizResult
	feedbacks     []domain.Feedback
	conversations []domain.Conversation
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]domain.User)}
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, user domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.s.users[user.ID] = user
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func (r memUsers) Count(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.users), nil
}

type memResults struct{ s *memStore }

func (r memResults) Create(_ context.Context, result domain.QuizResult) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.results = append(r.s.results, result)
	return nil
}

func (r memResults) ListByUserID(_ context.Context, userID string) ([]domain.QuizResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.QuizResult
	for i := len(r.s.results) - 1; i >= 0; i-- {
		if r.s.results[i].UserID == userID {
			out = append(out, r.s.results[i])
		}
	}
	return out, nil
}

func (r memResults) CountByUserID(ctx context.Context, userID string) (int, error) {
	items, err := r.ListByUserID(ctx, userID)
	return len(items), err
}

func (r memResults) Count(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.results), nil
}

func (r memResults) CountByProfile(_ context.Context) ([]domain.ProfileCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[domain.ProfileKey]int{}
	for _, res := range r.s.results {
		counts[res.Profile]++
	}
	out := make([]domain.ProfileCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, domain.ProfileCount{Profile: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Profile < out[j].Profile })
	return out, nil
}

type memFeedbacks struct{ s *memStore }

func (r memFeedbacks) Create(_ context.Context, fb domain.Feedback) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.feedbacks = append(r.s.feedbacks, fb)
	return nil
}

func (r memFeedbacks) ListRecentByUserID(_ context.Context, userID string, limit int) ([]domain.Feedback, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Feedback
	for i := len(r.s.feedbacks) - 1; i >= 0 && len(out) < limit; i-- {
		if r.s.feedbacks[i].UserID == userID {
			out = append(out, r.s.feedbacks[i])
		}
	}
	return out, nil
}

func (r memFeedbacks) CountByUserID(_ context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, fb := range r.s.feedbacks {
		if fb.UserID == userID {
			n++
		}
	}
	return n, nil
}

type memConversations struct{ s *memStore }

func (r memConversations) Create(_ context.Context, conv domain.Conversation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.conversations = append(r.s.conversations, conv)
	return nil
}

func (r memConversations) ListByUserID(_ context.Context, userID string, limit int) ([]domain.Conversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Conversation
	for i := len(r.s.conversations) - 1; i >= 0 && len(out) < limit; i-- {
		if r.s.conversations[i].UserID == userID {
			out = append(out, r.s.conversations[i])
		}
	}
	return out, nil
}

func (r memConversations) CountByUserID(_ context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, c := range r.s.conversations {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

type mockEmailSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *mockEmailSender) SendWelcome(_ context.Context, toEmail, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, toEmail)
	return m.err
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type testServer struct {
	router *gin.Engine
	store  *memStore
	jwt    *service.JWTService
	email  *mockEmailSender
}

type testOptions struct {
	authLimiter    service.RateLimiter
	chatLimiter    service.RateLimiter
	globalRate     int
	globalDaily    int
	trustedProxies []string
	pingErr        error
}

func newTestServer(t *testing.T, opts testOptions) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	store := newMemStore()
	users := memUsers{s: store}
	results := memResults{s: store}
	feedbacks := memFeedbacks{s: store}
	conversations := memConversations{s: store}
	metrics := monitoring.New()
	sender := &mockEmailSender{}

	jwtSvc := newTestJWT(t)
	userSvc := service.NewUserService(logger, users, sender)
	quizSvc := service.NewQuizService(results, metrics, logger)
	chatSvc := service.NewChatService(conversations, metrics, logger)
	feedbackSvc := service.NewFeedbackService(feedbacks)
	statsSvc := service.NewStatsService(users, results, feedbacks, conversations, logger)

	router := NewRouter(RouterDeps{
		Logger:            logger,
		JWT:               jwtSvc,
		Metrics:           metrics,
		User:              NewUserHandler(logger, userSvc, jwtSvc),
		Quiz:              NewQuizHandler(logger, quizSvc),
		Chat:              NewChatHandler(logger, chatSvc),
		Feedback:          NewFeedbackHandler(logger, feedbackSvc),
		Stats:             NewStatsHandler(logger, statsSvc, userSvc),
		Health:            NewHealthHandler(logger, fakePinger{err: opts.pingErr}),
		AuthLimiter:       opts.authLimiter,
		ChatLimiter:       opts.chatLimiter,
		GlobalRatePerHour: opts.globalRate,
		GlobalRatePerDay:  opts.globalDaily,
		TrustedProxies:    opts.trustedProxies,
	})
	return &testServer{router: router, store: store, jwt: jwtSvc, email: sender}
}

func performRequest(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

type authResponse struct {
	User   domain.User       `json:"user"`
	Tokens service.TokenPair `json:"tokens"`
}

// registerUser da de alta un usuario y devuelve su access token.
func (s *testServer) registerUser(t *testing.T, name, email string) authResponse {
	t.Helper()
	rec := performRequest(s.router, http.MethodPost, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": "segredo1",
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var resp authResponse
	decodeBody(t, rec, &resp)
	return resp
}

type countingLimiter struct {
	mu    sync.Mutex
	max   int
	calls map[string]int
}

func newCountingLimiter(max int) *countingLimiter {
	return &countingLimiter{max: max, calls: make(map[string]int)}
}

func (l *countingLimiter) Allow(_ context.Context, key string) service.RateDecision {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[key]++
	if l.calls[key] > l.max {
		return service.RateDecision{RetryAfter: 1500 * time.Millisecond}
	}
	return service.RateDecision{Allowed: true}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, testOptions{})
	rec := performRequest(srv.router, http.MethodGet, "/healthz", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	down := newTestServer(t, testOptions{pingErr: errors.New("db down")})
	rec = performRequest(down.router, http.MethodGet, "/healthz", nil, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when db is down, got %d", rec.Code)
	}

	performRequest(srv.router, http.MethodGet, "/results/exatas", nil, "")
	rec = performRequest(srv.router, http.MethodGet, "/metrics", nil, "")
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(`endpoint="/results/:profile"`)) {
		t.Fatalf("expected request metrics to be exposed, got %d", rec.Code)
	}
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t, testOptions{})
	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/dashboard"},
		{http.MethodGet, "/quiz"},
		{http.MethodPost, "/quiz"},
		{http.MethodPost, "/feedback"},
		{http.MethodGet, "/api/stats"},
		{http.MethodGet, "/api/chart/profile-distribution"},
	} {
		rec := performRequest(srv.router, route.method, route.path, nil, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", route.method, route.path, rec.Code)
		}
	}
}

func TestRouter_GlobalRateLimit(t *testing.T) {
	srv := newTestServer(t, testOptions{globalRate: 2})
	for i := 0; i < 2; i++ {
		if rec := performRequest(srv.router, http.MethodGet, "/results/humanas", nil, ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
	rec := performRequest(srv.router, http.MethodGet, "/results/humanas", nil, "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after budget, got %d", rec.Code)
	}
	var body map[string]any
	decodeBody(t, rec, &body)
	if body["error"] != "too many requests" {
		t.Fatalf("unexpected 429 body: %v", body)
	}
	// Un token cada 30 minutos.
	if got := rec.Header().Get("Retry-After"); got != "1800" {
		t.Fatalf("expected Retry-After 1800, got %q", got)
	}

	if rec := performRequest(srv.router, http.MethodGet, "/healthz", nil, ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz must not be rate limited, got %d", rec.Code)
	}
}

func TestRouter_GlobalDailyLimit(t *testing.T) {
	srv := newTestServer(t, testOptions{globalRate: 50, globalDaily: 3})
	for i := 0; i < 3; i++ {
		if rec := performRequest(srv.router, http.MethodGet, "/results/humanas", nil, ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
	rec := performRequest(srv.router, http.MethodGet, "/results/humanas", nil, "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected daily budget to block, got %d", rec.Code)
	}
	// El bucket diario recarga uno cada 8 horas.
	if got := rec.Header().Get("Retry-After"); got != "28800" {
		t.Fatalf("expected Retry-After 28800, got %q", got)
	}
}

func loginFrom(r http.Handler, remoteAddr, forwardedFor string) int {
	body, _ := json.Marshal(map[string]string{"email": "ana@example.com", "password": "errada"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Code
}

func TestRouter_ForwardedForIgnoredFromUntrustedPeer(t *testing.T) {
	srv := newTestServer(t, testOptions{authLimiter: service.NewMemoryRateLimiter(time.Minute, 2)})

	blocked := 0
	for i := 0; i < 20; i++ {
		if loginFrom(srv.router, "10.0.0.1:40000", fmt.Sprintf("203.0.113.%d", i+1)) == http.StatusTooManyRequests {
			blocked++
		}
	}
	if blocked != 18 {
		t.Fatalf("expected 18 blocked attempts from one socket, got %d", blocked)
	}
}

func TestRouter_ForwardedForHonoredFromTrustedProxy(t *testing.T) {
	limiter := newCountingLimiter(2)
	srv := newTestServer(t, testOptions{authLimiter: limiter, trustedProxies: []string{"10.0.0.0/8"}})

	for i := 0; i < 5; i++ {
		if code := loginFrom(srv.router, "10.0.0.1:40000", fmt.Sprintf("203.0.113.%d", i+1)); code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401 for distinct clients behind proxy, got %d", i, code)
		}
	}
	if _, ok := limiter.calls["login:203.0.113.1"]; !ok {
		t.Fatalf("expected limiter keyed by forwarded client ip, got %v", limiter.calls)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(corsMiddleware([]string{"http://localhost:3000"}))
	r.POST("/chat", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Fatalf("expected origin to be allowed")
	}

	req = httptest.NewRequest(http.MethodPost, "/chat", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("expected unknown origin to be ignored")
	}
}
